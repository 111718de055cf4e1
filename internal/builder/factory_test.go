package builder

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfloyd10/gofit/internal/domain"
)

func TestNewTempIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := NewTempID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate tempId %q at iteration %d", id, i)
		seen[id] = struct{}{}
	}
}

func TestNewWeekDefaults(t *testing.T) {
	w := NewWeek(3)

	assert.NotEmpty(t, w.TempID)
	assert.True(t, w.ID.IsZero())
	assert.Equal(t, 3, w.WeekNumber)
	assert.Equal(t, "Week 3", w.Name)
	assert.Empty(t, w.Notes)
	assert.NotNil(t, w.Sessions)
	assert.Empty(t, w.Sessions)
	assert.False(t, w.IsCollapsed)
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(2)

	assert.NotEmpty(t, s.TempID)
	assert.Equal(t, "New Session", s.Title)
	assert.Equal(t, domain.SessionFocusLift, s.Focus)
	assert.Equal(t, domain.Monday, s.DayOfWeek)
	assert.Equal(t, 2, s.DayOrdering)
	assert.Empty(t, s.Blocks)
}

func TestNewBlockDefaults(t *testing.T) {
	b := NewBlock(1)

	assert.NotEmpty(t, b.TempID)
	assert.Equal(t, 1, b.BlockOrder)
	assert.Equal(t, domain.SchemeStandard, b.SchemeType)
	assert.Nil(t, b.DurationTarget)
	assert.Nil(t, b.RoundsTarget)
	assert.Empty(t, b.Activities)
}

func TestNewActivityDefaults(t *testing.T) {
	a := NewActivity(4)

	assert.NotEmpty(t, a.TempID)
	assert.Equal(t, 4, a.OrderInBlock)
	assert.Nil(t, a.Exercise)
	assert.Empty(t, a.ManualName)
	assert.Empty(t, a.Prescriptions)
}

func TestNewPrescriptionDefaults(t *testing.T) {
	p := NewPrescription(1, 8, 60)

	assert.NotEmpty(t, p.TempID)
	assert.Equal(t, 1, p.SetNumber)
	assert.Equal(t, domain.SetTagWorking, p.SetTag)
	assert.Equal(t, domain.MetricReps, p.PrimaryMetric)
	assert.Equal(t, "8", p.Reps)
	require.NotNil(t, p.RestSeconds)
	assert.Equal(t, 60, *p.RestSeconds)
	assert.Nil(t, p.Weight)
	assert.False(t, p.IsPerSide)
}

func TestActivityFromExercise(t *testing.T) {
	ex := &domain.Exercise{
		Name:        "Deadlift",
		DefaultSets: 4,
		DefaultReps: 5,
		DefaultRest: 120,
	}

	a := ActivityFromExercise(ex, 0)

	require.NotNil(t, a.Exercise)
	assert.Equal(t, "Deadlift", a.Exercise.Name)
	require.Len(t, a.Prescriptions, 4)
	for i, p := range a.Prescriptions {
		assert.Equal(t, i+1, p.SetNumber)
		assert.Equal(t, "5", p.Reps)
		require.NotNil(t, p.RestSeconds)
		assert.Equal(t, 120, *p.RestSeconds)
	}

	// Each seeded prescription keys independently.
	seen := make(map[string]struct{})
	for _, p := range a.Prescriptions {
		_, dup := seen[p.TempID]
		assert.False(t, dup)
		seen[p.TempID] = struct{}{}
	}
}

func TestActivityFromExerciseNoDefaultSets(t *testing.T) {
	for _, sets := range []int{0, -3} {
		t.Run(strconv.Itoa(sets), func(t *testing.T) {
			a := ActivityFromExercise(&domain.Exercise{Name: "Row", DefaultSets: sets}, 0)
			require.NotNil(t, a.Exercise)
			assert.Empty(t, a.Prescriptions)
		})
	}
}

func TestFactoryTreeSatisfiesIdentityInvariant(t *testing.T) {
	week := NewWeek(1)
	session := NewSession(0)
	block := NewBlock(0)
	block.Activities = append(block.Activities,
		ActivityFromExercise(&domain.Exercise{Name: "Press", DefaultSets: 3, DefaultReps: 8, DefaultRest: 60}, 0))
	session.Blocks = append(session.Blocks, block)
	week.Sessions = append(week.Sessions, session)

	p := &Program{TempID: NewTempID(), Title: "Starter", Weeks: []Week{week}}
	require.NoError(t, p.Validate())

	// A node stripped of both identities is caught.
	p.Weeks[0].Sessions[0].Blocks[0].Activities[0].Prescriptions[0].TempID = ""
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIdentity)
}
