package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jfloyd10/gofit/internal/domain"
)

func sampleProgram() *domain.Program {
	rest := 90
	weight := 60.0
	return &domain.Program{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Title:      "Strength Base",
		Focus:      domain.FocusStrength,
		Difficulty: domain.DifficultyIntermediate,
		Weeks: []domain.Week{{
			ID:         primitive.NewObjectID(),
			WeekNumber: 1,
			Name:       "Week 1",
			Sessions: []domain.Session{{
				ID:        primitive.NewObjectID(),
				Title:     "Day 1: Lower",
				Focus:     domain.SessionFocusLift,
				DayOfWeek: domain.Monday,
				Blocks: []domain.SessionBlock{{
					ID:         primitive.NewObjectID(),
					SchemeType: domain.SchemeStandard,
					Activities: []domain.Activity{{
						ID:       primitive.NewObjectID(),
						Exercise: &domain.Exercise{ID: primitive.NewObjectID(), Name: "Back Squat"},
						Prescriptions: []domain.Prescription{{
							ID:            primitive.NewObjectID(),
							SetNumber:     1,
							SetTag:        domain.SetTagWorking,
							PrimaryMetric: domain.MetricReps,
							Reps:          "5",
							RestSeconds:   &rest,
							Weight:        &weight,
						}},
					}},
				}},
			}},
		}},
	}
}

func TestFromProgramCarriesServerIDsAndMintsTempIDs(t *testing.T) {
	p := sampleProgram()
	bp := FromProgram(p)

	assert.Equal(t, p.ID, bp.ID)
	assert.NotEmpty(t, bp.TempID)
	require.NoError(t, bp.Validate())

	w := bp.Weeks[0]
	assert.Equal(t, p.Weeks[0].ID, w.ID)
	assert.NotEmpty(t, w.TempID)
	assert.True(t, w.Persisted())

	pres := w.Sessions[0].Blocks[0].Activities[0].Prescriptions[0]
	assert.Equal(t, p.Weeks[0].Sessions[0].Blocks[0].Activities[0].Prescriptions[0].ID, pres.ID)
	assert.NotEmpty(t, pres.TempID)
}

func TestFromProgramDoesNotAliasOptionalFields(t *testing.T) {
	p := sampleProgram()
	bp := FromProgram(p)

	got := &bp.Weeks[0].Sessions[0].Blocks[0].Activities[0].Prescriptions[0]
	src := &p.Weeks[0].Sessions[0].Blocks[0].Activities[0].Prescriptions[0]

	require.NotNil(t, got.Weight)
	*got.Weight = 100
	*got.RestSeconds = 10
	assert.Equal(t, 60.0, *src.Weight, "builder edit leaked into the domain snapshot")
	assert.Equal(t, 90, *src.RestSeconds)

	// Exercise reference is copied, not shared.
	bp.Weeks[0].Sessions[0].Blocks[0].Activities[0].Exercise.Name = "Front Squat"
	assert.Equal(t, "Back Squat", p.Weeks[0].Sessions[0].Blocks[0].Activities[0].Exercise.Name)
}

func TestFromProgramTempIDsAreDistinct(t *testing.T) {
	bp := FromProgram(sampleProgram())

	seen := map[string]struct{}{bp.TempID: {}}
	for _, w := range bp.Weeks {
		for _, id := range []string{w.TempID} {
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
		for _, s := range w.Sessions {
			_, dup := seen[s.TempID]
			require.False(t, dup)
			seen[s.TempID] = struct{}{}
		}
	}
}
