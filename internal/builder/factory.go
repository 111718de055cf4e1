package builder

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jfloyd10/gofit/internal/domain"
)

// lastStamp tracks the most recently observed timestamp so that ids
// minted within the same microsecond still differ in their stamp part.
var lastStamp atomic.Int64

// NewTempID returns a fresh client-side identifier: a monotonically
// observed timestamp plus a random suffix. Uniqueness is advisory; the
// random part makes collisions vanishingly unlikely within a session
// and nothing actively detects them.
func NewTempID() string {
	stamp := time.Now().UnixMicro()
	for {
		last := lastStamp.Load()
		if stamp <= last {
			stamp = last + 1
		}
		if lastStamp.CompareAndSwap(last, stamp) {
			break
		}
	}
	return "tmp_" + strconv.FormatInt(stamp, 36) + "_" + uuid.NewString()[:8]
}

// NewWeek returns an empty builder week named after its position.
func NewWeek(weekNumber int) Week {
	return Week{
		TempID:     NewTempID(),
		WeekNumber: weekNumber,
		Name:       fmt.Sprintf("Week %d", weekNumber),
		Sessions:   []Session{},
	}
}

// NewSession returns an empty builder session with editor defaults.
func NewSession(dayOrdering int) Session {
	return Session{
		TempID:      NewTempID(),
		Title:       "New Session",
		Focus:       domain.SessionFocusLift,
		DayOfWeek:   domain.Monday,
		DayOrdering: dayOrdering,
		Blocks:      []Block{},
	}
}

// NewBlock returns an empty STANDARD block.
func NewBlock(blockOrder int) Block {
	return Block{
		TempID:     NewTempID(),
		BlockOrder: blockOrder,
		SchemeType: domain.SchemeStandard,
		Activities: []Activity{},
	}
}

// NewActivity returns an empty builder activity with no exercise bound.
func NewActivity(orderInBlock int) Activity {
	return Activity{
		TempID:        NewTempID(),
		OrderInBlock:  orderInBlock,
		Prescriptions: []Prescription{},
	}
}

// NewPrescription returns a working set defaulted to the given reps and
// rest. setNumber is the 1-based position within the activity.
func NewPrescription(setNumber, defaultReps, defaultRest int) Prescription {
	rest := defaultRest
	return Prescription{
		TempID:        NewTempID(),
		SetNumber:     setNumber,
		SetTag:        domain.SetTagWorking,
		PrimaryMetric: domain.MetricReps,
		Reps:          strconv.Itoa(defaultReps),
		RestSeconds:   &rest,
	}
}

// ActivityFromExercise builds an activity bound to the given exercise,
// seeded with exercise.DefaultSets prescriptions numbered 1..n using the
// exercise's default reps and rest. A non-positive DefaultSets yields an
// activity with no prescriptions. The exercise value is copied, so the
// new node shares no state with the caller's.
func ActivityFromExercise(exercise *domain.Exercise, orderInBlock int) Activity {
	activity := NewActivity(orderInBlock)
	if exercise == nil {
		return activity
	}
	ex := *exercise
	activity.Exercise = &ex
	for set := 1; set <= exercise.DefaultSets; set++ {
		activity.Prescriptions = append(activity.Prescriptions,
			NewPrescription(set, exercise.DefaultReps, exercise.DefaultRest))
	}
	return activity
}
