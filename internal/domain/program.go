package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a workout program owned by a user. The whole tree
// (weeks -> sessions -> blocks -> activities -> prescriptions) is stored
// as one document; the backend is the only writer, so reads treat it as
// an immutable snapshot.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Focus       Focus              `bson:"focus" json:"focus"`
	Difficulty  Difficulty         `bson:"difficulty" json:"difficulty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"` // cover image object key/URL
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	IsPublic    bool               `bson:"isPublic" json:"isPublic"`
	IsTemplate  bool               `bson:"isTemplate" json:"isTemplate"`
	Weeks       []Week             `bson:"weeks,omitempty" json:"weeks"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Week groups the sessions of one calendar week inside a program.
type Week struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"` // 1-based
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Sessions   []Session          `bson:"sessions,omitempty" json:"sessions"`
}

// Session is one full workout within a week.
type Session struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Focus       SessionFocus       `bson:"focus" json:"focus"`
	DayOfWeek   DayOfWeek          `bson:"dayOfWeek" json:"dayOfWeek"`
	DayOrdering int                `bson:"dayOrdering" json:"dayOrdering"` // tie-break within a day
	Blocks      []SessionBlock     `bson:"blocks,omitempty" json:"blocks"`
}

// SessionBlock groups activities under one execution scheme,
// e.g. "Warmup" (STANDARD) or "Metcon A" (RFT, rounds_target=3).
type SessionBlock struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockOrder     int                `bson:"blockOrder" json:"blockOrder"`
	SchemeType     SchemeType         `bson:"schemeType" json:"schemeType"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	DurationTarget *int               `bson:"durationTarget,omitempty" json:"durationTarget,omitempty"` // seconds, EMOM/AMRAP/TABATA/INTERVAL
	RoundsTarget   *int               `bson:"roundsTarget,omitempty" json:"roundsTarget,omitempty"`     // RFT/CIRCUIT
	Activities     []Activity         `bson:"activities,omitempty" json:"activities"`
}

// Activity is a single lift/movement inside a block. It references a
// canonical Exercise, or falls back to the manual fields for ad-hoc
// movements; when the exercise reference is present it is authoritative
// and the manual fields are ignored.
type Activity struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderInBlock   int                `bson:"orderInBlock" json:"orderInBlock"`
	Exercise       *Exercise          `bson:"exercise,omitempty" json:"exercise,omitempty"`
	ManualName     string             `bson:"manualName,omitempty" json:"manualName,omitempty"`
	ManualVideoURL string             `bson:"manualVideoUrl,omitempty" json:"manualVideoUrl,omitempty"`
	ManualImage    string             `bson:"manualImage,omitempty" json:"manualImage,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Prescriptions  []Prescription     `bson:"prescriptions,omitempty" json:"prescriptions"`
}

// DisplayName resolves the name to show for the activity.
func (a *Activity) DisplayName() string {
	if a.Exercise != nil {
		return a.Exercise.Name
	}
	if a.ManualName != "" {
		return a.ManualName
	}
	return "Untitled Activity"
}

// Prescription is one planned set's worth of work. Absent optional
// fields are normal input everywhere, never an error.
type Prescription struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SetNumber     int                `bson:"setNumber" json:"setNumber"` // 1-based
	SetTag        SetTag             `bson:"setTag" json:"setTag"`
	PrimaryMetric PrimaryMetric      `bson:"primaryMetric" json:"primaryMetric"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`

	// Strength fields. Reps is free-form text so ranges like "8-10" survive.
	Reps        string   `bson:"reps,omitempty" json:"reps,omitempty"`
	RestSeconds *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Tempo       string   `bson:"tempo,omitempty" json:"tempo,omitempty"`
	Weight      *float64 `bson:"weight,omitempty" json:"weight,omitempty"` // always kilograms
	IsPerSide   bool     `bson:"isPerSide" json:"isPerSide"`

	// Intensity fields.
	IntensityValue string        `bson:"intensityValue,omitempty" json:"intensityValue,omitempty"`
	IntensityType  IntensityType `bson:"intensityType,omitempty" json:"intensityType,omitempty"`

	// Cardio fields.
	DurationSeconds *int     `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	Distance        *float64 `bson:"distance,omitempty" json:"distance,omitempty"` // always meters
	Calories        *int     `bson:"calories,omitempty" json:"calories,omitempty"`

	ExtraData map[string]any `bson:"extraData,omitempty" json:"extraData,omitempty"`
}

// WeekCount returns the number of weeks in the program.
func (p *Program) WeekCount() int { return len(p.Weeks) }

// SessionCount returns the number of sessions across all weeks.
func (p *Program) SessionCount() int {
	count := 0
	for i := range p.Weeks {
		count += len(p.Weeks[i].Sessions)
	}
	return count
}

// ActivityCount returns the number of activities across the whole tree.
func (p *Program) ActivityCount() int {
	count := 0
	for i := range p.Weeks {
		for j := range p.Weeks[i].Sessions {
			for k := range p.Weeks[i].Sessions[j].Blocks {
				count += len(p.Weeks[i].Sessions[j].Blocks[k].Activities)
			}
		}
	}
	return count
}

// Rough per-session time estimate: rest plus 2 seconds per rep, with a
// 30 second transition between activities. Free-form rep text that does
// not parse contributes rest time only.
const (
	secondsPerRep  = 2
	transitionTime = 30
)

// EstimatedSeconds estimates how long the session takes to complete.
func (s *Session) EstimatedSeconds() int {
	total := 0
	for i := range s.Blocks {
		for j := range s.Blocks[i].Activities {
			act := &s.Blocks[i].Activities[j]
			for k := range act.Prescriptions {
				pres := &act.Prescriptions[k]
				if pres.RestSeconds != nil {
					total += *pres.RestSeconds
				}
				total += repCount(pres.Reps) * secondsPerRep
			}
			total += transitionTime
		}
	}
	return total
}

// repCount parses leading digits out of the free-form reps text.
// "8-10" counts as 8, "AMRAP" as 0.
func repCount(reps string) int {
	n := 0
	for _, r := range reps {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
