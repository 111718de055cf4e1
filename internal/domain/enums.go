package domain

// Focus describes the overall orientation of a program.
type Focus string

const (
	FocusCrossfit   Focus = "Crossfit"
	FocusYoga       Focus = "Yoga"
	FocusHybrid     Focus = "Hybrid"
	FocusCardio     Focus = "Cardio"
	FocusStrength   Focus = "Strength"
	FocusTriathalon Focus = "Triathalon"
)

var focusLabels = map[Focus]string{
	FocusCrossfit:   "Crossfit",
	FocusYoga:       "Yoga",
	FocusHybrid:     "Hybrid",
	FocusCardio:     "Cardio",
	FocusStrength:   "Strength",
	FocusTriathalon: "Triathalon",
}

func (f Focus) Valid() bool { _, ok := focusLabels[f]; return ok }

// Display returns the human-readable label; unknown values pass through.
func (f Focus) Display() string {
	if label, ok := focusLabels[f]; ok {
		return label
	}
	return string(f)
}

// Difficulty grades a program for its intended audience.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

var difficultyLabels = map[Difficulty]string{
	DifficultyBeginner:     "Beginner",
	DifficultyIntermediate: "Intermediate",
	DifficultyAdvanced:     "Advanced",
}

func (d Difficulty) Valid() bool { _, ok := difficultyLabels[d]; return ok }

func (d Difficulty) Display() string {
	if label, ok := difficultyLabels[d]; ok {
		return label
	}
	return string(d)
}

// SessionFocus describes the orientation of a single session.
type SessionFocus string

const (
	SessionFocusLift    SessionFocus = "Lift"
	SessionFocusCardio  SessionFocus = "Cardio"
	SessionFocusStretch SessionFocus = "Stretch"
)

var sessionFocusLabels = map[SessionFocus]string{
	SessionFocusLift:    "Lift",
	SessionFocusCardio:  "Cardio",
	SessionFocusStretch: "Stretch",
}

func (f SessionFocus) Valid() bool { _, ok := sessionFocusLabels[f]; return ok }

func (f SessionFocus) Display() string {
	if label, ok := sessionFocusLabels[f]; ok {
		return label
	}
	return string(f)
}

// DayOfWeek positions a session within its week.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "Sunday"
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
)

var dayOfWeekLabels = map[DayOfWeek]string{
	Sunday:    "Sunday",
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

func (d DayOfWeek) Valid() bool { _, ok := dayOfWeekLabels[d]; return ok }

func (d DayOfWeek) Display() string {
	if label, ok := dayOfWeekLabels[d]; ok {
		return label
	}
	return string(d)
}

// SchemeType governs how a block's duration_target/rounds_target are read:
// duration-driven for EMOM/AMRAP/TABATA/INTERVAL, rounds-driven for
// RFT/CIRCUIT, neither for STANDARD.
type SchemeType string

const (
	SchemeStandard SchemeType = "STANDARD"
	SchemeCircuit  SchemeType = "CIRCUIT"
	SchemeInterval SchemeType = "INTERVAL"
	SchemeEMOM     SchemeType = "EMOM"
	SchemeAMRAP    SchemeType = "AMRAP"
	SchemeRFT      SchemeType = "RFT"
	SchemeTabata   SchemeType = "TABATA"
)

var schemeTypeLabels = map[SchemeType]string{
	SchemeStandard: "Standard List",
	SchemeCircuit:  "Circuit",
	SchemeInterval: "Intervals",
	SchemeEMOM:     "Every Minute on the Minute",
	SchemeAMRAP:    "As Many Rounds as Possible",
	SchemeRFT:      "Rounds for Time",
	SchemeTabata:   "Tabata",
}

func (s SchemeType) Valid() bool { _, ok := schemeTypeLabels[s]; return ok }

func (s SchemeType) Display() string {
	if label, ok := schemeTypeLabels[s]; ok {
		return label
	}
	return string(s)
}

// UsesDuration reports whether duration_target is meaningful for this scheme.
func (s SchemeType) UsesDuration() bool {
	switch s {
	case SchemeEMOM, SchemeAMRAP, SchemeTabata, SchemeInterval:
		return true
	}
	return false
}

// UsesRounds reports whether rounds_target is meaningful for this scheme.
func (s SchemeType) UsesRounds() bool {
	return s == SchemeRFT || s == SchemeCircuit
}

// SetTag classifies a single prescribed set.
type SetTag string

const (
	SetTagWorking  SetTag = "N"
	SetTagWarmup   SetTag = "W"
	SetTagDrop     SetTag = "D"
	SetTagAMRAP    SetTag = "F"
	SetTagCooldown SetTag = "C"
)

var setTagLabels = map[SetTag]string{
	SetTagWorking:  "Working Set",
	SetTagWarmup:   "Warmup",
	SetTagDrop:     "Drop Set",
	SetTagAMRAP:    "Failure / AMRAP",
	SetTagCooldown: "Cool Down",
}

func (t SetTag) Valid() bool { _, ok := setTagLabels[t]; return ok }

func (t SetTag) Display() string {
	if label, ok := setTagLabels[t]; ok {
		return label
	}
	return string(t)
}

// PrimaryMetric declares which field carries a prescription's primary
// unit of work.
type PrimaryMetric string

const (
	MetricReps     PrimaryMetric = "reps"
	MetricTime     PrimaryMetric = "time"
	MetricDistance PrimaryMetric = "distance"
	MetricCalories PrimaryMetric = "calories"
	MetricWeight   PrimaryMetric = "weight"
	MetricNone     PrimaryMetric = "none"
)

var primaryMetricLabels = map[PrimaryMetric]string{
	MetricReps:     "Reps",
	MetricTime:     "Time",
	MetricDistance: "Distance",
	MetricCalories: "Calories",
	MetricWeight:   "Weight",
	MetricNone:     "None",
}

func (m PrimaryMetric) Valid() bool { _, ok := primaryMetricLabels[m]; return ok }

func (m PrimaryMetric) Display() string {
	if label, ok := primaryMetricLabels[m]; ok {
		return label
	}
	return string(m)
}

// IntensityType qualifies the intensity_value of a prescription.
type IntensityType string

const (
	IntensityWeight        IntensityType = "weight"
	IntensityRPE           IntensityType = "rpe"
	IntensityPercent1RM    IntensityType = "percent_1rm"
	IntensityHeartRateZone IntensityType = "heart_rate_zone"
	IntensityHeartRate     IntensityType = "heart_rate"
	IntensityPace          IntensityType = "pace"
	IntensityPower         IntensityType = "power"
	IntensityPercFTP       IntensityType = "perc_ftp"
)

var intensityTypeLabels = map[IntensityType]string{
	IntensityWeight:        "Weight",
	IntensityRPE:           "RPE",
	IntensityPercent1RM:    "%1RM",
	IntensityHeartRateZone: "HR Zone",
	IntensityHeartRate:     "Heart Rate",
	IntensityPace:          "Pace",
	IntensityPower:         "Power",
	IntensityPercFTP:       "%FTP",
}

func (t IntensityType) Valid() bool { _, ok := intensityTypeLabels[t]; return ok }

func (t IntensityType) Display() string {
	if label, ok := intensityTypeLabels[t]; ok {
		return label
	}
	return string(t)
}
