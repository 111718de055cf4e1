package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestPrescriptionDomain(t *testing.T) {
	weights := map[string]*float64{
		"nil":      nil,
		"zero":     floatPtr(0),
		"positive": floatPtr(20),
	}

	tests := []struct {
		metric PrimaryMetric
		weight string
		want   WorkoutDomain
	}{
		{MetricDistance, "nil", DomainCardio},
		{MetricDistance, "zero", DomainCardio},
		{MetricDistance, "positive", DomainHybrid},
		{MetricTime, "nil", DomainCardio},
		{MetricTime, "positive", DomainHybrid},
		{MetricCalories, "nil", DomainCardio},
		{MetricCalories, "positive", DomainHybrid},
		{MetricReps, "nil", DomainStrength},
		{MetricReps, "positive", DomainStrength},
		{MetricWeight, "nil", DomainStrength},
		{MetricWeight, "positive", DomainStrength},
		{MetricNone, "nil", DomainStrength},
		{MetricNone, "positive", DomainStrength},
	}

	for _, tt := range tests {
		p := &Prescription{PrimaryMetric: tt.metric, Weight: weights[tt.weight]}
		assert.Equal(t, tt.want, PrescriptionDomain(p),
			"metric=%s weight=%s", tt.metric, tt.weight)
	}
}

func TestFormatIntensity(t *testing.T) {
	tests := []struct {
		name  string
		value string
		typ   IntensityType
		want  string
		ok    bool
	}{
		{"rpe", "8", IntensityRPE, "RPE 8", true},
		{"percent 1rm", "75", IntensityPercent1RM, "75% 1RM", true},
		{"hr zone", "2", IntensityHeartRateZone, "Zone 2", true},
		{"perc ftp", "90", IntensityPercFTP, "90% FTP", true},
		{"heart rate", "150", IntensityHeartRate, "150 BPM", true},
		{"pace", "4:30", IntensityPace, "4:30 /km", true},
		{"power passes through", "250", IntensityPower, "250", true},
		{"weight passes through", "60", IntensityWeight, "60", true},
		{"missing value", "", IntensityRPE, "", false},
		{"missing type", "8", "", "", false},
		{"both missing", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Prescription{IntensityValue: tt.value, IntensityType: tt.typ}
			got, ok := FormatIntensity(p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatWork(t *testing.T) {
	tests := []struct {
		name string
		p    Prescription
		want string
	}{
		{"reps and distance over 1km", Prescription{Reps: "10", Distance: floatPtr(1500)}, "10 reps / 1.50 km"},
		{"short distance in meters", Prescription{Distance: floatPtr(500)}, "500 m"},
		{"duration over a minute", Prescription{DurationSeconds: intPtr(125)}, "2:05"},
		{"duration under a minute", Prescription{DurationSeconds: intPtr(45)}, "45s"},
		{"calories", Prescription{Calories: intPtr(15)}, "15 cal"},
		{"rep range", Prescription{Reps: "8-10"}, "8-10 reps"},
		{"exact kilometer", Prescription{Distance: floatPtr(1000)}, "1.00 km"},
		{"everything", Prescription{Reps: "5", Distance: floatPtr(400), DurationSeconds: intPtr(90), Calories: intPtr(20)}, "5 reps / 400 m / 1:30 / 20 cal"},
		{"empty", Prescription{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWork(&tt.p))
		})
	}
}

func TestFormatLoad(t *testing.T) {
	got, ok := FormatLoad(&Prescription{Weight: floatPtr(20), IsPerSide: true})
	require.True(t, ok)
	assert.Equal(t, "20kg/side", got)

	got, ok = FormatLoad(&Prescription{Weight: floatPtr(62.5)})
	require.True(t, ok)
	assert.Equal(t, "62.5kg", got)

	_, ok = FormatLoad(&Prescription{})
	assert.False(t, ok)

	// Zero weight is still a prescribed load, just an empty bar.
	got, ok = FormatLoad(&Prescription{Weight: floatPtr(0)})
	require.True(t, ok)
	assert.Equal(t, "0kg", got)
}

func TestActivityDisplayName(t *testing.T) {
	ex := &Exercise{Name: "Back Squat"}

	assert.Equal(t, "Back Squat", (&Activity{Exercise: ex}).DisplayName())
	// Exercise reference wins over manual fields when both are present.
	assert.Equal(t, "Back Squat", (&Activity{Exercise: ex, ManualName: "Squat-ish"}).DisplayName())
	assert.Equal(t, "Sled Push", (&Activity{ManualName: "Sled Push"}).DisplayName())
	assert.Equal(t, "Untitled Activity", (&Activity{}).DisplayName())
}

func TestEstimatedSeconds(t *testing.T) {
	session := Session{
		Blocks: []SessionBlock{{
			Activities: []Activity{{
				Prescriptions: []Prescription{
					{Reps: "10", RestSeconds: intPtr(60)},
					{Reps: "8-10", RestSeconds: intPtr(90)},
				},
			}},
		}},
	}
	// 10*2+60 + 8*2+90 + 30 transition
	assert.Equal(t, 216, session.EstimatedSeconds())
}
