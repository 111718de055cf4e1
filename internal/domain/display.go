package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkoutDomain classifies what kind of work a prescription describes.
type WorkoutDomain string

const (
	DomainStrength WorkoutDomain = "STRENGTH"
	DomainCardio   WorkoutDomain = "CARDIO"
	DomainHybrid   WorkoutDomain = "HYBRID"
)

// PrescriptionDomain classifies a prescription by its primary metric.
// Distance/time/calories work is cardio; cardio work carrying a non-zero
// weight (a weighted carry, say) is hybrid. Everything else is strength.
func PrescriptionDomain(p *Prescription) WorkoutDomain {
	switch p.PrimaryMetric {
	case MetricDistance, MetricTime, MetricCalories:
		if p.Weight != nil && *p.Weight != 0 {
			return DomainHybrid
		}
		return DomainCardio
	}
	return DomainStrength
}

// FormatIntensity renders the intensity badge for a prescription.
// ok is false when either the value or the type is missing.
func FormatIntensity(p *Prescription) (string, bool) {
	if p.IntensityValue == "" || p.IntensityType == "" {
		return "", false
	}
	switch p.IntensityType {
	case IntensityRPE:
		return "RPE " + p.IntensityValue, true
	case IntensityPercent1RM:
		return p.IntensityValue + "% 1RM", true
	case IntensityHeartRateZone:
		return "Zone " + p.IntensityValue, true
	case IntensityPercFTP:
		return p.IntensityValue + "% FTP", true
	case IntensityHeartRate:
		return p.IntensityValue + " BPM", true
	case IntensityPace:
		// Pace ignores any unit preference and always renders metric.
		return p.IntensityValue + " /km", true
	}
	return p.IntensityValue, true
}

// FormatWork renders the work string for a prescription: present
// segments only, in reps / distance / duration / calories order,
// joined with " / ". Returns "" when nothing is prescribed.
func FormatWork(p *Prescription) string {
	var parts []string
	if p.Reps != "" {
		parts = append(parts, p.Reps+" reps")
	}
	if p.Distance != nil {
		parts = append(parts, formatDistance(*p.Distance))
	}
	if p.DurationSeconds != nil {
		parts = append(parts, formatDuration(*p.DurationSeconds))
	}
	if p.Calories != nil {
		parts = append(parts, fmt.Sprintf("%d cal", *p.Calories))
	}
	return strings.Join(parts, " / ")
}

// FormatLoad renders the load string, e.g. "20kg" or "12.5kg/side".
// ok is false when no weight is prescribed.
func FormatLoad(p *Prescription) (string, bool) {
	if p.Weight == nil {
		return "", false
	}
	load := strconv.FormatFloat(*p.Weight, 'f', -1, 64) + "kg"
	if p.IsPerSide {
		load += "/side"
	}
	return load, true
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return strconv.FormatFloat(meters, 'f', -1, 64) + " m"
}

func formatDuration(seconds int) string {
	minutes := seconds / 60
	secs := seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
