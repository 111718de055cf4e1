package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemeTypeTargets(t *testing.T) {
	durationDriven := []SchemeType{SchemeEMOM, SchemeAMRAP, SchemeTabata, SchemeInterval}
	for _, s := range durationDriven {
		assert.True(t, s.UsesDuration(), "%s", s)
		assert.False(t, s.UsesRounds(), "%s", s)
	}

	roundsDriven := []SchemeType{SchemeRFT, SchemeCircuit}
	for _, s := range roundsDriven {
		assert.True(t, s.UsesRounds(), "%s", s)
		assert.False(t, s.UsesDuration(), "%s", s)
	}

	assert.False(t, SchemeStandard.UsesDuration())
	assert.False(t, SchemeStandard.UsesRounds())
}

func TestEnumDisplayLabels(t *testing.T) {
	assert.Equal(t, "Rounds for Time", SchemeRFT.Display())
	assert.Equal(t, "Warmup", SetTagWarmup.Display())
	assert.Equal(t, "%1RM", IntensityPercent1RM.Display())
	assert.Equal(t, "Crossfit", FocusCrossfit.Display())

	// Unknown values pass through unchanged rather than erroring.
	assert.Equal(t, "mystery", SchemeType("mystery").Display())
	assert.False(t, SchemeType("mystery").Valid())
}

func TestSetTagValid(t *testing.T) {
	for _, tag := range []SetTag{SetTagWorking, SetTagWarmup, SetTagDrop, SetTagAMRAP, SetTagCooldown} {
		assert.True(t, tag.Valid())
	}
	assert.False(t, SetTag("X").Valid())
}
