package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTimeline_MissingDates(t *testing.T) {
	otp := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	for _, tl := range []Timeline{
		DeriveTimeline(nil, nil),
		DeriveTimeline(&otp, nil),
		DeriveTimeline(nil, &otp),
	} {
		assert.Equal(t, DefaultConstructionMonths, tl.ConstructionMonths)
		assert.False(t, tl.Calculated)
	}
}

func TestDeriveTimeline_FromDates(t *testing.T) {
	// 1126 days -> floor(1126/365*12) = 37 project months, minus the OTP
	// month and the two S&P months.
	otp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	top := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	tl := DeriveTimeline(&otp, &top)
	assert.Equal(t, 34, tl.ConstructionMonths)
	assert.True(t, tl.Calculated)
}

func TestMilestoneDurations(t *testing.T) {
	durations := MilestoneDurations(37)
	assert.Equal(t, []int{10, 10, 5, 5, 5, 5}, durations)

	// Each stage rounds up independently, so the durations may overshoot
	// the construction window. 10+10+5+5+5+5 = 40 for a 37-month window.
	sum := 0
	for _, d := range durations {
		sum += d
	}
	assert.Equal(t, 40, sum)
}

func TestMilestoneDurations_EvenSplit(t *testing.T) {
	durations := MilestoneDurations(40)
	assert.Equal(t, []int{10, 10, 5, 5, 5, 5}, durations)
}
