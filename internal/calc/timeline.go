package calc

import (
	"math"
	"time"
)

// DefaultConstructionMonths is assumed when either the Option-to-Purchase or
// the expected Temporary-Occupation-Permit date is not supplied.
const DefaultConstructionMonths = 37

// Timeline describes the derived construction duration for a
// building-under-construction purchase.
type Timeline struct {
	ConstructionMonths int  `json:"constructionMonths"`
	Calculated         bool `json:"calculated"`
}

// stageWeights are the fixed relative weights of the six construction
// progress milestones. They sum to 0.4 of the weight basis.
var stageWeights = [6]float64{0.10, 0.10, 0.05, 0.05, 0.05, 0.05}

// DeriveTimeline derives the construction duration between the OTP date and
// the expected TOP date. One month is reserved for the OTP milestone and two
// for the Sale & Purchase Agreement, so the construction window starts after
// month three of the project calendar.
func DeriveTimeline(otp, top *time.Time) Timeline {
	if otp == nil || top == nil {
		return Timeline{ConstructionMonths: DefaultConstructionMonths}
	}
	totalDays := top.Sub(*otp).Hours() / 24
	totalMonths := int(math.Floor(totalDays / 365 * 12))
	return Timeline{
		ConstructionMonths: totalMonths - 1 - 2,
		Calculated:         true,
	}
}

// MilestoneDurations spreads constructionMonths over the six construction
// stages by fixed weight, rounding each stage up independently. The
// durations may sum to slightly more than constructionMonths; downstream
// consumers rely on the current rounding direction, so it is kept as-is.
func MilestoneDurations(constructionMonths int) []int {
	durations := make([]int, len(stageWeights))
	for i, w := range stageWeights {
		durations[i] = int(math.Ceil(float64(constructionMonths) * w / 0.4))
	}
	return durations
}
