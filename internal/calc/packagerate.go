package calc

import "math"

// RateTypeFixed marks a term whose value is the absolute rate. Any other
// rate type names a reference rate resolved against a reference-rate table.
const RateTypeFixed = "FIXED"

// TermYear addresses one year of a package's rate structure. Years 1-5 are
// explicit; TermYearThereafter covers every year beyond them.
type TermYear int

// TermYearThereafter is the catch-all bucket for years six onward.
const TermYearThereafter TermYear = 0

// RateTerm is one year's rate definition on a package: either a fixed rate
// or a reference rate combined with a spread.
type RateTerm struct {
	RateType string  // RateTypeFixed or a reference-rate name, e.g. "3M SORA"
	Operator string  // "+" or "-", ignored for fixed terms
	Value    float64 // absolute rate for fixed terms, spread otherwise
}

// PackageRates maps term years to their rate definitions. Built at the
// ingestion boundary from rate-package rows; absent years simply have no
// entry.
type PackageRates map[TermYear]RateTerm

// EffectiveRate resolves the numeric annual rate a package charges in the
// given year. A year with no usable term falls back to the thereafter term;
// a reference rate missing from the table resolves to 0, which callers
// report as an unresolved reference.
//
// The result is not floored: a spread larger than its reference rate yields
// a negative number. Comparison math wants the raw value; display call
// sites clamp via EffectiveRateFloored.
func EffectiveRate(rates PackageRates, year TermYear, referenceRates map[string]float64) float64 {
	term, ok := rates[year]
	if !ok || term.RateType == "" {
		if year != TermYearThereafter {
			return EffectiveRate(rates, TermYearThereafter, referenceRates)
		}
		return 0
	}
	if term.RateType == RateTypeFixed {
		return term.Value
	}
	reference, ok := referenceRates[term.RateType]
	if !ok {
		return 0
	}
	if term.Operator == "-" {
		return reference - term.Value
	}
	return reference + term.Value
}

// EffectiveRateFloored is EffectiveRate clamped at zero, for display math.
func EffectiveRateFloored(rates PackageRates, year TermYear, referenceRates map[string]float64) float64 {
	return math.Max(0, EffectiveRate(rates, year, referenceRates))
}

// AverageFirst2Years averages the year-1 and year-2 effective rates. A year
// resolving to exactly 0 is treated as "no data" rather than a real 0% rate,
// so the other year is returned unaveraged.
func AverageFirst2Years(rates PackageRates, referenceRates map[string]float64) float64 {
	y1 := EffectiveRate(rates, 1, referenceRates)
	y2 := EffectiveRate(rates, 2, referenceRates)
	if y1 == 0 {
		return y2
	}
	if y2 == 0 {
		return y1
	}
	return (y1 + y2) / 2
}
