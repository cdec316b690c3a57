// Package calc implements the pure calculation engines behind the advisory
// calculators: monthly repayment amortization, BUC progressive payment
// scheduling, construction timeline derivation, and package rate resolution.
// All functions are synchronous and free of I/O; callers validate inputs.
package calc

// YearRate is one entry of a scheduled rate: an explicit loan year or the
// thereafter bucket applied to all years beyond the enumerated ones.
type YearRate struct {
	Year       int     // 1-based loan year; ignored when Thereafter is set
	Thereafter bool    //
	Rate       float64 // annual percentage, e.g. 3.75 for 3.75%
}

// RateSchedule is either a single flat annual rate or an ordered set of
// year-indexed rates. Construct via FlatRate or ScheduledRates.
type RateSchedule struct {
	flat    *float64
	entries []YearRate
}

// FlatRate returns a schedule that applies the same annual rate to every year.
func FlatRate(annualPercent float64) RateSchedule {
	return RateSchedule{flat: &annualPercent}
}

// ScheduledRates returns a schedule built from year-indexed entries.
func ScheduledRates(entries []YearRate) RateSchedule {
	return RateSchedule{entries: entries}
}

// RateForYear resolves the annual rate for a 0-based year index.
//
// For scheduled rates the first entry is authoritative for year one
// regardless of its declared year label. Later years match on the Year
// field; a missing year from year six onward falls back to the thereafter
// entry, and a year with no entry at all resolves to 0.
func (rs RateSchedule) RateForYear(y int) float64 {
	if rs.flat != nil {
		return *rs.flat
	}
	if len(rs.entries) == 0 {
		return 0
	}
	if y == 0 {
		return rs.entries[0].Rate
	}
	for _, e := range rs.entries {
		if !e.Thereafter && e.Year == y+1 {
			return e.Rate
		}
	}
	if y >= 5 {
		for _, e := range rs.entries {
			if e.Thereafter {
				return e.Rate
			}
		}
	}
	return 0
}
