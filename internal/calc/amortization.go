package calc

import "math"

// balanceEpsilon is the threshold below which an outstanding balance is
// considered settled, guarding against floating-point drift.
const balanceEpsilon = 0.01

// AmortizationMonth is one row of a month-by-month repayment schedule.
type AmortizationMonth struct {
	Month            int     `json:"month"` // 1-based
	Year             int     `json:"year"`  // 1-based
	Rate             float64 `json:"rate"`
	BeginningBalance float64 `json:"beginningBalance"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	EndingBalance    float64 `json:"endingBalance"`
}

// AmortizationYear aggregates up to twelve consecutive months. Rate is the
// rate of the last month in the bucket; a mid-year rate change is not
// reported separately.
type AmortizationYear struct {
	Year               int     `json:"year"` // 1-based
	Rate               float64 `json:"rate"`
	BeginningPrincipal float64 `json:"beginningPrincipal"`
	EndingPrincipal    float64 `json:"endingPrincipal"`
	InterestPaid       float64 `json:"interestPaid"`
	PrincipalPaid      float64 `json:"principalPaid"`
}

// AmortizationSchedule is the full result of BuildAmortizationSchedule.
type AmortizationSchedule struct {
	Months            []AmortizationMonth `json:"months"`
	Years             []AmortizationYear  `json:"years"`
	TotalInterest     float64             `json:"totalInterest"`
	TotalPrincipal    float64             `json:"totalPrincipal"`
	TotalPayable      float64             `json:"totalPayable"`
	FirstMonthPayment float64             `json:"firstMonthPayment"`
}

// AnnuityPayment computes the flat monthly payment that amortizes principal
// over months at the given annual rate. A zero rate degenerates to straight
// division.
func AnnuityPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r == 0 {
		return principal / float64(months)
	}
	pow := math.Pow(1+r, float64(months))
	return principal * r * pow / (pow - 1)
}

// BuildAmortizationSchedule produces a month-by-month and year-by-year
// repayment schedule for a loan disbursed in full at month one.
//
// The monthly payment is recomputed from the outstanding balance whenever the
// effective rate changes, but always over the original total tenor rather
// than the months remaining. A mid-schedule rate increase can therefore leave
// a residual balance at the end of the tenor; that behavior is intentional
// and matches the advisory figures published to clients.
func BuildAmortizationSchedule(principal float64, rates RateSchedule, tenorYears, tenorMonths int) AmortizationSchedule {
	totalMonths := tenorYears*12 + tenorMonths

	var s AmortizationSchedule
	balance := principal
	var payment, prevRate float64

	for m := 0; m < totalMonths; m++ {
		y := m / 12
		rate := rates.RateForYear(y)
		if m == 0 || rate != prevRate {
			payment = AnnuityPayment(balance, rate, totalMonths)
		}
		prevRate = rate

		monthlyRate := rate / 100 / 12
		interest := balance * monthlyRate
		principalPortion := math.Min(payment-interest, balance)
		ending := math.Max(0, balance-principalPortion)

		s.Months = append(s.Months, AmortizationMonth{
			Month:            m + 1,
			Year:             y + 1,
			Rate:             rate,
			BeginningBalance: balance,
			Payment:          payment,
			Interest:         interest,
			Principal:        principalPortion,
			EndingBalance:    ending,
		})
		s.TotalInterest += interest
		s.TotalPrincipal += principalPortion

		balance = ending
		if balance <= balanceEpsilon {
			break
		}
	}

	s.Years = aggregateYears(s.Months)
	s.TotalPayable = s.TotalPrincipal + s.TotalInterest
	if len(s.Months) > 0 {
		s.FirstMonthPayment = s.Months[0].Payment
	}
	return s
}

// aggregateYears buckets consecutive months into 12-month (or trailing
// partial) year rows in schedule order.
func aggregateYears(months []AmortizationMonth) []AmortizationYear {
	var years []AmortizationYear
	for _, m := range months {
		bucket := (m.Month - 1) / 12
		if bucket >= len(years) {
			years = append(years, AmortizationYear{
				Year:               bucket + 1,
				BeginningPrincipal: m.BeginningBalance,
			})
		}
		yr := &years[bucket]
		yr.Rate = m.Rate
		yr.EndingPrincipal = m.EndingBalance
		yr.InterestPaid += m.Interest
		yr.PrincipalPaid += m.Principal
	}
	return years
}
