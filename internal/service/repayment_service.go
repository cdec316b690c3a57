package service

import (
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// RepaymentService handles amortization schedule calculations for the
// repayment calculator. It validates input before handing off to the
// schedule builder; the builder itself assumes positive principal and tenor.
type RepaymentService struct{}

// NewRepaymentService creates a new RepaymentService
func NewRepaymentService() *RepaymentService {
	return &RepaymentService{}
}

// RateEntry is one year's interest rate in a calculator request
type RateEntry struct {
	Year       int     `json:"year"`
	Thereafter bool    `json:"thereafter"`
	Rate       float64 `json:"rate"`
}

// RepaymentInput contains input for a repayment calculation. Either FlatRate
// or Rates is used; a non-nil FlatRate wins.
type RepaymentInput struct {
	Principal   float64     `json:"principal"`
	TenorYears  int         `json:"tenorYears"`
	TenorMonths int         `json:"tenorMonths"`
	FlatRate    *float64    `json:"flatRate,omitempty"`
	Rates       []RateEntry `json:"rates,omitempty"`
}

// RefinanceInput contains input for a refinancing comparison: the
// outstanding loan re-amortized under the current rate versus the new
// package's rates.
type RefinanceInput struct {
	OutstandingAmount float64     `json:"outstandingAmount"`
	RemainingYears    int         `json:"remainingYears"`
	RemainingMonths   int         `json:"remainingMonths"`
	CurrentRate       float64     `json:"currentRate"`
	NewFlatRate       *float64    `json:"newFlatRate,omitempty"`
	NewRates          []RateEntry `json:"newRates,omitempty"`
}

// RefinanceResult holds both schedules plus the headline savings figures
type RefinanceResult struct {
	Current            calc.AmortizationSchedule `json:"current"`
	Proposed           calc.AmortizationSchedule `json:"proposed"`
	MonthlySavings     float64                   `json:"monthlySavings"`
	TotalInterestSaved float64                   `json:"totalInterestSaved"`
}

// Calculate builds the full amortization schedule for a new loan
func (s *RepaymentService) Calculate(input RepaymentInput) (*calc.AmortizationSchedule, error) {
	if err := validateLoanInput(input.Principal, input.TenorYears, input.TenorMonths); err != nil {
		return nil, err
	}

	schedule := calc.BuildAmortizationSchedule(
		input.Principal,
		buildRateSchedule(input.FlatRate, input.Rates),
		input.TenorYears,
		input.TenorMonths,
	)
	return &schedule, nil
}

// CalculateRefinance amortizes the outstanding balance over the remaining
// tenor under both the current rate and the proposed package rates.
func (s *RepaymentService) CalculateRefinance(input RefinanceInput) (*RefinanceResult, error) {
	if err := validateLoanInput(input.OutstandingAmount, input.RemainingYears, input.RemainingMonths); err != nil {
		return nil, err
	}

	current := calc.BuildAmortizationSchedule(
		input.OutstandingAmount,
		calc.FlatRate(input.CurrentRate),
		input.RemainingYears,
		input.RemainingMonths,
	)
	proposed := calc.BuildAmortizationSchedule(
		input.OutstandingAmount,
		buildRateSchedule(input.NewFlatRate, input.NewRates),
		input.RemainingYears,
		input.RemainingMonths,
	)

	return &RefinanceResult{
		Current:            current,
		Proposed:           proposed,
		MonthlySavings:     current.FirstMonthPayment - proposed.FirstMonthPayment,
		TotalInterestSaved: current.TotalInterest - proposed.TotalInterest,
	}, nil
}

func validateLoanInput(principal float64, tenorYears, tenorMonths int) error {
	if principal <= 0 {
		return domain.ErrPrincipalInvalid
	}
	totalMonths := tenorYears*12 + tenorMonths
	if totalMonths < 1 || tenorYears < 0 || tenorMonths < 0 {
		return domain.ErrTenorInvalid
	}
	if tenorYears > domain.MaxTenorYears {
		return domain.ErrTenorInvalid
	}
	return nil
}

func buildRateSchedule(flat *float64, entries []RateEntry) calc.RateSchedule {
	if flat != nil {
		return calc.FlatRate(*flat)
	}
	years := make([]calc.YearRate, len(entries))
	for i, e := range entries {
		years[i] = calc.YearRate{Year: e.Year, Thereafter: e.Thereafter, Rate: e.Rate}
	}
	return calc.ScheduledRates(years)
}
