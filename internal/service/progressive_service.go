package service

import (
	"time"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// ProgressiveService handles progressive payment calculations for
// buildings under construction
type ProgressiveService struct{}

// NewProgressiveService creates a new ProgressiveService
func NewProgressiveService() *ProgressiveService {
	return &ProgressiveService{}
}

// ProgressiveInput contains input for a progressive payment calculation.
// OTPDate and TOPDate are optional; when either is missing the default
// construction timeline is assumed.
type ProgressiveInput struct {
	PurchasePrice float64     `json:"purchasePrice"`
	LoanAmount    float64     `json:"loanAmount"`
	TenorYears    int         `json:"tenorYears"`
	FlatRate      *float64    `json:"flatRate,omitempty"`
	Rates         []RateEntry `json:"rates,omitempty"`
	OTPDate       *time.Time  `json:"otpDate,omitempty"`
	TOPDate       *time.Time  `json:"topDate,omitempty"`
}

// Calculate builds the milestone allocations, drawdown sequence and monthly
// schedule for a progressive payment loan
func (s *ProgressiveService) Calculate(input ProgressiveInput) (*calc.ProgressiveSchedule, error) {
	if input.PurchasePrice <= 0 {
		return nil, domain.ErrPurchasePriceInvalid
	}
	if input.LoanAmount < 0 {
		return nil, domain.ErrPrincipalInvalid
	}
	if input.LoanAmount > input.PurchasePrice {
		return nil, domain.ErrLoanExceedsPrice
	}
	if input.TenorYears < 1 || input.TenorYears > domain.MaxTenorYears {
		return nil, domain.ErrTenorInvalid
	}

	schedule := calc.BuildProgressiveSchedule(
		input.PurchasePrice,
		input.LoanAmount,
		input.TenorYears,
		buildRateSchedule(input.FlatRate, input.Rates),
		input.OTPDate,
		input.TOPDate,
	)
	return &schedule, nil
}
