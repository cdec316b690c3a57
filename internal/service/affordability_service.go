package service

import (
	"math"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// Regulatory debt servicing ceilings and the stress-test rate applied when
// sizing the maximum loan.
const (
	TDSRLimit      = 0.55
	MSRLimit       = 0.30
	StressTestRate = 4.0
)

// AffordabilityService estimates the maximum loan a borrower can service
// under the TDSR and, for HDB/EC properties, MSR ceilings.
type AffordabilityService struct{}

// NewAffordabilityService creates a new AffordabilityService
func NewAffordabilityService() *AffordabilityService {
	return &AffordabilityService{}
}

// AffordabilityInput contains input for an affordability estimate
type AffordabilityInput struct {
	MonthlyIncome float64  `json:"monthlyIncome"`
	MonthlyDebt   float64  `json:"monthlyDebt"`
	PropertyType  string   `json:"propertyType"`
	TenorYears    int      `json:"tenorYears"`
	InterestRate  *float64 `json:"interestRate,omitempty"`
}

// AffordabilityResult holds the estimated borrowing capacity
type AffordabilityResult struct {
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment"`
	MaxLoanAmount     float64 `json:"maxLoanAmount"`
	StressRate        float64 `json:"stressRate"`
	LimitApplied      string  `json:"limitApplied"`
}

// Calculate estimates the maximum serviceable monthly payment and the loan
// it supports at the stress rate. The MSR ceiling applies on top of TDSR
// for HDB and EC purchases.
func (s *AffordabilityService) Calculate(input AffordabilityInput) (*AffordabilityResult, error) {
	if input.MonthlyIncome <= 0 {
		return nil, domain.ErrIncomeInvalid
	}
	if input.MonthlyDebt < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.TenorYears < 1 || input.TenorYears > domain.MaxTenorYears {
		return nil, domain.ErrTenorInvalid
	}

	maxPayment := TDSRLimit*input.MonthlyIncome - input.MonthlyDebt
	limit := "TDSR"
	if input.PropertyType == domain.PropertyTypeHDB || input.PropertyType == domain.PropertyTypeEC {
		msrPayment := MSRLimit * input.MonthlyIncome
		if msrPayment < maxPayment {
			maxPayment = msrPayment
			limit = "MSR"
		}
	}
	if maxPayment < 0 {
		maxPayment = 0
	}

	stressRate := StressTestRate
	if input.InterestRate != nil && *input.InterestRate > stressRate {
		stressRate = *input.InterestRate
	}

	return &AffordabilityResult{
		MaxMonthlyPayment: maxPayment,
		MaxLoanAmount:     maxLoanForPayment(maxPayment, stressRate, input.TenorYears*12),
		StressRate:        stressRate,
		LimitApplied:      limit,
	}, nil
}

// maxLoanForPayment inverts the annuity formula: the principal whose level
// payment over n months at the given annual rate equals payment.
func maxLoanForPayment(payment, annualRate float64, months int) float64 {
	if payment <= 0 || months < 1 {
		return 0
	}
	if annualRate == 0 {
		return payment * float64(months)
	}
	r := annualRate / 100 / 12
	pow := math.Pow(1+r, float64(months))
	return payment * (pow - 1) / (r * pow)
}
