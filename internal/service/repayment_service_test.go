package service

import (
	"math"
	"testing"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

func TestCalculate_Success(t *testing.T) {
	svc := NewRepaymentService()

	flat := 4.0
	schedule, err := svc.Calculate(RepaymentInput{
		Principal:  500000,
		TenorYears: 25,
		FlatRate:   &flat,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(schedule.Months) != 300 {
		t.Errorf("Expected 300 months, got %d", len(schedule.Months))
	}

	expected := calc.AnnuityPayment(500000, 4.0, 300)
	if math.Abs(schedule.FirstMonthPayment-expected) > 0.01 {
		t.Errorf("Expected first payment %.2f, got %.2f", expected, schedule.FirstMonthPayment)
	}
}

func TestCalculate_ScheduledRates(t *testing.T) {
	svc := NewRepaymentService()

	schedule, err := svc.Calculate(RepaymentInput{
		Principal:  300000,
		TenorYears: 10,
		Rates: []RateEntry{
			{Year: 1, Rate: 1.5},
			{Year: 2, Rate: 2.0},
			{Thereafter: true, Rate: 2.5},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if schedule.Months[0].Rate != 1.5 {
		t.Errorf("Expected first-month rate 1.5, got %.2f", schedule.Months[0].Rate)
	}
	if schedule.Months[12].Rate != 2.0 {
		t.Errorf("Expected month-13 rate 2.0, got %.2f", schedule.Months[12].Rate)
	}
}

func TestCalculate_InvalidPrincipal(t *testing.T) {
	svc := NewRepaymentService()

	_, err := svc.Calculate(RepaymentInput{Principal: 0, TenorYears: 25})
	if err != domain.ErrPrincipalInvalid {
		t.Errorf("Expected ErrPrincipalInvalid, got %v", err)
	}

	_, err = svc.Calculate(RepaymentInput{Principal: -100, TenorYears: 25})
	if err != domain.ErrPrincipalInvalid {
		t.Errorf("Expected ErrPrincipalInvalid for negative principal, got %v", err)
	}
}

func TestCalculate_InvalidTenor(t *testing.T) {
	svc := NewRepaymentService()

	_, err := svc.Calculate(RepaymentInput{Principal: 100000, TenorYears: 0, TenorMonths: 0})
	if err != domain.ErrTenorInvalid {
		t.Errorf("Expected ErrTenorInvalid for zero tenor, got %v", err)
	}

	_, err = svc.Calculate(RepaymentInput{Principal: 100000, TenorYears: domain.MaxTenorYears + 1})
	if err != domain.ErrTenorInvalid {
		t.Errorf("Expected ErrTenorInvalid above max tenor, got %v", err)
	}
}

func TestCalculate_MonthsOnlyTenor(t *testing.T) {
	svc := NewRepaymentService()

	flat := 3.0
	schedule, err := svc.Calculate(RepaymentInput{
		Principal:   50000,
		TenorMonths: 6,
		FlatRate:    &flat,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(schedule.Months) != 6 {
		t.Errorf("Expected 6 months, got %d", len(schedule.Months))
	}
}

func TestCalculateRefinance_Savings(t *testing.T) {
	svc := NewRepaymentService()

	newRate := 2.5
	result, err := svc.CalculateRefinance(RefinanceInput{
		OutstandingAmount: 500000,
		RemainingYears:    20,
		CurrentRate:       4.0,
		NewFlatRate:       &newRate,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.MonthlySavings <= 0 {
		t.Errorf("Expected positive monthly savings, got %.2f", result.MonthlySavings)
	}
	if result.TotalInterestSaved <= 0 {
		t.Errorf("Expected positive interest savings, got %.2f", result.TotalInterestSaved)
	}

	wantSavings := result.Current.FirstMonthPayment - result.Proposed.FirstMonthPayment
	if math.Abs(result.MonthlySavings-wantSavings) > 1e-9 {
		t.Errorf("Monthly savings %.4f does not match schedule difference %.4f", result.MonthlySavings, wantSavings)
	}
}

func TestCalculateRefinance_InvalidOutstanding(t *testing.T) {
	svc := NewRepaymentService()

	_, err := svc.CalculateRefinance(RefinanceInput{
		OutstandingAmount: 0,
		RemainingYears:    10,
		CurrentRate:       3.0,
	})
	if err != domain.ErrPrincipalInvalid {
		t.Errorf("Expected ErrPrincipalInvalid, got %v", err)
	}
}
