package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

func newCalculatorHandler() *CalculatorHandler {
	return NewCalculatorHandler(
		service.NewRepaymentService(),
		service.NewProgressiveService(),
		service.NewAffordabilityService(),
	)
}

func TestCalculateRepayment_Success(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{
		"principal": 500000,
		"tenorYears": 25,
		"flatRate": 2.6
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/repayment", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateRepayment(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response calc.AmortizationSchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response.Months) != 300 {
		t.Errorf("Expected 300 monthly rows, got %d", len(response.Months))
	}
	if response.FirstMonthPayment <= 0 {
		t.Errorf("Expected positive first month payment, got %f", response.FirstMonthPayment)
	}
	if response.TotalInterest <= 0 {
		t.Errorf("Expected positive total interest, got %f", response.TotalInterest)
	}
}

func TestCalculateRepayment_InvalidPrincipal(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{"principal": 0, "tenorYears": 25, "flatRate": 2.6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/repayment", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateRepayment(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCalculateRepayment_TenorTooLong(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{"principal": 500000, "tenorYears": 36, "flatRate": 2.6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/repayment", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateRepayment(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCalculateRefinance_Success(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{
		"outstandingAmount": 400000,
		"remainingYears": 20,
		"currentRate": 3.5,
		"newFlatRate": 2.5
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/refinance", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateRefinance(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response service.RefinanceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// Moving from 3.5% to 2.5% must save money every month
	if response.MonthlySavings <= 0 {
		t.Errorf("Expected positive monthly savings, got %f", response.MonthlySavings)
	}
	if response.TotalInterestSaved <= 0 {
		t.Errorf("Expected positive interest savings, got %f", response.TotalInterestSaved)
	}
}

func TestCalculateProgressive_Success(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{
		"purchasePrice": 1000000,
		"loanAmount": 750000,
		"tenorYears": 30,
		"flatRate": 2.8
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/progressive", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateProgressive(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response calc.ProgressiveSchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response.Milestones) != 10 {
		t.Errorf("Expected 10 milestones, got %d", len(response.Milestones))
	}
	if response.TotalBankLoan <= 0 {
		t.Errorf("Expected positive bank loan total, got %f", response.TotalBankLoan)
	}
}

func TestCalculateProgressive_LoanExceedsPrice(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{
		"purchasePrice": 500000,
		"loanAmount": 600000,
		"tenorYears": 30,
		"flatRate": 2.8
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/progressive", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateProgressive(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCalculateAffordability_Success(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{
		"monthlyIncome": 10000,
		"monthlyDebt": 500,
		"propertyType": "private",
		"tenorYears": 30
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/affordability", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateAffordability(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response service.AffordabilityResult
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// 0.55 * 10000 - 500
	if response.MaxMonthlyPayment != 5000 {
		t.Errorf("Expected max monthly payment 5000, got %f", response.MaxMonthlyPayment)
	}
	if response.LimitApplied != "TDSR" {
		t.Errorf("Expected TDSR limit, got %s", response.LimitApplied)
	}
}

func TestCalculateAffordability_InvalidIncome(t *testing.T) {
	e := echo.New()
	handler := newCalculatorHandler()

	reqBody := `{"monthlyIncome": 0, "propertyType": "private", "tenorYears": 30}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/affordability", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CalculateAffordability(c)
	if err != nil {
		t.Fatalf("Expected no error (error should be in response), got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
