package handler

import (
	"errors"
	"net/http"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CalculatorHandler handles calculator HTTP requests
type CalculatorHandler struct {
	repaymentService     *service.RepaymentService
	progressiveService   *service.ProgressiveService
	affordabilityService *service.AffordabilityService
}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler(repaymentService *service.RepaymentService, progressiveService *service.ProgressiveService, affordabilityService *service.AffordabilityService) *CalculatorHandler {
	return &CalculatorHandler{
		repaymentService:     repaymentService,
		progressiveService:   progressiveService,
		affordabilityService: affordabilityService,
	}
}

// CalculateRepayment handles POST /api/v1/calculators/repayment
func (h *CalculatorHandler) CalculateRepayment(c echo.Context) error {
	var req service.RepaymentInput
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	schedule, err := h.repaymentService.Calculate(req)
	if err != nil {
		return calculatorError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}

// CalculateRefinance handles POST /api/v1/calculators/refinance
func (h *CalculatorHandler) CalculateRefinance(c echo.Context) error {
	var req service.RefinanceInput
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.repaymentService.CalculateRefinance(req)
	if err != nil {
		return calculatorError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CalculateProgressive handles POST /api/v1/calculators/progressive
func (h *CalculatorHandler) CalculateProgressive(c echo.Context) error {
	var req service.ProgressiveInput
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	schedule, err := h.progressiveService.Calculate(req)
	if err != nil {
		return calculatorError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}

// CalculateAffordability handles POST /api/v1/calculators/affordability
func (h *CalculatorHandler) CalculateAffordability(c echo.Context) error {
	var req service.AffordabilityInput
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.affordabilityService.Calculate(req)
	if err != nil {
		return calculatorError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// calculatorError maps calculator validation sentinels to field-level 400s
func calculatorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPrincipalInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "principal", Message: "Loan amount must be positive"},
		})
	case errors.Is(err, domain.ErrTenorInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "tenor", Message: "Loan tenor must be between 1 month and 35 years"},
		})
	case errors.Is(err, domain.ErrPurchasePriceInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "purchasePrice", Message: "Purchase price must be positive"},
		})
	case errors.Is(err, domain.ErrLoanExceedsPrice):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "loanAmount", Message: "Loan amount cannot exceed purchase price"},
		})
	case errors.Is(err, domain.ErrIncomeInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "monthlyIncome", Message: "Monthly income must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil)
	default:
		log.Error().Err(err).Msg("Calculator failure")
		return NewInternalError(c, "Calculation failed")
	}
}
