package handler

import (
	"errors"
	"net/http"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReferenceRateHandler handles reference rate HTTP requests
type ReferenceRateHandler struct {
	refRateService *service.ReferenceRateService
}

// NewReferenceRateHandler creates a new ReferenceRateHandler
func NewReferenceRateHandler(refRateService *service.ReferenceRateService) *ReferenceRateHandler {
	return &ReferenceRateHandler{refRateService: refRateService}
}

// GetRates handles GET /api/v1/reference-rates
func (h *ReferenceRateHandler) GetRates(c echo.Context) error {
	rates, err := h.refRateService.GetRates()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reference rates")
		return NewInternalError(c, "Failed to list reference rates")
	}
	return c.JSON(http.StatusOK, rates)
}

// UpdateRateRequest represents the reference rate update request body
type UpdateRateRequest struct {
	RateType  string `json:"rateType"`
	RateValue string `json:"rateValue"`
}

// UpdateRate handles PUT /api/v1/reference-rates (admin)
func (h *ReferenceRateHandler) UpdateRate(c echo.Context) error {
	var req UpdateRateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	value, err := decimal.NewFromString(req.RateValue)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "rateValue", Message: "Must be a valid decimal number"},
		})
	}

	rate, err := h.refRateService.UpdateRate(req.RateType, value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "rateType", Message: "Rate type is required and value must be non-negative"},
			})
		}
		log.Error().Err(err).Str("rate_type", req.RateType).Msg("Failed to update reference rate")
		return NewInternalError(c, "Failed to update reference rate")
	}

	return c.JSON(http.StatusOK, rate)
}
