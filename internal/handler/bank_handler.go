package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BankHandler handles bank reference data HTTP requests
type BankHandler struct {
	bankService *service.BankService
}

// NewBankHandler creates a new BankHandler
func NewBankHandler(bankService *service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// BankRequest represents the create/update bank request body
type BankRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// GetBanks handles GET /api/v1/banks
func (h *BankHandler) GetBanks(c echo.Context) error {
	banks, err := h.bankService.GetBanks(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list banks")
		return NewInternalError(c, "Failed to list banks")
	}
	return c.JSON(http.StatusOK, banks)
}

// GetBank handles GET /api/v1/banks/:id
func (h *BankHandler) GetBank(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid bank ID", nil)
	}

	bank, err := h.bankService.GetBankByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			return NewNotFoundError(c, "Bank not found")
		}
		log.Error().Err(err).Int32("bank_id", id).Msg("Failed to get bank")
		return NewInternalError(c, "Failed to get bank")
	}
	return c.JSON(http.StatusOK, bank)
}

// CreateBank handles POST /api/v1/banks (admin)
func (h *BankHandler) CreateBank(c echo.Context) error {
	var req BankRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	bank, err := h.bankService.CreateBank(req.Name, req.Code)
	if err != nil {
		if resp := bankValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create bank")
		return NewInternalError(c, "Failed to create bank")
	}

	log.Info().Int32("bank_id", bank.ID).Str("name", bank.Name).Msg("Bank created")
	return c.JSON(http.StatusCreated, bank)
}

// UpdateBank handles PUT /api/v1/banks/:id (admin)
func (h *BankHandler) UpdateBank(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid bank ID", nil)
	}

	var req BankRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	bank, err := h.bankService.UpdateBank(id, req.Name, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			return NewNotFoundError(c, "Bank not found")
		}
		if resp := bankValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Int32("bank_id", id).Msg("Failed to update bank")
		return NewInternalError(c, "Failed to update bank")
	}
	return c.JSON(http.StatusOK, bank)
}

// DeleteBank handles DELETE /api/v1/banks/:id (admin)
func (h *BankHandler) DeleteBank(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid bank ID", nil)
	}

	if err := h.bankService.DeleteBank(id); err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			return NewNotFoundError(c, "Bank not found")
		}
		log.Error().Err(err).Int32("bank_id", id).Msg("Failed to delete bank")
		return NewInternalError(c, "Failed to delete bank")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadLogo handles POST /api/v1/banks/:id/logo (admin, multipart)
func (h *BankHandler) UploadLogo(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid bank ID", nil)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "logo", Message: "A logo file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded logo")
		return NewInternalError(c, "Failed to read logo")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxLogoSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded logo")
		return NewInternalError(c, "Failed to read logo")
	}

	bank, err := h.bankService.UploadLogo(c.Request().Context(), id, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBankNotFound):
			return NewNotFoundError(c, "Bank not found")
		case errors.Is(err, service.ErrLogoTooLarge),
			errors.Is(err, service.ErrLogoInvalidFormat),
			errors.Is(err, service.ErrLogoInvalidData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "logo", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int32("bank_id", id).Msg("Failed to upload logo")
		return NewInternalError(c, "Failed to upload logo")
	}

	return c.JSON(http.StatusOK, bank)
}

func bankValidationError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrBankNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if errors.Is(err, domain.ErrBankNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		})
	}
	return nil
}
