package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/middleware"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles client report HTTP requests
type ReportHandler struct {
	reportService      *service.ReportService
	repaymentService   *service.RepaymentService
	progressiveService *service.ProgressiveService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, repaymentService *service.RepaymentService, progressiveService *service.ProgressiveService) *ReportHandler {
	return &ReportHandler{
		reportService:      reportService,
		repaymentService:   repaymentService,
		progressiveService: progressiveService,
	}
}

// RepaymentReportRequest represents the repayment report request body
type RepaymentReportRequest struct {
	ClientName string                 `json:"clientName"`
	Input      service.RepaymentInput `json:"input"`
}

// GenerateRepaymentReport handles POST /api/v1/reports/repayment
func (h *ReportHandler) GenerateRepaymentReport(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req RepaymentReportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	schedule, err := h.repaymentService.Calculate(req.Input)
	if err != nil {
		return calculatorError(c, err)
	}

	result, err := h.reportService.GenerateRepaymentReport(c.Request().Context(), user.ID, req.ClientName, req.Input.Principal, schedule)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "clientName", Message: "Client name is required"},
			})
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to generate repayment report")
		return NewInternalError(c, "Failed to generate report")
	}

	return c.JSON(http.StatusCreated, result)
}

// ProgressiveReportRequest represents the progressive report request body
type ProgressiveReportRequest struct {
	ClientName string                   `json:"clientName"`
	Input      service.ProgressiveInput `json:"input"`
}

// GenerateProgressiveReport handles POST /api/v1/reports/progressive
func (h *ReportHandler) GenerateProgressiveReport(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ProgressiveReportRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	schedule, err := h.progressiveService.Calculate(req.Input)
	if err != nil {
		return calculatorError(c, err)
	}

	result, err := h.reportService.GenerateProgressiveReport(c.Request().Context(), user.ID, req.ClientName, schedule)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "clientName", Message: "Client name is required"},
			})
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to generate progressive report")
		return NewInternalError(c, "Failed to generate report")
	}

	return c.JSON(http.StatusCreated, result)
}

// GetReports handles GET /api/v1/reports
func (h *ReportHandler) GetReports(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	reports, err := h.reportService.GetReports(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to list reports")
		return NewInternalError(c, "Failed to list reports")
	}
	return c.JSON(http.StatusOK, reports)
}

// DownloadURLResponse carries a fresh presigned report URL
type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// GetDownloadURL handles GET /api/v1/reports/:id/url
func (h *ReportHandler) GetDownloadURL(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid report ID", nil)
	}

	url, err := h.reportService.GetDownloadURL(c.Request().Context(), user.ID, reportID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReportNotFound):
			return NewNotFoundError(c, "Report not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Report belongs to another user")
		}
		log.Error().Err(err).Str("report_id", reportID.String()).Msg("Failed to presign report URL")
		return NewInternalError(c, "Failed to get download URL")
	}

	return c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}
