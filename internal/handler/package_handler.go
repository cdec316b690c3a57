package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PackageHandler handles rate package HTTP requests
type PackageHandler struct {
	packageService *service.PackageService
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packageService *service.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// GetPackages handles GET /api/v1/packages
func (h *PackageHandler) GetPackages(c echo.Context) error {
	packages, err := h.packageService.GetPackages()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list rate packages")
		return NewInternalError(c, "Failed to list rate packages")
	}
	return c.JSON(http.StatusOK, packages)
}

// GetPackage handles GET /api/v1/packages/:id
func (h *PackageHandler) GetPackage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid package ID", nil)
	}

	pkg, err := h.packageService.GetPackageByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrRatePackageNotFound) {
			return NewNotFoundError(c, "Rate package not found")
		}
		log.Error().Err(err).Int32("package_id", id).Msg("Failed to get rate package")
		return NewInternalError(c, "Failed to get rate package")
	}
	return c.JSON(http.StatusOK, pkg)
}

// CreatePackage handles POST /api/v1/packages (admin)
func (h *PackageHandler) CreatePackage(c echo.Context) error {
	var pkg domain.RatePackage
	if err := c.Bind(&pkg); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	created, err := h.packageService.CreatePackage(&pkg)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid rate package", nil)
		}
		log.Error().Err(err).Msg("Failed to create rate package")
		return NewInternalError(c, "Failed to create rate package")
	}

	log.Info().Int32("package_id", created.ID).Str("name", created.Name).Msg("Rate package created")
	return c.JSON(http.StatusCreated, created)
}

// UpdatePackage handles PUT /api/v1/packages/:id (admin)
func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid package ID", nil)
	}

	var pkg domain.RatePackage
	if err := c.Bind(&pkg); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	pkg.ID = id

	updated, err := h.packageService.UpdatePackage(&pkg)
	if err != nil {
		if errors.Is(err, domain.ErrRatePackageNotFound) {
			return NewNotFoundError(c, "Rate package not found")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid rate package", nil)
		}
		log.Error().Err(err).Int32("package_id", id).Msg("Failed to update rate package")
		return NewInternalError(c, "Failed to update rate package")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeletePackage handles DELETE /api/v1/packages/:id (admin)
func (h *PackageHandler) DeletePackage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid package ID", nil)
	}

	if err := h.packageService.DeletePackage(id); err != nil {
		if errors.Is(err, domain.ErrRatePackageNotFound) {
			return NewNotFoundError(c, "Rate package not found")
		}
		log.Error().Err(err).Int32("package_id", id).Msg("Failed to delete rate package")
		return NewInternalError(c, "Failed to delete rate package")
	}
	return c.NoContent(http.StatusNoContent)
}

// RecommendRequest represents the package recommendation request body
type RecommendRequest struct {
	LoanType     string  `json:"loanType"`
	PropertyType string  `json:"propertyType"`
	LoanAmount   float64 `json:"loanAmount"`
}

// Recommend handles POST /api/v1/packages/recommend
func (h *PackageHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	resolved, err := h.packageService.Recommend(req.LoanType, req.PropertyType, req.LoanAmount)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "loanAmount", Message: "Loan amount must be positive"},
			})
		}
		log.Error().Err(err).Msg("Failed to recommend packages")
		return NewInternalError(c, "Failed to recommend packages")
	}
	return c.JSON(http.StatusOK, resolved)
}

// CompareRequest represents the package comparison request body
type CompareRequest struct {
	PackageIDs []int32 `json:"packageIds"`
	LoanAmount float64 `json:"loanAmount"`
	TenorYears int     `json:"tenorYears"`
}

// Compare handles POST /api/v1/packages/compare
func (h *PackageHandler) Compare(c echo.Context) error {
	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.PackageIDs) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "packageIds", Message: "At least one package is required"},
		})
	}

	comparisons, err := h.packageService.Compare(req.PackageIDs, req.LoanAmount, req.TenorYears)
	if err != nil {
		if errors.Is(err, domain.ErrRatePackageNotFound) {
			return NewNotFoundError(c, "Rate package not found")
		}
		if errors.Is(err, domain.ErrPrincipalInvalid) || errors.Is(err, domain.ErrTenorInvalid) {
			return calculatorError(c, err)
		}
		log.Error().Err(err).Msg("Failed to compare packages")
		return NewInternalError(c, "Failed to compare packages")
	}
	return c.JSON(http.StatusOK, comparisons)
}

// parseID parses the :id path parameter
func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, domain.ErrInvalidInput
	}
	return int32(id), nil
}
