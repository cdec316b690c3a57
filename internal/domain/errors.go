package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInternalError        = errors.New("internal error")
	ErrUserNotFound         = errors.New("user not found")
	ErrBankNotFound         = errors.New("bank not found")
	ErrRatePackageNotFound  = errors.New("rate package not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrPrincipalInvalid     = errors.New("loan amount must be positive")
	ErrTenorInvalid         = errors.New("loan tenor must be at least one month")
	ErrPurchasePriceInvalid = errors.New("purchase price must be positive")
	ErrLoanExceedsPrice     = errors.New("loan amount cannot exceed purchase price")
	ErrIncomeInvalid        = errors.New("monthly income must be positive")
	ErrBankNameRequired     = errors.New("bank name is required")
	ErrBankNameTooLong      = errors.New("bank name must be 200 characters or less")
)

// Validation constants
const (
	MaxBankNameLength = 200
	MaxTenorYears     = 35
)
