package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report kinds.
const (
	ReportKindRepayment   = "repayment"
	ReportKindProgressive = "progressive"
	ReportKindComparison  = "comparison"
)

// Report records a generated client report. The rendered document lives in
// object storage at ObjectPath; the row only carries metadata.
type Report struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Kind       string    `json:"kind"`
	ClientName string    `json:"clientName"`
	ObjectPath string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReportRepository provides access to report metadata
type ReportRepository interface {
	Create(report *Report) (*Report, error)
	GetByID(id uuid.UUID) (*Report, error)
	GetByUser(userID uuid.UUID) ([]*Report, error)
}
