package domain

import (
	"strings"
	"time"
)

// Bank is reference data for a lender whose packages the tool recommends.
// LogoPath is an object-storage path; presigned URLs are generated on read.
type Bank struct {
	ID        int32      `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	LogoPath  *string    `json:"logoPath,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (b *Bank) Validate() error {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		return ErrBankNameRequired
	}
	if len(name) > MaxBankNameLength {
		return ErrBankNameTooLong
	}
	return nil
}

// BankRepository provides access to bank reference data
type BankRepository interface {
	Create(bank *Bank) (*Bank, error)
	GetByID(id int32) (*Bank, error)
	GetAll() ([]*Bank, error)
	Update(bank *Bank) (*Bank, error)
	UpdateLogoPath(id int32, logoPath string) (*Bank, error)
	SoftDelete(id int32) error
}
