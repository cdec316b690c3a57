package domain

import (
	"time"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/calc"
	"github.com/shopspring/decimal"
)

// Loan types a package applies to.
const (
	LoanTypeNewPurchase = "new_purchase"
	LoanTypeRefinance   = "refinance"
	LoanTypeBUC         = "buc"
)

// Property types a package applies to.
const (
	PropertyTypePrivate = "private"
	PropertyTypeHDB     = "hdb"
	PropertyTypeEC      = "ec"
)

// RateYearTerm is one year's raw rate columns on a package row. All three
// fields must be present for the term to be usable; partially filled years
// are ignored at the ingestion boundary.
type RateYearTerm struct {
	RateType *string          `json:"rateType,omitempty"`
	Operator *string          `json:"operator,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

// RatePackage is a bank's mortgage package as stored: per-year rate terms
// for years one through five plus a thereafter term, alongside eligibility
// metadata. Rows are read-only reference data maintained by admins.
type RatePackage struct {
	ID            int32           `json:"id"`
	BankID        int32           `json:"bankId"`
	Name          string          `json:"name"`
	LoanType      string          `json:"loanType"`
	PropertyType  string          `json:"propertyType"`
	MinLoanAmount decimal.Decimal `json:"minLoanAmount"`
	LockInYears   int32           `json:"lockInYears"`
	Year1         RateYearTerm    `json:"year1"`
	Year2         RateYearTerm    `json:"year2"`
	Year3         RateYearTerm    `json:"year3"`
	Year4         RateYearTerm    `json:"year4"`
	Year5         RateYearTerm    `json:"year5"`
	Thereafter    RateYearTerm    `json:"thereafter"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *time.Time      `json:"deletedAt,omitempty"`
}

// Terms converts the row's per-year columns into the explicit year map the
// rate evaluator consumes. Years missing a rate type or value are omitted;
// a missing operator defaults to "+".
func (p *RatePackage) Terms() calc.PackageRates {
	terms := make(calc.PackageRates)
	columns := map[calc.TermYear]RateYearTerm{
		1:                       p.Year1,
		2:                       p.Year2,
		3:                       p.Year3,
		4:                       p.Year4,
		5:                       p.Year5,
		calc.TermYearThereafter: p.Thereafter,
	}
	for year, col := range columns {
		if col.RateType == nil || col.Value == nil {
			continue
		}
		operator := "+"
		if col.Operator != nil {
			operator = *col.Operator
		}
		terms[year] = calc.RateTerm{
			RateType: *col.RateType,
			Operator: operator,
			Value:    col.Value.InexactFloat64(),
		}
	}
	return terms
}

// RatePackageRepository provides access to rate package reference data
type RatePackageRepository interface {
	GetByID(id int32) (*RatePackage, error)
	GetAll() ([]*RatePackage, error)
	GetByLoanType(loanType, propertyType string) ([]*RatePackage, error)
	Create(pkg *RatePackage) (*RatePackage, error)
	Update(pkg *RatePackage) (*RatePackage, error)
	SoftDelete(id int32) error
}
