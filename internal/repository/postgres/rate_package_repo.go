package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// RatePackageRepository implements domain.RatePackageRepository using PostgreSQL
type RatePackageRepository struct {
	pool *pgxpool.Pool
}

// NewRatePackageRepository creates a new RatePackageRepository
func NewRatePackageRepository(pool *pgxpool.Pool) *RatePackageRepository {
	return &RatePackageRepository{pool: pool}
}

const ratePackageColumns = `
	id, bank_id, name, loan_type, property_type, min_loan_amount, lock_in_years,
	year1_rate_type, year1_operator, year1_value,
	year2_rate_type, year2_operator, year2_value,
	year3_rate_type, year3_operator, year3_value,
	year4_rate_type, year4_operator, year4_value,
	year5_rate_type, year5_operator, year5_value,
	thereafter_rate_type, thereafter_operator, thereafter_value,
	created_at, updated_at, deleted_at`

// GetByID retrieves a rate package by ID, excluding soft-deleted rows
func (r *RatePackageRepository) GetByID(id int32) (*domain.RatePackage, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+ratePackageColumns+` FROM rate_packages
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanRatePackage(row)
}

// GetAll retrieves every active rate package
func (r *RatePackageRepository) GetAll() ([]*domain.RatePackage, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+ratePackageColumns+` FROM rate_packages
		WHERE deleted_at IS NULL
		ORDER BY bank_id, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query rate packages: %w", err)
	}
	defer rows.Close()
	return collectRatePackages(rows)
}

// GetByLoanType retrieves active packages matching a loan and property type
func (r *RatePackageRepository) GetByLoanType(loanType, propertyType string) ([]*domain.RatePackage, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+ratePackageColumns+` FROM rate_packages
		WHERE loan_type = $1 AND property_type = $2 AND deleted_at IS NULL
		ORDER BY bank_id, name
	`, loanType, propertyType)
	if err != nil {
		return nil, fmt.Errorf("query rate packages by loan type: %w", err)
	}
	defer rows.Close()
	return collectRatePackages(rows)
}

// Create inserts a new rate package
func (r *RatePackageRepository) Create(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO rate_packages (
			bank_id, name, loan_type, property_type, min_loan_amount, lock_in_years,
			year1_rate_type, year1_operator, year1_value,
			year2_rate_type, year2_operator, year2_value,
			year3_rate_type, year3_operator, year3_value,
			year4_rate_type, year4_operator, year4_value,
			year5_rate_type, year5_operator, year5_value,
			thereafter_rate_type, thereafter_operator, thereafter_value
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		RETURNING `+ratePackageColumns+`
	`, ratePackageArgs(pkg)...)
	return scanRatePackage(row)
}

// Update rewrites a rate package's metadata and rate terms
func (r *RatePackageRepository) Update(pkg *domain.RatePackage) (*domain.RatePackage, error) {
	args := append([]interface{}{pkg.ID}, ratePackageArgs(pkg)...)
	row := r.pool.QueryRow(context.Background(), `
		UPDATE rate_packages SET
			bank_id = $2, name = $3, loan_type = $4, property_type = $5,
			min_loan_amount = $6, lock_in_years = $7,
			year1_rate_type = $8, year1_operator = $9, year1_value = $10,
			year2_rate_type = $11, year2_operator = $12, year2_value = $13,
			year3_rate_type = $14, year3_operator = $15, year3_value = $16,
			year4_rate_type = $17, year4_operator = $18, year4_value = $19,
			year5_rate_type = $20, year5_operator = $21, year5_value = $22,
			thereafter_rate_type = $23, thereafter_operator = $24, thereafter_value = $25,
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+ratePackageColumns+`
	`, args...)
	return scanRatePackage(row)
}

// SoftDelete marks a rate package as deleted
func (r *RatePackageRepository) SoftDelete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE rate_packages SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete rate package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRatePackageNotFound
	}
	return nil
}

func ratePackageArgs(pkg *domain.RatePackage) []interface{} {
	return []interface{}{
		pkg.BankID, pkg.Name, pkg.LoanType, pkg.PropertyType, pkg.MinLoanAmount, pkg.LockInYears,
		pkg.Year1.RateType, pkg.Year1.Operator, pkg.Year1.Value,
		pkg.Year2.RateType, pkg.Year2.Operator, pkg.Year2.Value,
		pkg.Year3.RateType, pkg.Year3.Operator, pkg.Year3.Value,
		pkg.Year4.RateType, pkg.Year4.Operator, pkg.Year4.Value,
		pkg.Year5.RateType, pkg.Year5.Operator, pkg.Year5.Value,
		pkg.Thereafter.RateType, pkg.Thereafter.Operator, pkg.Thereafter.Value,
	}
}

func collectRatePackages(rows pgx.Rows) ([]*domain.RatePackage, error) {
	var packages []*domain.RatePackage
	for rows.Next() {
		pkg, err := scanRatePackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, rows.Err()
}

func scanRatePackage(row pgx.Row) (*domain.RatePackage, error) {
	var p domain.RatePackage
	err := row.Scan(
		&p.ID, &p.BankID, &p.Name, &p.LoanType, &p.PropertyType, &p.MinLoanAmount, &p.LockInYears,
		&p.Year1.RateType, &p.Year1.Operator, &p.Year1.Value,
		&p.Year2.RateType, &p.Year2.Operator, &p.Year2.Value,
		&p.Year3.RateType, &p.Year3.Operator, &p.Year3.Value,
		&p.Year4.RateType, &p.Year4.Operator, &p.Year4.Value,
		&p.Year5.RateType, &p.Year5.Operator, &p.Year5.Value,
		&p.Thereafter.RateType, &p.Thereafter.Operator, &p.Thereafter.Value,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRatePackageNotFound
		}
		return nil, fmt.Errorf("scan rate package: %w", err)
	}
	return &p, nil
}
