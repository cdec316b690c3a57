package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// BankRepository implements domain.BankRepository using PostgreSQL
type BankRepository struct {
	pool *pgxpool.Pool
}

// NewBankRepository creates a new BankRepository
func NewBankRepository(pool *pgxpool.Pool) *BankRepository {
	return &BankRepository{pool: pool}
}

const bankColumns = `id, name, code, logo_path, created_at, updated_at, deleted_at`

// Create creates a new bank
func (r *BankRepository) Create(bank *domain.Bank) (*domain.Bank, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO banks (name, code) VALUES ($1, $2)
		RETURNING `+bankColumns+`
	`, bank.Name, bank.Code)
	return scanBank(row)
}

// GetByID retrieves a bank by ID, excluding soft-deleted rows
func (r *BankRepository) GetByID(id int32) (*domain.Bank, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+bankColumns+` FROM banks WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanBank(row)
}

// GetAll retrieves all banks ordered by name
func (r *BankRepository) GetAll() ([]*domain.Bank, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+bankColumns+` FROM banks WHERE deleted_at IS NULL ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	defer rows.Close()

	var banks []*domain.Bank
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, rows.Err()
}

// Update updates a bank's name and code
func (r *BankRepository) Update(bank *domain.Bank) (*domain.Bank, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE banks SET name = $2, code = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+bankColumns+`
	`, bank.ID, bank.Name, bank.Code)
	return scanBank(row)
}

// UpdateLogoPath stores the object-storage path of an uploaded logo
func (r *BankRepository) UpdateLogoPath(id int32, logoPath string) (*domain.Bank, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE banks SET logo_path = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+bankColumns+`
	`, id, logoPath)
	return scanBank(row)
}

// SoftDelete marks a bank as deleted
func (r *BankRepository) SoftDelete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE banks SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete bank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBankNotFound
	}
	return nil
}

func scanBank(row pgx.Row) (*domain.Bank, error) {
	var b domain.Bank
	err := row.Scan(&b.ID, &b.Name, &b.Code, &b.LogoPath, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankNotFound
		}
		return nil, fmt.Errorf("scan bank: %w", err)
	}
	return &b, nil
}
