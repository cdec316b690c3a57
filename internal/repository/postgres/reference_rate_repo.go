package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// ReferenceRateRepository implements domain.ReferenceRateRepository using PostgreSQL
type ReferenceRateRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRateRepository creates a new ReferenceRateRepository
func NewReferenceRateRepository(pool *pgxpool.Pool) *ReferenceRateRepository {
	return &ReferenceRateRepository{pool: pool}
}

// GetAll retrieves the full reference-rate table
func (r *ReferenceRateRepository) GetAll() ([]*domain.ReferenceRate, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, rate_type, rate_value, updated_at FROM reference_rates ORDER BY rate_type
	`)
	if err != nil {
		return nil, fmt.Errorf("query reference rates: %w", err)
	}
	defer rows.Close()

	var rates []*domain.ReferenceRate
	for rows.Next() {
		rate, err := scanReferenceRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// Upsert creates or updates the value for a reference rate type
func (r *ReferenceRateRepository) Upsert(rateType string, value decimal.Decimal) (*domain.ReferenceRate, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO reference_rates (rate_type, rate_value)
		VALUES ($1, $2)
		ON CONFLICT (rate_type) DO UPDATE SET rate_value = EXCLUDED.rate_value, updated_at = now()
		RETURNING id, rate_type, rate_value, updated_at
	`, rateType, value)
	return scanReferenceRate(row)
}

func scanReferenceRate(row pgx.Row) (*domain.ReferenceRate, error) {
	var rr domain.ReferenceRate
	err := row.Scan(&rr.ID, &rr.RateType, &rr.RateValue, &rr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan reference rate: %w", err)
	}
	return &rr, nil
}
