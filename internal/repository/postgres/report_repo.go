package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, user_id, kind, client_name, object_path, created_at`

// Create records metadata for a generated report
func (r *ReportRepository) Create(report *domain.Report) (*domain.Report, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO reports (id, user_id, kind, client_name, object_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reportColumns+`
	`, report.ID, report.UserID, report.Kind, report.ClientName, report.ObjectPath)
	return scanReport(row)
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(id uuid.UUID) (*domain.Report, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+reportColumns+` FROM reports WHERE id = $1
	`, id)
	return scanReport(row)
}

// GetByUser retrieves all reports generated by a user, newest first
func (r *ReportRepository) GetByUser(userID uuid.UUID) ([]*domain.Report, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+reportColumns+` FROM reports WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(&rep.ID, &rep.UserID, &rep.Kind, &rep.ClientName, &rep.ObjectPath, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &rep, nil
}
