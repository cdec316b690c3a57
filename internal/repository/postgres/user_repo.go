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

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, role, created_at, updated_at, last_seen_at`

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by the identity provider's subject
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+` FROM users WHERE auth0_id = $1
	`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID provisions a user on first login. New users default
// to the advisor role; admins are promoted out of band.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (id, auth0_id, email, name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+userColumns+`
	`, uuid.New(), auth0ID, email, name, domain.RoleAdvisor)
	return scanUser(row)
}

// UpdateName updates only the user's display name
func (r *UserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET name = $2, updated_at = now() WHERE auth0_id = $1
		RETURNING `+userColumns+`
	`, auth0ID, name)
	return scanUser(row)
}

// TouchLastSeen records login activity
func (r *UserRepository) TouchLastSeen(auth0ID string) error {
	_, err := r.pool.Exec(context.Background(), `
		UPDATE users SET last_seen_at = now() WHERE auth0_id = $1
	`, auth0ID)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
