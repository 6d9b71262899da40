package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillforge-lms/skillforge/internal/shared"
)

// DBTX abstracts pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) (int64, error)
	CompanyExists(ctx context.Context, companyID string) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db DBTX) *PGRepository {
	return &PGRepository{db: db}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
SELECT id, email, name, password_hash, role, COALESCE(company_id, ''), is_active, created_at, updated_at
FROM users
WHERE email = $1`
	var user User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CompanyID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account and returns its ID.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) (int64, error) {
	const query = `
INSERT INTO users (email, name, password_hash, role, company_id, is_active)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.CompanyID,
		user.IsActive,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

// CompanyExists reports whether the tenant is known.
func (r *PGRepository) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ Repository = (*PGRepository)(nil)
