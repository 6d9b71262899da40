package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository provides the counts the landing pages render.
type Repository interface {
	CountCompanies(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountStaff(ctx context.Context, companyID string) (int64, error)
	CountModules(ctx context.Context, companyID string) (int64, error)
	CountAssigned(ctx context.Context, userID int64) (int64, error)
	CountCompleted(ctx context.Context, userID int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db DBTX) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) CountCompanies(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM companies`)
}

func (r *PGRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_active`)
}

func (r *PGRepository) CountStaff(ctx context.Context, companyID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE company_id = $1 AND is_active`, companyID)
}

func (r *PGRepository) CountModules(ctx context.Context, companyID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM training_modules WHERE company_id = $1`, companyID)
}

func (r *PGRepository) CountAssigned(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM module_assignments WHERE user_id = $1`, userID)
}

func (r *PGRepository) CountCompleted(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM module_assignments WHERE user_id = $1 AND completed_at IS NOT NULL`, userID)
}

func (r *PGRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ Repository = (*PGRepository)(nil)
