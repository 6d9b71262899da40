package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
)

// AuditDB is the slice of pgxpool.Pool the audit job needs.
type AuditDB interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
}

// LoginAuditJob persists login events delivered through the queue.
type LoginAuditJob struct {
	db     AuditDB
	logger *slog.Logger
}

// NewLoginAuditJob constructs a LoginAuditJob.
func NewLoginAuditJob(db AuditDB, logger *slog.Logger) *LoginAuditJob {
	return &LoginAuditJob{db: db, logger: logger}
}

// Handle processes TaskTypeLoginAudit tasks.
func (j *LoginAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LoginAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A payload that never unmarshals never will; retrying is noise.
		return asynq.SkipRetry
	}
	const query = `
INSERT INTO login_audit (user_id, email, ip, user_agent, token_id, at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := j.db.Exec(ctx, query,
		payload.UserID,
		payload.Email,
		payload.IP,
		payload.UserAgent,
		payload.TokenID,
		payload.At,
	); err != nil {
		j.logger.Warn("persist login audit", slog.Any("error", err))
		return err
	}
	return nil
}
