package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLoginAudit is the task type for persisting login audit events.
	TaskTypeLoginAudit = "audit:login"
)

// LoginAuditPayload describes one successful login.
type LoginAuditPayload struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	TokenID   string    `json:"token_id"`
	At        time.Time `json:"at"`
}

// NewLoginAuditTask constructs an Asynq task.
func NewLoginAuditTask(payload LoginAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLoginAudit, data), nil
}
