package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTokenAuditPurge is the task type for purging expired token audit rows.
	TaskTokenAuditPurge = "token_audit:purge"
)

// TokenAuditPurgePayload bounds the purge to rows expired before a cutoff.
type TokenAuditPurgePayload struct {
	Before time.Time `json:"before"`
}

// NewTokenAuditPurgeTask constructs an Asynq task. A zero cutoff purges
// everything expired at processing time.
func NewTokenAuditPurgeTask(payload TokenAuditPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTokenAuditPurge, data), nil
}
