package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenAuditPurger removes audit rows for tokens that expired before the
// task's cutoff. Rows without an expiry are kept forever.
type TokenAuditPurger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTokenAuditPurger constructs a purger.
func NewTokenAuditPurger(pool *pgxpool.Pool, logger *slog.Logger) *TokenAuditPurger {
	return &TokenAuditPurger{pool: pool, logger: logger}
}

// Handle processes TaskTokenAuditPurge tasks.
func (p *TokenAuditPurger) Handle(ctx context.Context, t *asynq.Task) error {
	var payload TokenAuditPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	cutoff := payload.Before
	if cutoff.IsZero() {
		cutoff = time.Now().UTC()
	}

	tag, err := p.pool.Exec(ctx,
		`DELETE FROM token_audit WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("token audit purged",
			slog.Int64("rows", tag.RowsAffected()),
			slog.Time("cutoff", cutoff))
	}
	return nil
}
