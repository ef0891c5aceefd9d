package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidelist/tidelist/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	RecordToken(ctx context.Context, jti string, userID int64, issuedAt, expiresAt time.Time, ip, ua string) error
	DeleteToken(ctx context.Context, jti string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const uniqueViolation = "23505"

// CreateUser inserts a new account. Email uniqueness is enforced by the
// database; a duplicate surfaces as shared.ErrDuplicateEmail.
func (r *PGRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, shared.ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

// FindByEmail fetches a user by email. Emails are matched exactly as stored.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// RecordToken persists issued-token metadata for auditing.
func (r *PGRepository) RecordToken(ctx context.Context, jti string, userID int64, issuedAt, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO token_audit (jti, user_id, issued_at, expires_at, ip, ua) VALUES ($1, $2, $3, $4, $5, $6)`,
		jti,
		userID,
		pgtype.Timestamptz{Time: issuedAt.UTC(), Valid: true},
		pgtype.Timestamptz{Time: expiresAt.UTC(), Valid: !expiresAt.IsZero()},
		pgtype.Text{String: ip, Valid: ip != ""},
		pgtype.Text{String: ua, Valid: ua != ""},
	)
	return err
}

// DeleteToken removes an audit record after logout.
func (r *PGRepository) DeleteToken(ctx context.Context, jti string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM token_audit WHERE jti = $1`, jti)
	return err
}

var _ Repository = (*PGRepository)(nil)
