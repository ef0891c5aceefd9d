package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tidelist/tidelist/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	revoked RevocationList
}

// NewService constructs a new Service. The revocation list is optional;
// without one, logout only removes the audit record.
func NewService(repo Repository, revoked RevocationList) *Service {
	return &Service{repo: repo, revoked: revoked}
}

// Signup registers a new account, storing only the bcrypt hash of the
// password.
func (s *Service) Signup(ctx context.Context, name, email, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateUser(ctx, name, email, string(hash))
}

// Authenticate validates email/password credentials. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RecordToken persists issued-token metadata for auditing.
func (s *Service) RecordToken(ctx context.Context, tok IssuedToken, userID int64, ip, ua string) error {
	return s.repo.RecordToken(ctx, tok.ID, userID, tok.IssuedAt, tok.ExpiresAt, ip, ua)
}

// RevokeToken invalidates a token id ahead of its expiry and drops its audit
// record.
func (s *Service) RevokeToken(ctx context.Context, jti string, until time.Time) error {
	if s.revoked != nil {
		if err := s.revoked.Revoke(ctx, jti, until); err != nil {
			return err
		}
	}
	return s.repo.DeleteToken(ctx, jti)
}
