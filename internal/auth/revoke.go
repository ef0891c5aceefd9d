package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks token ids revoked before their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList implements RevocationList on Redis. Entries expire
// together with the token they revoke, so the list never grows unbounded
// when tokens carry an expiry.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList constructs a Redis backed revocation list.
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revocationKey(jti string) string {
	return "tidelist:revoked:" + jti
}

// Revoke marks a token id revoked until the given time. A zero until keeps
// the entry forever, for deployments issuing tokens without expiry.
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	var ttl time.Duration
	if !until.IsZero() {
		ttl = time.Until(until)
		if ttl <= 0 {
			return nil
		}
	}
	return l.client.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := l.client.Get(ctx, revocationKey(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)
