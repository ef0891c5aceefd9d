package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tidelist/tidelist/internal/shared"
)

// IssuedToken carries a freshly signed session token and its metadata.
type IssuedToken struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Tokens issues and verifies signed session tokens. The signing secret is
// provisioned through configuration and shared by every verifier in the
// process.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens constructs a token service. A zero ttl issues tokens without
// expiry.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token binding the user id as its sole subject claim.
func (t *Tokens) Issue(userID int64) (IssuedToken, error) {
	now := t.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	var expiresAt time.Time
	if t.ttl > 0 {
		expiresAt = now.Add(t.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Value: signed, ID: claims.ID, IssuedAt: now, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a token, returning the subject user id and the
// token id. Malformed tokens, bad signatures, unexpected signing methods and
// expired tokens all fail with shared.ErrInvalidToken.
func (t *Tokens) Verify(token string) (int64, string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(tok *jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, "", shared.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", shared.ErrInvalidToken
	}
	return userID, claims.ID, nil
}

// TTL reports the configured token lifetime.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}
