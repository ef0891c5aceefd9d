package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidelist/tidelist/internal/platform/httpx"
	"github.com/tidelist/tidelist/internal/shared"
)

// Gate protects routes behind token authentication. It never logs the raw
// token value.
type Gate struct {
	logger  *slog.Logger
	tokens  *Tokens
	revoked RevocationList
}

// NewGate constructs a Gate. The revocation list is optional.
func NewGate(logger *slog.Logger, tokens *Tokens, revoked RevocationList) *Gate {
	return &Gate{logger: logger, tokens: tokens, revoked: revoked}
}

// Require verifies the token carried in the authorization header and attaches
// the resolved identity to the request context. Requests without a valid
// token are rejected with 401.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		// Clients send the raw token; a Bearer prefix is tolerated.
		if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
			raw = after
		}
		if raw == "" {
			httpx.RespondError(w, shared.ErrInvalidToken)
			return
		}

		userID, jti, err := g.tokens.Verify(raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrInvalidToken)
			return
		}

		if g.revoked != nil {
			revoked, err := g.revoked.IsRevoked(r.Context(), jti)
			if err != nil {
				g.logger.Error("revocation check failed", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if revoked {
				httpx.RespondError(w, shared.ErrInvalidToken)
				return
			}
		}

		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{UserID: userID, TokenID: jti})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
