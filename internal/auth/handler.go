package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tidelist/tidelist/internal/observability"
	"github.com/tidelist/tidelist/internal/platform/httpx"
	"github.com/tidelist/tidelist/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *Tokens
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. Metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, tokens *Tokens, metrics *observability.Metrics) *Handler {
	v := validator.New()
	// Same policy the signup form's original validation enforced.
	_ = v.RegisterValidation("password", validPassword)
	return &Handler{logger: logger, service: service, tokens: tokens, metrics: metrics, validator: v}
}

// MountRoutes registers the unauthenticated auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

// MountSessionRoutes registers auth routes that require a valid token.
func (h *Handler) MountSessionRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validate(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	userID, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicateEmail) {
			h.logger.Error("signup failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("user signed up", slog.Int64("user_id", userID))
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "You are signed up"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if fields := h.validate(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin("failure")
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}
	h.metrics.ObserveLogin("success")

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := h.service.RecordToken(r.Context(), tok, user.ID, r.RemoteAddr, r.UserAgent()); err != nil {
		// Auditing is best effort; the login still succeeds.
		h.logger.Warn("record token", slog.Any("error", err))
	}

	h.logger.Info("user logged in", slog.Int64("user_id", user.ID), slog.String("token_id", tok.ID))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"token":   tok.Value,
		"message": "Logged in successfully",
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}

	// The exact expiry is not kept in context; the configured TTL bounds the
	// token's remaining life, so revoking until then is always sufficient.
	var until time.Time
	if ttl := h.tokens.TTL(); ttl > 0 {
		until = time.Now().Add(ttl)
	}
	if err := h.service.RevokeToken(r.Context(), identity.TokenID, until); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.logger.Info("user logged out", slog.Int64("user_id", identity.UserID))
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

// validate runs struct validation and maps failures to field messages.
func (h *Handler) validate(v any) map[string]string {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["general"] = "invalid request"
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "email":
			fields[name] = "invalid email address"
		case "password":
			fields[name] = "password must be at least 8 characters and contain a lowercase letter, an uppercase letter, a number, and a special character"
		default:
			fields[name] = "invalid " + name
		}
	}
	return fields
}

const passwordSpecials = "@$!%*?&"

func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
