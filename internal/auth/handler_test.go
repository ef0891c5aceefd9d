package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidelist/tidelist/internal/auth"
)

func newAuthHandler(t *testing.T) (*auth.Handler, *mockRepo, *auth.Tokens) {
	t.Helper()
	repo := newMockRepo()
	tokens := auth.NewTokens("handler-secret", time.Hour)
	service := auth.NewService(repo, nil)
	handler := auth.NewHandler(slog.Default(), service, tokens, nil)
	return handler, repo, tokens
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func mountAuth(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestSignupEndpoint(t *testing.T) {
	handler, repo, _ := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/signup", `{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "You are signed up")
	assert.Contains(t, repo.usersByEmail, "a@x.com")
}

func TestSignupValidation(t *testing.T) {
	handler, _, _ := newAuthHandler(t)
	router := mountAuth(handler)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@x.com","password":"Abcdef1!"}`, "name"},
		{"bad email", `{"name":"Ann","email":"not-an-email","password":"Abcdef1!"}`, "email"},
		{"short password", `{"name":"Ann","email":"a@x.com","password":"Ab1!"}`, "password"},
		{"no uppercase", `{"name":"Ann","email":"a@x.com","password":"abcdef1!"}`, "password"},
		{"no digit", `{"name":"Ann","email":"a@x.com","password":"Abcdefg!"}`, "password"},
		{"no special", `{"name":"Ann","email":"a@x.com","password":"Abcdefg1"}`, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := postJSON(t, router, "/signup", tc.body)
			require.Equal(t, http.StatusBadRequest, res.Code)

			var problem struct {
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
			assert.Contains(t, problem.Fields, tc.field)
		})
	}
}

func TestSignupDuplicateEmailEndpoint(t *testing.T) {
	handler, _, _ := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/signup", `{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = postJSON(t, router, "/signup", `{"name":"Bea","email":"a@x.com","password":"Xyzabc2?"}`)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestLoginEndpoint(t *testing.T) {
	handler, _, tokens := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/signup", `{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = postJSON(t, router, "/login", `{"email":"a@x.com","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "Logged in successfully", body.Message)

	userID, _, err := tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)
}

func TestLoginBadCredentials(t *testing.T) {
	handler, _, _ := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/signup", `{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = postJSON(t, router, "/login", `{"email":"a@x.com","password":"WrongPass1!"}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.NotContains(t, res.Body.String(), "token")
}

func TestLoginValidation(t *testing.T) {
	handler, _, _ := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/login", `{"email":"not-an-email","password":""}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSignupRejectsMalformedJSON(t *testing.T) {
	handler, _, _ := newAuthHandler(t)
	router := mountAuth(handler)

	res := postJSON(t, router, "/signup", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
