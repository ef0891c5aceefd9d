package app_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidelist/tidelist/internal/app"
	"github.com/tidelist/tidelist/internal/auth"
	"github.com/tidelist/tidelist/internal/shared"
	"github.com/tidelist/tidelist/internal/todo"
	_ "github.com/tidelist/tidelist/testing"
)

// In-memory repositories standing in for PostgreSQL.

type memAuthRepo struct {
	usersByEmail map[string]*auth.User
	nextID       int64
}

func (m *memAuthRepo) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	if _, exists := m.usersByEmail[email]; exists {
		return 0, shared.ErrDuplicateEmail
	}
	id := m.nextID
	m.nextID++
	m.usersByEmail[email] = &auth.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (m *memAuthRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *memAuthRepo) RecordToken(ctx context.Context, jti string, userID int64, issuedAt, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (m *memAuthRepo) DeleteToken(ctx context.Context, jti string) error {
	return nil
}

type memTodoRepo struct {
	todos  map[int64]*todo.Todo
	nextID int64
}

func (m *memTodoRepo) ListByOwner(ctx context.Context, userID int64) ([]todo.Todo, error) {
	var out []todo.Todo
	for _, t := range m.todos {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTodoRepo) Create(ctx context.Context, userID int64, title, category string) (*todo.Todo, error) {
	t := &todo.Todo{ID: m.nextID, UserID: userID, Title: title, Category: category}
	m.nextID++
	m.todos[t.ID] = t
	copied := *t
	return &copied, nil
}

func (m *memTodoRepo) Update(ctx context.Context, userID, todoID int64, patch todo.Patch) error {
	t, ok := m.todos[todoID]
	if !ok || t.UserID != userID {
		return shared.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	return nil
}

func (m *memTodoRepo) Delete(ctx context.Context, userID, todoID int64) error {
	t, ok := m.todos[todoID]
	if !ok || t.UserID != userID {
		return shared.ErrNotFound
	}
	delete(m.todos, todoID)
	return nil
}

func newTestRouter(t *testing.T, revoked auth.RevocationList) http.Handler {
	t.Helper()
	logger := slog.Default()
	tokens := auth.NewTokens("router-secret", time.Hour)

	authRepo := &memAuthRepo{usersByEmail: make(map[string]*auth.User), nextID: 1}
	authService := auth.NewService(authRepo, revoked)
	authHandler := auth.NewHandler(logger, authService, tokens, nil)
	gate := auth.NewGate(logger, tokens, revoked)

	todoRepo := &memTodoRepo{todos: make(map[int64]*todo.Todo), nextID: 1}
	todoHandler := todo.NewHandler(logger, todo.NewService(todoRepo))

	return app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      &app.Config{AppRequestTimeout: 5 * time.Second},
		AuthHandler: authHandler,
		TodoHandler: todoHandler,
		Gate:        gate,
	})
}

func request(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSignupLoginTodoFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	res := request(t, router, http.MethodPost, "/signup",
		`{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = request(t, router, http.MethodPost, "/login",
		`{"email":"a@x.com","password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	authHeader := map[string]string{"Authorization": login.Token}

	res = request(t, router, http.MethodPost, "/todo", `{"title":"buy milk"}`, authHeader)
	require.Equal(t, http.StatusOK, res.Code)

	res = request(t, router, http.MethodGet, "/todos", "", authHeader)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "buy milk")

	res = request(t, router, http.MethodGet, "/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	router := newTestRouter(t, nil)

	signupAndLogin := func(name, email string) map[string]string {
		res := request(t, router, http.MethodPost, "/signup",
			`{"name":"`+name+`","email":"`+email+`","password":"Abcdef1!"}`, nil)
		require.Equal(t, http.StatusOK, res.Code)
		res = request(t, router, http.MethodPost, "/login",
			`{"email":"`+email+`","password":"Abcdef1!"}`, nil)
		require.Equal(t, http.StatusOK, res.Code)
		var login struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))
		return map[string]string{"Authorization": login.Token}
	}

	annAuth := signupAndLogin("Ann", "ann@x.com")
	bobAuth := signupAndLogin("Bob", "bob@x.com")

	res := request(t, router, http.MethodPost, "/todo", `{"title":"ann's plans"}`, annAuth)
	require.Equal(t, http.StatusOK, res.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))

	res = request(t, router, http.MethodGet, "/todos", "", bobAuth)
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "ann's plans")

	bobDelete := map[string]string{
		"Authorization": bobAuth["Authorization"],
		"todoid":        "1",
	}
	res = request(t, router, http.MethodDelete, "/todo", "", bobDelete)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := newTestRouter(t, auth.NewRedisRevocationList(client))

	res := request(t, router, http.MethodPost, "/signup",
		`{"name":"Ann","email":"a@x.com","password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)
	res = request(t, router, http.MethodPost, "/login",
		`{"email":"a@x.com","password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))
	authHeader := map[string]string{"Authorization": login.Token}

	res = request(t, router, http.MethodGet, "/todos", "", authHeader)
	require.Equal(t, http.StatusOK, res.Code)

	res = request(t, router, http.MethodPost, "/logout", "", authHeader)
	require.Equal(t, http.StatusOK, res.Code)

	res = request(t, router, http.MethodGet, "/todos", "", authHeader)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)
	res := request(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "ok")
}

func TestStaticPagesServed(t *testing.T) {
	router := newTestRouter(t, nil)

	res := request(t, router, http.MethodGet, "/static/login.html", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Log in")

	res = request(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusSeeOther, res.Code)
}
