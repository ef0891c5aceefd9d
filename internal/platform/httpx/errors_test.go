package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidelist/tidelist/internal/platform/httpx"
	"github.com/tidelist/tidelist/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"duplicate email", shared.ErrDuplicateEmail, http.StatusConflict},
		{"invalid credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", shared.ErrInvalidToken, http.StatusUnauthorized},
		{"unknown", errors.New("driver: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			httpx.RespondError(res, tc.err)
			assert.Equal(t, tc.status, res.Code)
		})
	}
}

func TestInternalErrorLeaksNoDetail(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, errors.New("pq: password authentication failed"))
	assert.NotContains(t, res.Body.String(), "password authentication")
}
