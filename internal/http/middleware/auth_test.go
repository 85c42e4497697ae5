package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "userdir/internal/http/middleware"
	"userdir/internal/http/middleware/mocks"
	"userdir/internal/lib/config"
	"userdir/internal/lib/sl"
	"userdir/internal/lib/token"
	"userdir/internal/models"
	usersvc "userdir/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newIssuer() *token.Issuer {
	return token.NewIssuer(config.Auth{JWTSecret: "secret", TokenTTL: time.Hour, Admins: []string{"root"}})
}

func bearer(t *testing.T, i *token.Issuer, id int64, username string) string {
	tok, err := i.Issue(&models.User{ID: id, Username: username})
	require.NoError(t, err)
	return "Bearer " + tok
}

// activeSessions accepts every parsed token.
func activeSessions(t *testing.T) *mocks.MockSessionChecker {
	sessions := mocks.NewMockSessionChecker(t)
	sessions.On("CheckSession", mock.Anything, mock.Anything).Return(nil).Maybe()
	return sessions
}

func newRouter(i *token.Issuer, sessions mw.SessionChecker) http.Handler {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(sl.NewDiscardLogger(), i, sessions))
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			claims, found := mw.ClaimsFromContext(r.Context())
			if !found {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(claims.Username))
		})
		r.With(mw.SelfOrAdmin).Put("/users/{id}", ok)
		r.With(mw.AdminOnly).Delete("/users/{id}", ok)
	})
	return r
}

func do(h http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	i := newIssuer()
	h := newRouter(i, activeSessions(t))

	w := do(h, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, http.MethodGet, "/me", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, http.MethodGet, "/me", bearer(t, i, 1, "ada"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada", w.Body.String())
}

func TestSelfOrAdmin(t *testing.T) {
	i := newIssuer()
	h := newRouter(i, activeSessions(t))

	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/users/1", bearer(t, i, 1, "ada")).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPut, "/users/2", bearer(t, i, 1, "ada")).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPut, "/users/abc", bearer(t, i, 1, "ada")).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/users/2", bearer(t, i, 9, "root")).Code)
}

func TestAdminOnly(t *testing.T) {
	i := newIssuer()
	h := newRouter(i, activeSessions(t))

	assert.Equal(t, http.StatusForbidden, do(h, http.MethodDelete, "/users/1", bearer(t, i, 1, "ada")).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, "/users/1", bearer(t, i, 9, "root")).Code)
}

func TestAuth_SessionRejected(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "banned", err: usersvc.ErrUserBanned, wantCode: http.StatusForbidden},
		{name: "expired", err: usersvc.ErrSessionExpired, wantCode: http.StatusUnauthorized},
		{name: "storage failure", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newIssuer()
			sessions := mocks.NewMockSessionChecker(t)
			sessions.On("CheckSession", mock.Anything, mock.MatchedBy(func(c *token.Claims) bool {
				return c.Username == "ada"
			})).Return(tt.err).Once()

			w := do(newRouter(i, sessions), http.MethodGet, "/me", bearer(t, i, 1, "ada"))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestAuth_InvalidTokenSkipsSessionCheck(t *testing.T) {
	i := newIssuer()
	sessions := mocks.NewMockSessionChecker(t)

	w := do(newRouter(i, sessions), http.MethodGet, "/me", "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	sessions.AssertNotCalled(t, "CheckSession", mock.Anything, mock.Anything)
}
