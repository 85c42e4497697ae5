package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"userdir/internal/http/api"
	"userdir/internal/lib/sl"
	"userdir/internal/lib/token"
	usersvc "userdir/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=SessionChecker --structname=MockSessionChecker --filename=MockSessionChecker.go --output=./mocks --outpkg=mocks
type SessionChecker interface {
	CheckSession(ctx context.Context, claims *token.Claims) error
}

// ClaimsFromContext returns the claims stored by Auth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	return token.FromContext(ctx)
}

// Auth parses the bearer token and checks that its user still exists, is not
// banned and still carries the username and role the token was issued for.
func Auth(log *slog.Logger, parser TokenParser, sessions SessionChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")

			if tokenString == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, api.Error(api.ErrCodeUnauthorized, "authorization header is required"))
				return
			}

			tokenString, _ = strings.CutPrefix(tokenString, "Bearer ")

			claims, err := parser.Parse(tokenString)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, api.Error(api.ErrCodeUnauthorized, "invalid token"))
				return
			}

			if err := sessions.CheckSession(r.Context(), claims); err != nil {
				switch {
				case errors.Is(err, usersvc.ErrUserBanned):
					render.Status(r, http.StatusForbidden)
					render.JSON(w, r, api.Error(api.ErrCodeUserBanned, err.Error()))
				case errors.Is(err, usersvc.ErrSessionExpired):
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, api.Error(api.ErrCodeUnauthorized, err.Error()))
				default:
					log.Error("failed to check session", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, api.InternalError())
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(token.NewContext(r.Context(), claims)))
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())

		if !ok || !claims.IsAdmin() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, api.Error(api.ErrCodeForbidden, "admin role required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SelfOrAdmin lets a user through only for the {id} route param equal to
// their own id. Admins pass for any id.
func SelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, api.Error(api.ErrCodeUnauthorized, "invalid token"))
			return
		}

		if claims.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		target, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		self, selfErr := claims.UserID()
		if err != nil || selfErr != nil || target != self {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, api.Error(api.ErrCodeForbidden, "can only modify own user"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
