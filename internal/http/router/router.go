package router

import (
	"log/slog"
	"net/http"

	"userdir/internal/http/handlers"
	statsh "userdir/internal/http/handlers/stats"
	userh "userdir/internal/http/handlers/user"
	mw "userdir/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func New(
	log *slog.Logger,
	tokens mw.TokenParser,
	sessions mw.SessionChecker,
	userHandler *userh.UserHandler,
	statsHandler *statsh.StatsHandler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mw.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// public methods
	router.Get("/health", handlers.Healthcheck())
	router.Post("/users/register", userHandler.Register)
	router.Post("/users/login", userHandler.Login)

	// user methods
	router.Group(func(r chi.Router) {
		r.Use(mw.Auth(log, tokens, sessions))

		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.Get)
		r.With(mw.SelfOrAdmin).Put("/users/{id}", userHandler.Update)
		r.Get("/stats", statsHandler.GetStatistics)

		// admin methods
		r.Group(func(r chi.Router) {
			r.Use(mw.AdminOnly)

			r.Post("/users", userHandler.Register)
			r.Post("/users/{id}/status", userHandler.SetStatus)
			r.Delete("/users/{id}", userHandler.Delete)
		})
	})

	return router
}
