// Package router monta o roteador chi do serviço.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/handlers"
	httpMiddleware "github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/middleware"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/services"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/metrics"
)

type Deps struct {
	Limiter       ports.RateLimiter
	Logger        *zap.SugaredLogger
	SkipRateLimit bool
}

func New(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	opts := httpMiddleware.Options{Skip: d.SkipRateLimit, Logger: log}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpMiddleware.NewRequestLogger(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handlers.Health)
	r.Handle("/metrics", metrics.Handler())

	menus := handlers.NewMenuHandler(log)

	r.Route("/api", func(r chi.Router) {
		r.Use(httpMiddleware.NewRateLimiterMiddleware(d.Limiter, opts))

		menus.Routes(r)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handlers.AuthNotImplemented)
			r.With(httpMiddleware.NewNamedRateLimiterMiddleware(d.Limiter, services.PolicyAdminLogin, opts)).
				Post("/admin-login", handlers.AuthNotImplemented)
			r.With(httpMiddleware.NewNamedRateLimiterMiddleware(d.Limiter, services.PolicyPasswordReset, opts)).
				Post("/reset-password", handlers.AuthNotImplemented)
		})
	})

	return r
}
