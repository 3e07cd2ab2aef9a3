package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/yutawtr1214/youtube-samalizer/internal/handlers"
	"github.com/yutawtr1214/youtube-samalizer/internal/middleware"
)

func New(
	processHandler *handlers.ProcessHandler,
	limiter *middleware.RateLimiter,
	logger logrus.FieldLogger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", processHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/process", processHandler.Process)
	})

	return r
}
