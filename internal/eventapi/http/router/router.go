package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/config"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/handlers"
	apimw "github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/middleware"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/tracing"
)

const serviceName = "eventapi"

// New wires the /eventapi routes. auth may be nil, in which case mutating
// routes are open.
func New(
	h *handlers.EventsHandler,
	auth *apimw.AuthMiddleware,
	z *handlers.HealthHandler,
	cfg *config.Server,
) http.Handler {
	r := chi.NewRouter()

	r.Use(apimw.RequestID)
	r.Use(apimw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(tracing.Middleware(serviceName))
	r.Use(apimw.AccessLog)
	r.Use(apimw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apimw.HeaderXRequestID},
		ExposedHeaders:   []string{apimw.HeaderXRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/eventapi", func(r chi.Router) {
		r.Get("/all", h.List)
		r.Get("/get/{id}", h.Get)

		r.Group(func(r chi.Router) {
			if auth != nil {
				r.Use(auth.Require)
			}
			r.Post("/add", h.Add)
			r.Put("/update", h.Update)
			r.Delete("/delete/{id}", h.Delete)
		})
	})

	return r
}
