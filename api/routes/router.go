package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/controllers"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/middleware"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/session"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	pkgredis "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/redis"
)

// Dependencies are the collaborators the HTTP surface is wired to. Everything
// except Sessions is optional.
type Dependencies struct {
	Sessions    *session.Manager
	Idempotency pkgredis.IdempotencyStore
	RateLimiter middleware.RateLimiterStore
	Metrics     prometheus.Gatherer
	Readiness   map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	uploadPolicy := middleware.NewRateLimitPolicy("upload", cfg.RateLimit.UploadWindow, cfg.RateLimit.UploadLimit)
	manager := deps.Sessions

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/", controllers.CreateSession(manager, cfg.JWT, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.JWT, logg))

			r.Get("/", controllers.GetSession(manager, logg))
			r.Post("/views/{view}/activate", controllers.ActivateView(manager, logg))
			r.Post("/acknowledge", controllers.Acknowledge(manager, logg))
			r.With(
				middleware.RateLimit(uploadPolicy, deps.RateLimiter, logg),
				middleware.Idempotency(deps.Idempotency, logg),
			).Post("/uploads", controllers.UploadImage(manager, cfg.Media.MaxBytes(), logg))
			r.Post("/texts", controllers.AddText(manager, logg))
			r.Post("/selection/clear", controllers.ClearSelection(manager, logg))
			r.Post("/gestures", controllers.Gesture(manager, logg))
			r.Get("/layers", controllers.ListLayers(manager, logg))

			r.Route("/elements/{elementId}", func(r chi.Router) {
				r.Patch("/text", controllers.UpdateText(manager, logg))
				r.Post("/select", controllers.SelectElement(manager, logg))
				r.Post("/transform", controllers.TransformElement(manager, logg))
				r.Post("/layer", controllers.MoveLayer(manager, logg))
				r.Delete("/", controllers.DeleteElement(manager, logg))
			})

			r.Post("/exports", controllers.ExportDesign(manager, logg))
			r.Get("/exports/{view}.png", controllers.DownloadView(manager, logg))
			r.Post("/review", controllers.Review(manager, logg))
			r.Post("/design", controllers.ResumeDesign(manager, logg))
			r.Post("/quote", controllers.QuoteDesign(manager, logg))
			r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/submit", controllers.SubmitDesign(manager, logg))
			r.Post("/cancel", controllers.CancelSession(manager, logg))
		})
	})

	return r
}
