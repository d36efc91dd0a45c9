package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/msgboard/backend/internal/setup"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
	"github.com/itchan-dev/msgboard/shared/middleware/metrics"
	rl "github.com/itchan-dev/msgboard/shared/middleware/ratelimiter"
)

// New creates the chi router with all the routes.
// IMPORTANT! a ratelimiter is shared by every route it is attached to: one
// budget covers thread and reply posts combined.
func New(deps *setup.Dependencies) *chi.Mux {
	cfg := deps.Config.Public
	h := deps.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	// Operational endpoints
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	postLimit := perIP(cfg.RateLimits.PostsPerMinute)
	reportLimit := perIP(cfg.RateLimits.ReportsPerMinute)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Http.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))
		r.Use(mw.SecurityHeadersWithCSP(cfg.Security.SecureCookies, mw.APICSP))

		r.Get("/threads/{board}", h.GetThreads)
		r.With(postLimit).Post("/threads/{board}", h.CreateThread)
		r.With(reportLimit).Put("/threads/{board}", h.ReportThread)
		r.Delete("/threads/{board}", h.DeleteThread)

		r.Get("/replies/{board}", h.GetThread)
		r.With(postLimit).Post("/replies/{board}", h.CreateReply)
		r.With(reportLimit).Put("/replies/{board}", h.ReportReply)
		r.Delete("/replies/{board}", h.DeleteReply)

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.AdminOnly())
			r.Get("/reported/{board}", h.GetReported)
			r.Delete("/threads/{board}/{thread_id}", h.AdminDeleteThread)
			r.Put("/threads/{board}/{thread_id}/clear", h.ClearReports)
		})
	})

	// Board pages
	r.Group(func(r chi.Router) {
		r.Use(mw.SecurityHeadersWithCSP(cfg.Security.SecureCookies, mw.PageCSP))
		r.Get("/", h.IndexPage)
		r.Get("/b/{board}", h.BoardPage)
		r.Get("/b/{board}/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, strings.TrimSuffix(r.URL.EscapedPath(), "/"), http.StatusMovedPermanently)
		})
		r.Get("/b/{board}/{thread_id}", h.ThreadPage)
	})

	return r
}

// perIP limits requests per client address, 0 disables the limit.
func perIP(perMinute float64) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw.RateLimit(rl.PerMinute(perMinute), mw.GetIP)
}
