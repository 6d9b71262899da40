package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/skillforge-lms/skillforge/internal/auth"
	"github.com/skillforge-lms/skillforge/internal/dashboard"
	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/observability"
	"github.com/skillforge-lms/skillforge/internal/platform/httpx"
	"github.com/skillforge-lms/skillforge/internal/shared"
	"github.com/skillforge-lms/skillforge/jobs"
	"github.com/skillforge-lms/skillforge/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Gate             *gate.Gate
	Classifier       *gate.Classifier
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with SkillForge defaults. Every route
// except the configured bypass prefixes sits behind the gate middleware; the
// root path and the bare /dashboard never reach a handler because the gate
// always redirects them.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		Gate:        params.Gate,
		Classifier:  params.Classifier,
		CSRFManager: params.CSRFManager,
		Metrics:     params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Credential endpoints carry a tighter rate limit than the global one.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		params.AuthHandler.MountRoutes(r)
	})

	r.Route("/dashboard", params.DashboardHandler.MountRoutes)

	if params.JobHandler != nil {
		r.Route("/api/public/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.Config != nil && !params.Config.IsProduction() {
		r.Mount("/debug", chimw.Profiler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
