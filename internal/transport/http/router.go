package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"voterfinder/internal/platform/metrics"
	"voterfinder/internal/platform/middleware"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/platform/middleware/device"
	"voterfinder/pkg/platform/middleware/metadata"
	"voterfinder/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Deps is everything the router needs. Public handlers are reachable
// without a session; Protected ones sit behind the session guard.
type Deps struct {
	Logger        *slog.Logger
	Metrics       *metrics.Registry
	Tokens        device.TokenResolver
	Sessions      middleware.SessionChecker
	SecureCookies bool
	HealthChecks  map[string]HealthCheck
	Public        []Registrar
	Protected     []Registrar
}

const healthTimeout = 2 * time.Second

// NewRouter wires the middleware chain and every route.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware(d.Tokens, d.SecureCookies))
	r.Use(middleware.AccessLog(logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Get("/", handleLanding)
	r.Get("/healthz", handleHealth(d.HealthChecks, logger))

	for _, h := range d.Public {
		h.Register(r)
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(d.Sessions, logger))
		for _, h := range d.Protected {
			h.Register(r)
		}
	})
	return r
}

type landing struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Dashboard   string `json:"dashboard"`
	Login       string `json:"login"`
}

func handleLanding(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, landing{
		Name:        "Voter Swift Finder",
		Description: "An easy-to-use tool for finding voter information during elections.",
		Dashboard:   "/dashboard",
		Login:       middleware.LoginPath,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func handleHealth(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "component", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
