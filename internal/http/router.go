package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docflow/internal/platform/metrics"
	"docflow/internal/translation"
	"docflow/pkg/platform/httputil"
	"docflow/pkg/platform/middleware/auth"
	"docflow/pkg/platform/middleware/metadata"
	"docflow/pkg/platform/middleware/request"
	"docflow/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the pieces the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Validator      auth.JWTValidator
	Translations   *translation.Handler
	HealthChecks   map[string]HealthCheck
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints. Requester routes need a valid token;
// admin routes additionally need the admin role.
func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Latency(d.Metrics))

	r.Get("/healthz", healthz(d.HealthChecks))
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(d.RequestTimeout))
		r.Use(requesttime.Middleware)
		r.Use(auth.RequireAuth(d.Validator, d.Logger))
		d.Translations.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(d.Logger))
			d.Translations.RegisterAdmin(r)
		})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
