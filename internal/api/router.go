// Package api is the REST layer: routing, request validation, role checks
// and the mapping of domain errors to HTTP responses.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geoMaster/internal/auth"
	"geoMaster/internal/experiment"
	"geoMaster/internal/service"
	"geoMaster/models"
)

// AuthService is the user/auth gate.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*service.Session, error)
}

// FeatureService is the feature store adapter.
type FeatureService interface {
	List(ctx context.Context, geometryType string) ([]models.Feature, error)
	Create(ctx context.Context, p *auth.Principal, in service.CreateFeatureInput) (*models.Feature, error)
	Update(ctx context.Context, p *auth.Principal, id string, patch models.FeaturePatch) error
	Delete(ctx context.Context, p *auth.Principal, id string) error
}

// ActivityReader is the read side of the activity log.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

// PerfRunner drives the index experiment behind /api/perf.
type PerfRunner interface {
	Seed(ctx context.Context, n int, target string) error
	MeasureScan(ctx context.Context, p experiment.Predicate) (experiment.Measurement, error)
	BuildIndex(ctx context.Context, field string) error
	DropIndex(ctx context.Context, field string) error
	Latest() (without, with *experiment.Measurement)
}

// UserDirectory backs the admin check and the admin user listing.
type UserDirectory interface {
	auth.UserLookup
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// Pinger reports database liveness for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything NewRouter wires together.
type Deps struct {
	Auth     AuthService
	Features FeatureService
	Activity ActivityReader
	Users    UserDirectory
	Perf     PerfRunner
	DB       Pinger

	JWTSecret         string
	RequestTimeout    time.Duration
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	PerfSize          int
}

type handler struct {
	auth     AuthService
	features FeatureService
	activity ActivityReader
	users    UserDirectory
	perf     PerfRunner
	db       Pinger
	perfSize int
}

// NewRouter builds the chi router for the whole HTTP surface.
func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	if d.RateLimitRequests <= 0 {
		d.RateLimitRequests = 20
	}
	if d.RateLimitWindow <= 0 {
		d.RateLimitWindow = time.Minute
	}
	if d.PerfSize <= 0 {
		d.PerfSize = experiment.DefaultSize
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}
	h := &handler{
		auth:     d.Auth,
		features: d.Features,
		activity: d.Activity,
		users:    d.Users,
		perf:     d.Perf,
		db:       d.DB,
		perfSize: d.PerfSize,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestTimeout(d.RequestTimeout))

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.JWTSecret, writeError))

		r.Route("/api", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(d.RateLimitRequests, d.RateLimitWindow))
				r.Post("/register", h.register)
				r.Post("/login", h.login)
			})

			r.Route("/features", func(r chi.Router) {
				r.Get("/", h.listFeatures)
				r.Post("/", h.createFeature)
				r.Put("/{id}", h.updateFeature)
				r.Delete("/{id}", h.deleteFeature)
			})

			r.Get("/logs", h.listLogs)
			r.With(h.requireAdmin).Get("/users", h.listUsers)

			r.Route("/perf", func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/seed", h.perfSeed)
				r.Get("/no-index", h.perfNoIndex)
				r.Post("/add-index", h.perfAddIndex)
				r.Get("/with-index", h.perfWithIndex)
				r.Get("/report", h.perfReport)
			})
		})

		r.Route("/geoserver", func(r chi.Router) {
			r.Get("/wfs", h.wfs)
			r.Get("/wms", h.wms)
		})
	})

	return r
}

func (h *handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAdmin(r.Context(), h.users); err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
