// Package httpapi serves network generation and stored runs over HTTP.
//
//	POST /v1/networks          generate (and optionally store) a network
//	GET  /v1/networks          list stored runs
//	GET  /v1/networks/{id}     load a stored run
//	DELETE /v1/networks/{id}   remove a stored run
//	POST /v1/neighbors         inspect the ranked neighbors of one row
//	GET  /healthz              liveness
//	GET  /metrics              Prometheus exposition
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/molnet/internal/config"
	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/internal/store"
	"github.com/katalvlaran/molnet/network"
	"go.uber.org/zap"
)

// RunStore is the subset of *store.Store the API needs.
type RunStore interface {
	Save(ctx context.Context, params store.Params, res *network.Result) (string, error)
	Get(ctx context.Context, id string) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
	Delete(ctx context.Context, id string) error
}

// Server holds the API dependencies.
type Server struct {
	cfg      *config.Config
	runs     RunStore // nil disables persistence
	metrics  *metrics.Collector
	logger   *zap.Logger
	validate *validator.Validate
}

// New returns a Server. runs and m may be nil; logger nil means no logging.
func New(cfg *config.Config, runs RunStore, m *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{cfg: cfg, runs: runs, metrics: m, logger: logger, validate: v}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.observe)

	router.Get("/healthz", s.health)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	router.Route("/v1", func(r chi.Router) {
		r.Route("/networks", func(r chi.Router) {
			r.Post("/", s.createNetwork)
			r.Get("/", s.listRuns)
			r.Get("/{id}", s.getRun)
			r.Delete("/{id}", s.deleteRun)
		})
		r.Post("/neighbors", s.neighbors)
	})

	return router
}

// observe logs every request and counts it by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		}
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
