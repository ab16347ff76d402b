package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spotarb/spot-arb/internal/store"
	"github.com/spotarb/spot-arb/pkg/cache"
	"github.com/spotarb/spot-arb/pkg/healthprobe"
	"github.com/spotarb/spot-arb/pkg/websocket"
	"go.uber.org/zap"
)

// Config holds HTTP server configuration.
type Config struct {
	Port     string
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Server exposes the read surface: latest snapshot and opportunities,
// the websocket feed, health probes, and Prometheus metrics.
type Server struct {
	cfg    Config
	server *http.Server
	logger *zap.Logger

	store  *store.Store
	hub    *websocket.Hub
	health *healthprobe.HealthChecker
	cache  cache.Cache
}

// New creates the HTTP server. responseCache may be nil to disable
// response caching.
func New(cfg Config, st *store.Store, hub *websocket.Hub, health *healthprobe.HealthChecker, responseCache cache.Cache) *Server {
	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		store:  st,
		hub:    hub,
		health: health,
		cache:  responseCache,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", health.Health())
	r.Get("/ready", health.Ready())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/api/opportunities", s.handleOpportunities)
	r.Get("/ws", hub.ServeWS)

	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("http-server-started", zap.String("port", s.cfg.Port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-stopping")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Snapshot()
	if snapshot == nil {
		s.writeUnavailable(w)
		return
	}
	s.writeCachedJSON(w, "response:snapshot", snapshot)
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	set := s.store.Opportunities()
	if set == nil {
		s.writeUnavailable(w)
		return
	}
	s.writeCachedJSON(w, "response:opportunities", set)
}

// writeCachedJSON serves marshaled bytes from the response cache when
// present, keeping the hot read path off the encoder between ticks.
func (s *Server) writeCachedJSON(w http.ResponseWriter, key string, value interface{}) {
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			if body, ok := cached.([]byte); ok {
				s.writeJSONBytes(w, body)
				return
			}
		}
	}

	body, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("response-marshal-failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		s.cache.Set(key, body, s.cfg.CacheTTL)
	}

	s.writeJSONBytes(w, body)
}

func (s *Server) writeJSONBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "no scan cycle has been published yet",
	})
}
