// Package server exposes the signal analyzers over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/booking"
	"github.com/sells-group/lead-signals/internal/callvolume"
	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/config"
	"github.com/sells-group/lead-signals/internal/metrics"
	"github.com/sells-group/lead-signals/internal/signals"
)

// MaxBatchSize bounds the number of businesses accepted by the batch endpoint.
const MaxBatchSize = 1000

// Server wires the analyzers to HTTP routes.
type Server struct {
	cfg         config.ServerConfig
	concurrency int
	catalog     *catalog.Catalog
	detector    *aidetect.Detector
	booking     *booking.Analyzer
	estimator   *callvolume.Estimator
	analyzer    *signals.Analyzer
	metrics     *metrics.Recorder
	limiter     *rate.Limiter
}

// New builds a Server. concurrency bounds the batch endpoint's fan-out.
func New(cfg config.ServerConfig, concurrency int, c *catalog.Catalog, rec *metrics.Recorder, opts ...signals.Option) *Server {
	if c == nil {
		c = catalog.Default()
	}
	s := &Server{
		cfg:         cfg,
		concurrency: concurrency,
		catalog:     c,
		detector:    aidetect.New(c),
		booking:     booking.New(c),
		estimator:   callvolume.New(c),
		analyzer:    signals.New(c, append([]signals.Option{signals.WithMetrics(rec)}, opts...)...),
		metrics:     rec,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return s
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.limitBody)

		r.Get("/catalog", s.handleCatalog)
		r.Post("/ai-detection", s.handleAIDetection)
		r.Post("/booking-detection", s.handleBookingDetection)
		r.Post("/call-estimate", s.handleCallEstimate)
		r.Post("/leads/analyze", s.handleAnalyze)
		r.Post("/leads/analyze/batch", s.handleAnalyzeBatch)
	})

	return r
}

// ListenAndServe serves on cfg.Port until ctx is cancelled, then drains in-flight
// requests for up to cfg.ShutdownTimeoutSecs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.Int("port", s.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	timeout := time.Duration(s.cfg.ShutdownTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	zap.L().Info("server: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
