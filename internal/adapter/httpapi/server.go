// Package httpapi exposes the alert workflow and lookup endpoints, plus the
// operational health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
	"github.com/agrimet/crop-alert-service/internal/pipeline"
)

// AlertGenerator runs the alert workflow for a district.
type AlertGenerator interface {
	Generate(ctx context.Context, req pipeline.Request) (domain.AlertRecord, error)
	CheckReadiness(ctx context.Context) error
}

// Directory answers the geography lookup endpoints.
type Directory interface {
	Districts(state string) []string
	Villages(state, district string) []string
}

// Server exposes the alert service HTTP API.
type Server struct {
	httpServer *http.Server
	generator  AlertGenerator
	directory  Directory
	weather    domain.WeatherProvider
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, generator AlertGenerator, directory Directory, weather domain.WeatherProvider, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		generator: generator,
		directory: directory,
		weather:   weather,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/run-workflow", s.instrument("run-workflow", s.handleRunWorkflow))
	mux.HandleFunc("GET /api/districts/{state}", s.instrument("districts", s.handleDistricts))
	mux.HandleFunc("GET /api/villages/{state}/{district}", s.instrument("villages", s.handleVillages))
	mux.HandleFunc("GET /api/crops", s.instrument("crops", s.handleCrops))
	mux.HandleFunc("GET /api/crops/{crop}", s.instrument("crop", s.handleCrop))
	mux.HandleFunc("GET /api/weather/{lat}/{lon}", s.instrument("weather", s.handleWeather))

	mux.HandleFunc("POST /a2a/sms", s.instrument("a2a-sms", s.handleSMS))
	mux.HandleFunc("POST /a2a/whatsapp", s.instrument("a2a-whatsapp", s.handleWhatsApp))
	mux.HandleFunc("POST /a2a/ussd", s.instrument("a2a-ussd", s.handleUSSD))
	mux.HandleFunc("POST /a2a/ivr", s.instrument("a2a-ivr", s.handleIVR))
	mux.HandleFunc("POST /a2a/telegram", s.instrument("a2a-telegram", s.handleTelegram))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.generator.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
