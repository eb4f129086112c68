// Package server exposes the suggestion advisor over HTTP, mirroring the
// CLI's suggest command for web demos.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/indexpilot/indexpilot/internal/advisor"
	"github.com/indexpilot/indexpilot/internal/ai"
	"github.com/indexpilot/indexpilot/internal/records"
	"github.com/indexpilot/indexpilot/internal/version"
)

// Config holds the HTTP server settings.
type Config struct {
	Port           int
	AllowedOrigins []string
	BasicAuthUsers map[string]string // empty disables auth
}

// Server serves suggestion requests over HTTP.
type Server struct {
	advisor *advisor.Advisor
	cfg     Config
	log     *zap.Logger
}

// New creates a Server around adv.
func New(adv *advisor.Advisor, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{advisor: adv, cfg: cfg, log: log}
}

// Handler builds the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(metricsMiddleware)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(basicAuth(s.cfg.BasicAuthUsers))
		r.Post("/api/suggest", s.handleSuggest)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // suggestion runs wait on the model
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.Int("port", s.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type suggestRequest struct {
	Records  []records.Record `json:"records"`
	Sections []string         `json:"sections"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records are required")
		return
	}

	var sections []advisor.Section
	for _, name := range req.Sections {
		parsed, err := advisor.ParseSections(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sections = append(sections, parsed...)
	}

	suggestion, err := s.advisor.Suggest(r.Context(), req.Records, sections)
	if err != nil {
		status := http.StatusBadGateway
		var aiErr *ai.Error
		if errors.As(err, &aiErr) && aiErr.Code == ai.ErrNotConfigured {
			status = http.StatusServiceUnavailable
		}
		s.log.Error("suggestion run failed", zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
