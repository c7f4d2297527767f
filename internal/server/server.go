// Package server provides the HTTP and websocket surface of the mudra
// gesture interpreter.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// PNGSource renders an image as PNG.
type PNGSource interface {
	PNG() ([]byte, error)
}

// Config holds the server configuration. Routes whose collaborator is nil
// are not registered.
type Config struct {
	App       *app.App
	Store     *store.Store
	Hub       *Hub
	Canvas    PNGSource
	Metrics   *metrics.Manager
	StaticDir string
	FPS       int

	// Settings are the defaults reported by /api/settings before the user
	// changes anything. OnSettings receives every accepted update.
	Settings   api.Settings
	OnSettings func(api.Settings)

	Logger *slog.Logger
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger.With("component", "server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		status := api.NewStatusHandler(s.config.App)
		s.mux.HandleFunc("/api/status", status.Status)
		s.mux.HandleFunc("/api/camera", status.Camera)
		s.mux.HandleFunc("/api/history", status.History)

		s.mux.Handle("/api/landmarks", NewLandmarksHandler(s.config.App, s.config.Metrics, s.logger))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App, s.config.FPS))
	}

	if s.config.Store != nil {
		settings := api.NewSettingsHandler(s.config.Store.Settings(), s.config.Settings, s.config.OnSettings, s.logger)
		s.mux.Handle("/api/settings", settings)
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/events", s.config.Hub)
	}

	if s.config.Canvas != nil {
		s.mux.HandleFunc("/api/canvas", s.handleCanvas)
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics.Handler())
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleCanvas handles GET /api/canvas, returning the drawing as PNG.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.config.Canvas.PNG()
	if err != nil {
		s.logger.Error("failed to encode canvas", "error", err)
		http.Error(w, "Failed to encode canvas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Request contexts derive from ctx so that open streams end with it.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
