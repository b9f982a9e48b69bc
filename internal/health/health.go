// Package health provides the HTTP health check endpoints.
//
// Docker and Kubernetes probe these endpoints to monitor the assistant.
// /healthz reports liveness; /readyz flips to 200 once the intent catalog
// is embedded and the turn loop is running.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Server is a lightweight HTTP server exposing /healthz and /readyz.
type Server struct {
	port   int
	ready  atomic.Bool
	state  func() string
	server *http.Server
}

// New creates a health check server. state, when non-nil, reports the turn
// loop's current phase in the response body.
func New(port int, state func() string) *Server {
	return &Server{port: port, state: state}
}

// SetReady marks the assistant as ready to handle turns.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// ListenAndServe starts the health check HTTP server. It blocks until the
// context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, "ok")
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		s.write(w, http.StatusServiceUnavailable, "not_ready")
		return
	}
	s.write(w, http.StatusOK, "ok")
}

func (s *Server) write(w http.ResponseWriter, code int, status string) {
	body := map[string]string{"status": status}
	if s.state != nil {
		body["state"] = s.state()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
