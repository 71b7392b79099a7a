// ABOUTME: HTTP API server wiring for taskdock
// ABOUTME: Builds the route table and owns the shared JSON helpers

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/relaylabs/taskdock/internal/auth"
	"github.com/relaylabs/taskdock/internal/store"
)

// Store bundles the persistence the API needs.
type Store interface {
	store.UserStore
	store.TaskStore
}

// Server holds the dependencies for the HTTP API handlers.
type Server struct {
	store  Store
	tokens *auth.JWTCodec
	logger *slog.Logger
}

// NewServer creates an API server backed by the given store and token codec.
func NewServer(st Store, tokens *auth.JWTCodec, logger *slog.Logger) *Server {
	return &Server{
		store:  st,
		tokens: tokens,
		logger: logger.With("component", "api"),
	}
}

// Routes returns the route table. Every endpoint except health, register,
// and login sits behind the auth middleware.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	authed := auth.Middleware(s.tokens, s.logger)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(s.handleMe)))

	mux.Handle("GET /api/tasks", authed(http.HandlerFunc(s.handleListTasks)))
	mux.Handle("POST /api/tasks", authed(http.HandlerFunc(s.handleCreateTask)))
	mux.Handle("PUT /api/tasks/{id}", authed(http.HandlerFunc(s.handleUpdateTask)))
	mux.Handle("DELETE /api/tasks/{id}", authed(http.HandlerFunc(s.handleDeleteTask)))

	mux.Handle("GET /api/user/profile", authed(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /api/user/profile", authed(http.HandlerFunc(s.handleUpdateProfile)))

	return mux
}

// HealthResponse is the JSON response for GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth handles GET /api/health requests. Unauthenticated, for
// liveness probing.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
