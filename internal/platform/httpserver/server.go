package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	userservice "entomophage/contexts/identity-access/user-service"
	projectservice "entomophage/contexts/issue-tracking/project-service"
	_ "entomophage/internal/platform/httpserver/docs"
)

const moduleName = "internal/platform/httpserver"

// Server exposes the HTTP surface of one process. A nil module leaves its
// routes unregistered, so each service binary serves only its own API.
type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	identity *userservice.Module
	issues   *projectservice.Module
}

func New(
	identity *userservice.Module,
	issues *projectservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		identity: identity,
		issues:   issues,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", moduleName,
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", moduleName,
		"layer", "platform",
	)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.identity != nil {
		s.mux.HandleFunc("POST /users", s.handleCreateUser)
		s.mux.HandleFunc("GET /users/{username}", s.handleGetUser)
		s.mux.HandleFunc("PUT /users/{username}/projects", s.handleUpdateUserProjects)
		s.mux.HandleFunc("DELETE /users/{username}", s.handleDeleteUser)

		s.mux.HandleFunc("POST /teams", s.handleCreateTeam)
		s.mux.HandleFunc("GET /teams/{name}", s.handleGetTeam)
		s.mux.HandleFunc("PATCH /teams/{name}", s.handleRenameTeam)
		s.mux.HandleFunc("DELETE /teams/{name}", s.handleDeleteTeam)
	}

	if s.issues != nil {
		s.mux.HandleFunc("POST /projects", s.handleCreateProject)
		s.mux.HandleFunc("GET /projects", s.handleListProjects)
		s.mux.HandleFunc("GET /projects/{owner}/{name}", s.handleGetProject)
		s.mux.HandleFunc("PATCH /projects/{owner}/{name}", s.handleUpdateProject)
		s.mux.HandleFunc("DELETE /projects/{owner}/{name}", s.handleDeleteProject)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
