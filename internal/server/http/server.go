// Package httpapp is the HTTP transport for the boxdrop server: routing,
// request decoding, the session middleware, and the error-to-status mapping.
// All business logic lives in the services layer.
package httpapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/boxdrop/boxdrop/internal/logging"
	"github.com/boxdrop/boxdrop/internal/server/config"
	"github.com/boxdrop/boxdrop/internal/server/services"
)

type Server struct {
	address string
	users   *services.UserService
	boxes   *services.BoxService
	logger  logging.Logger
	cfg     *config.Config
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, bs *services.BoxService) *Server {
	return &Server{
		address: cfg.EndpointAddr,
		users:   us,
		boxes:   bs,
		logger:  l.With("module", "http_server"),
		cfg:     cfg,
	}
}

// Handler returns the full middleware-wrapped handler tree.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.withCORS(http.HandlerFunc(s.route)))
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleHealth(w, r)
		return
	}
	if path == "/finduser" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleFindUser(w, r)
		return
	}
	if strings.HasPrefix(path, "/box/") {
		s.routeBox(w, r, strings.TrimPrefix(path, "/box/"))
		return
	}

	notFound(w)
}

func (s *Server) routeBox(w http.ResponseWriter, r *http.Request, op string) {
	switch op {
	case "signup":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSignup(w, r)
	case "login":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleLogin(w, r)
	case "user":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.withSession(s.handleWhoami)(w, r)
	case "addbox":
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		// The open variant reproduces the inherited behavior of trusting
		// the client-supplied owner id; see BoxService.AddBox.
		if s.cfg.RequireSessionOwner {
			s.withSession(s.handleAddBox)(w, r)
			return
		}
		s.handleAddBox(w, r)
	case "delete":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		s.withSession(s.handleDelete)(w, r)
	default:
		notFound(w)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
