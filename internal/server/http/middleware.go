package httpapp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/server/auth"
)

// withSession validates the bearer token, resolves it to a user, and attaches
// that user to the request context. It short-circuits the pipeline: on
// failure the wrapped handler never runs. A token whose id no longer
// resolves (deleted account holding a stale token) is treated the same as a
// missing one.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
			writeError(w, common.ErrUnauthenticated)
			return
		}
		token := strings.TrimPrefix(header, common.BearerPrefix)

		userID, err := auth.GetUserIDFromToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			writeError(w, common.ErrInvalidToken)
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				writeError(w, common.ErrUnauthenticated)
				return
			}
			writeError(w, err)
			return
		}

		next(w, r.WithContext(auth.WithUser(r.Context(), user)))
	}
}

// withRequestLog tags every request with an id and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.logger.With("request_id", uuid.NewString())
		log.Info(r.Context(), "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// withCORS answers preflight requests and allows credentialed cross-origin
// calls, mirroring the permissive policy the service has always shipped with.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
