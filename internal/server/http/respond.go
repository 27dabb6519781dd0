package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/server/models"
)

// errorResponse is the uniform error envelope. Kind is machine-readable so
// callers can branch without parsing the message.
type errorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type userResponse struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Location string        `json:"location"`
	Boxes    []boxResponse `json:"boxes"`
}

type boxResponse struct {
	ID           string  `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	ImageRef     string  `json:"imageRef,omitempty"`
	LocationCity string  `json:"locationCity"`
}

// toUserResponse strips the password hash; it must never leave the server.
func toUserResponse(u *models.User) userResponse {
	boxes := make([]boxResponse, 0, len(u.Boxes))
	for _, b := range u.Boxes {
		boxes = append(boxes, boxResponse{
			ID:           b.ID,
			X:            b.X,
			Y:            b.Y,
			ImageRef:     b.ImageRef,
			LocationCity: b.LocationCity,
		})
	}
	return userResponse{ID: u.ID, Username: u.UserName, Location: u.Location, Boxes: boxes}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses and kinds. Unknown
// errors are reported as internal without leaking their message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "validation", Error: err.Error()})
	case errors.Is(err, common.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Kind: "already_exists", Error: err.Error()})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Kind: "not_found", Error: err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "invalid_credentials", Error: "Wrong password!"})
	case errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "invalid_token", Error: "invalid or expired token"})
	case errors.Is(err, common.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "unauthenticated", Error: "You need to be logged in!"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: "internal", Error: "internal error"})
	}
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Kind: "not_found", Error: "resource was not found"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Kind: "method_not_allowed", Error: "method not allowed"})
}
