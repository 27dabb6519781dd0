package httpapp

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/server/auth"
	"github.com/boxdrop/boxdrop/internal/server/services"
)

const maxImageMemory = 32 << 20

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Location string `json:"location"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Data    userResponse `json:"data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req, func(form map[string]string) {
		req.Username = form["username"]
		req.Password = form["password"]
		req.Location = form["location"]
	}); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.SignUp(r.Context(), req.Username, req.Password, req.Location)
	if err != nil {
		s.logger.Error(r.Context(), "signup failed", "error", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user signed up", "username", user.UserName)
	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "User signup was successful",
		Token:   token,
		Data:    toUserResponse(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req, func(form map[string]string) {
		req.Username = form["username"]
		req.Password = form["password"]
	}); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login was successful!",
		Token:   token,
		Data:    toUserResponse(user),
	})
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, common.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (s *Server) handleAddBox(w http.ResponseWriter, r *http.Request) {
	params, err := decodeAddBox(r)
	if err != nil {
		writeError(w, err)
		return
	}

	box, err := s.boxes.AddBox(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": box.UserID})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, common.ErrUnauthenticated)
		return
	}

	if err := s.users.DeleteAccount(r.Context(), user.ID); err != nil {
		s.logger.Error(r.Context(), "account deletion failed", "error", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "account deleted", "username", user.UserName)
	writeJSON(w, http.StatusOK, map[string]any{"msg": "User Deleted Successfully!"})
}

// handleFindUser lists every account. Debug route; password hashes are never
// included in the response shape.
func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request) {
	all, err := s.users.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(all))
	for _, u := range all {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeBody fills a typed request from a JSON body or, for form posts, via
// the provided form mapper. Malformed input maps to the validation kind
// before any business logic runs.
func decodeBody(r *http.Request, v any, fromForm func(map[string]string)) error {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "application/json" || contentType == "" {
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("%w: reading body: %v", common.ErrValidation, err)
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: invalid JSON body", common.ErrValidation)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: invalid form body", common.ErrValidation)
	}
	form := map[string]string{}
	for key := range r.PostForm {
		form[key] = r.PostForm.Get(key)
	}
	fromForm(form)
	return nil
}

// decodeAddBox accepts a multipart form with an optional box_image file, or
// a plain urlencoded form when no image is attached.
func decodeAddBox(r *http.Request) (services.AddBoxParams, error) {
	var params services.AddBoxParams

	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxImageMemory); err != nil {
			return params, fmt.Errorf("%w: invalid multipart body", common.ErrValidation)
		}

		file, header, err := r.FormFile("box_image")
		switch {
		case err == http.ErrMissingFile:
			// image is optional
		case err != nil:
			return params, fmt.Errorf("%w: reading image: %v", common.ErrValidation, err)
		default:
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return params, fmt.Errorf("%w: reading image: %v", common.ErrInternal, err)
			}
			declared := header.Header.Get("Content-Type")
			if declared == "" {
				declared = "application/octet-stream"
			}
			params.Image = &services.Upload{
				Field:       "box_image",
				ContentType: declared,
				Data:        data,
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return params, fmt.Errorf("%w: invalid form body", common.ErrValidation)
		}
	}

	params.OwnerID = strings.TrimSpace(r.FormValue("owner_id"))
	params.X = r.FormValue("x")
	params.Y = r.FormValue("y")
	params.LocationCity = r.FormValue("location_city")

	return params, nil
}
