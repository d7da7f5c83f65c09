package http

import (
	"errors"
	"net/http"

	"luct/reporting/internal/identity"
	"luct/reporting/internal/metrics"
	"luct/reporting/internal/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type registerResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	Message  string     `json:"message"`
	Token    string     `json:"token,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	Token    string     `json:"token"`
}

type userSummary struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
}

// credentialName accepts the legacy email field as an alias for username.
func credentialName(username, email string) string {
	if username != "" {
		return username
	}
	return email
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.RecordAuthAttempt("register", "invalid_request")
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := s.identity.Register(r.Context(), identity.RegisterInput{
		Username: credentialName(req.Username, req.Email),
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		code := s.writeIdentityError(w, r, err)
		metrics.RecordAuthAttempt("register", code)
		return
	}
	metrics.RecordAuthAttempt("register", "success")

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:       result.User.ID,
		Username: result.User.Username,
		Role:     result.User.Role,
		Message:  "User registered successfully",
		Token:    result.Token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.RecordAuthAttempt("login", "invalid_request")
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := s.identity.Login(r.Context(), credentialName(req.Username, req.Email), req.Password)
	if err != nil {
		code := s.writeIdentityError(w, r, err)
		metrics.RecordAuthAttempt("login", code)
		return
	}
	metrics.RecordAuthAttempt("login", "success")

	writeJSON(w, http.StatusOK, loginResponse{
		ID:       result.User.ID,
		Username: result.User.Username,
		FullName: result.User.FullName,
		Role:     result.User.Role,
		Token:    result.Token,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	user, err := s.identity.Me(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		s.serverError(w, r, "load current user", err)
		return
	}
	writeJSON(w, http.StatusOK, userSummary{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

// writeIdentityError maps identity failures onto response codes and returns
// the code written.
func (s *Server) writeIdentityError(w http.ResponseWriter, r *http.Request, err error) string {
	switch {
	case errors.Is(err, identity.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "missing_fields")
		return "missing_fields"
	case errors.Is(err, identity.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "password_too_long")
		return "password_too_long"
	case errors.Is(err, identity.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "already_exists")
		return "already_exists"
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return "invalid_credentials"
	default:
		s.serverError(w, r, "identity request failed", err)
		return "server_error"
	}
}
