// ABOUTME: Registration, login, and identity resolution handlers
// ABOUTME: Translates credential verification outcomes into the transport error taxonomy

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/relaylabs/taskdock/internal/auth"
	"github.com/relaylabs/taskdock/internal/store"
)

// emailPattern is a plausibility check, not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// minPasswordLength is the shortest password accepted at registration.
const minPasswordLength = 6

// RegisterRequest is the JSON request body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the JSON response for successful register/login.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the JSON shape of a user's public fields. The password
// hash has no field here and can never be serialized.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func userToResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleRegister handles POST /api/auth/register requests.
// Creates the account, hashes the password, and issues a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !emailPattern.MatchString(store.NormalizeEmail(req.Email)) {
		s.sendJSONError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		s.sendJSONError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.sendJSONError(w, http.StatusBadRequest, "email already registered")
			return
		}
		s.logger.Error("creating user", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("issuing token", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

// handleLogin handles POST /api/auth/login requests.
//
// Unknown email and wrong password produce the same response, and the
// unknown-email path still burns a bcrypt comparison so the two failures
// take comparable time.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.DummyCheck(req.Password)
			s.sendJSONError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.logger.Error("looking up user", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("issuing token", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	s.writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// handleMe handles GET /api/auth/me requests.
// Returns the authenticated user's public fields.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	user, err := s.store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Valid token for a user that no longer exists
			s.sendJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error("looking up user", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, userToResponse(user))
}
