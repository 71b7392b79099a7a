// ABOUTME: Profile read/update handlers for the authenticated user
// ABOUTME: Only name and email are mutable; absent fields are left unchanged

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/relaylabs/taskdock/internal/auth"
	"github.com/relaylabs/taskdock/internal/store"
)

// UpdateProfileRequest is the JSON request body for PUT /api/user/profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// handleGetProfile handles GET /api/user/profile requests.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.handleMe(w, r)
}

// handleUpdateProfile handles PUT /api/user/profile requests.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			s.sendJSONError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		req.Name = &trimmed
	}
	if req.Email != nil && !emailPattern.MatchString(store.NormalizeEmail(*req.Email)) {
		s.sendJSONError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := s.store.UpdateUser(r.Context(), identity.UserID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			s.sendJSONError(w, http.StatusBadRequest, "email already registered")
		case errors.Is(err, store.ErrNotFound):
			s.sendJSONError(w, http.StatusUnauthorized, "unauthorized")
		default:
			s.logger.Error("updating profile", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.logger.Info("profile updated", "user_id", user.ID)
	s.writeJSON(w, http.StatusOK, userToResponse(user))
}
