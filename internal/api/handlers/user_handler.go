package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles admin-only HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RolePayload defines the structure for role update requests.
type RolePayload struct {
	Role models.Role `json:"role"`
}

// List handles the admin listing of users, optionally filtered by role. The
// password hash never reaches the payload.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.URL.Query().Get("role"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// UpdateRole handles an admin changing a user's role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var payload RolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	user, err := h.service.UpdateUserRole(id, payload.Role, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, models.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			log.Error().Err(err).Str("user_id", id).Msg("Failed to update user role")
			writeError(w, http.StatusInternalServerError, "Failed to update role")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}
