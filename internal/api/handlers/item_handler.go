package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ItemHandler handles HTTP requests for item management.
type ItemHandler struct {
	service services.ItemServiceProvider
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service services.ItemServiceProvider) *ItemHandler {
	return &ItemHandler{service: service}
}

// CreateItemPayload defines the structure for item creation requests.
type CreateItemPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateItemPayload is the allow-listed update body. Fields left out of the
// request stay unchanged; any other field the caller sends is ignored.
type UpdateItemPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// List handles the paginated, searchable listing of the caller's items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	query := services.ItemQuery{
		Page:   parseIntParam(r, "page", 1),
		Limit:  parseIntParam(r, "limit", 5),
		Search: r.URL.Query().Get("search"),
	}

	page, err := h.service.ListItems(claims.UserID, query)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list items")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve items")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetAll handles the admin-only listing of the newest items across all owners.
func (h *ItemHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAllItems()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list all items")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Create handles item creation for the authenticated caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var payload CreateItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.CreateItem(claims.UserID, payload.Title, payload.Description)
	if err != nil {
		if errors.Is(err, models.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, "Title is required")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create item")
		writeError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Get handles retrieving a single caller-owned item.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.service.GetItem(id, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("item_id", id).Msg("Failed to get item")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Update handles the allow-listed update of a caller-owned item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var payload UpdateItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.service.UpdateItem(id, claims.UserID, services.ItemUpdate{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, models.ErrTitleRequired):
			writeError(w, http.StatusBadRequest, "Title is required")
		default:
			log.Error().Err(err).Str("item_id", id).Msg("Failed to update item")
			writeError(w, http.StatusInternalServerError, "Failed to update item")
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles the idempotent deletion of a caller-owned item. The response
// does not reveal whether a record actually matched.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteItem(id, claims.UserID); err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("Failed to delete item")
		writeError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// parseIntParam reads a positive integer query parameter, falling back to the
// default on missing, non-numeric, or non-positive values.
func parseIntParam(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
