package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/auth"
	"github.com/solervi/homehaven-be/internal/models"
	"github.com/solervi/homehaven-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service      services.UserServiceProvider
	listings     services.ListingServiceProvider
	cookieSecure bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, listings services.ListingServiceProvider, cookieSecure bool) *UserHandler {
	return &UserHandler{service: service, listings: listings, cookieSecure: cookieSecure}
}

// requireSelf enforces that the authenticated caller targets their own
// account. Returns the caller's ID on success.
func requireSelf(w http.ResponseWriter, r *http.Request, message string) (string, bool) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.Write(w, apperr.Unauthorized("Unauthorized"))
		return "", false
	}
	if callerID != chi.URLParam(r, "id") {
		apperr.Write(w, apperr.Forbidden(message))
		return "", false
	}
	return callerID, true
}

// Update handles updating a user's own profile.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSelf(w, r, "You can only update your own account!")
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	user, err := h.service.UpdateUser(id, patch)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to update user")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of the caller's own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSelf(w, r, "You can only delete your own account!")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		apperr.Write(w, err)
		return
	}

	http.SetCookie(w, auth.ClearedSessionCookie(h.cookieSecure))
	writeJSON(w, http.StatusOK, map[string]string{"message": "User has been deleted!"})
}

// GetListings returns the caller's own listings.
func (h *UserHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSelf(w, r, "You can only view your own listings!")
	if !ok {
		return
	}

	listings, err := h.listings.GetListingsByOwner(id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to list user's listings")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// Get handles retrieving a user profile by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
