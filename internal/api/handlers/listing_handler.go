package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/auth"
	"github.com/solervi/homehaven-be/internal/models"
	"github.com/solervi/homehaven-be/internal/observability/metrics"
	"github.com/solervi/homehaven-be/internal/services"
)

// ListingHandler handles HTTP requests for property listings.
type ListingHandler struct {
	service services.ListingServiceProvider
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service services.ListingServiceProvider) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create handles the request to create a new listing owned by the caller.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.Write(w, apperr.Unauthorized("Unauthorized"))
		return
	}

	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	created, err := h.service.CreateListing(callerID, listing)
	if err != nil {
		log.Warn().Err(err).Str("user_id", callerID).Msg("Failed to create listing")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a listing the caller owns.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.Write(w, apperr.Unauthorized("Unauthorized"))
		return
	}
	id := chi.URLParam(r, "id")

	var patch models.ListingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	updated, err := h.service.UpdateListing(id, callerID, patch)
	if err != nil {
		log.Warn().Err(err).Str("listing_id", id).Str("user_id", callerID).Msg("Failed to update listing")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a listing the caller owns.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.Write(w, apperr.Unauthorized("Unauthorized"))
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteListing(id, callerID); err != nil {
		log.Warn().Err(err).Str("listing_id", id).Str("user_id", callerID).Msg("Failed to delete listing")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Listing has been deleted!"})
}

// Get fetches a single listing. Reads are public.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.service.GetListingByID(id)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// Search queries listings by the criteria carried in query parameters.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := services.SearchCriteria{
		SearchTerm: q.Get("searchTerm"),
		Type:       q.Get("type"),
		Offer:      parseBoolFilter(q.Get("offer")),
		Parking:    parseBoolFilter(q.Get("parking")),
		Furnished:  parseBoolFilter(q.Get("furnished")),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		criteria.Limit = limit
	}
	if startIndex, err := strconv.Atoi(q.Get("startIndex")); err == nil {
		criteria.StartIndex = startIndex
	}

	metrics.ObserveListingSearch()
	listings, err := h.service.SearchListings(criteria)
	if err != nil {
		log.Error().Err(err).Msg("Listing search failed")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// parseBoolFilter maps a tri-state query parameter to a filter. Anything but
// an explicit "true" accepts both values, matching the search form's
// unchecked-checkbox behavior.
func parseBoolFilter(value string) *bool {
	if value == "true" {
		t := true
		return &t
	}
	return nil
}
