package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/models"
)

// SearchCriteria is the caller-supplied filter for listing queries. Nil
// boolean filters accept either value.
type SearchCriteria struct {
	SearchTerm string
	Type       string // "sale", "rent" or "all"
	Offer      *bool
	Parking    *bool
	Furnished  *bool
	Sort       string // "createdAt" or "regularPrice"
	Order      string // "asc" or "desc"
	Limit      int
	StartIndex int
}

// ListingServiceProvider defines the interface for listing services.
type ListingServiceProvider interface {
	CreateListing(ownerID string, listing models.Listing) (models.Listing, error)
	GetListingByID(id string) (models.Listing, error)
	UpdateListing(id, callerID string, patch models.ListingPatch) (models.Listing, error)
	DeleteListing(id, callerID string) error
	SearchListings(criteria SearchCriteria) ([]models.Listing, error)
	GetListingsByOwner(ownerID string) ([]models.Listing, error)
}

// ListingService provides business logic for property listings.
type ListingService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewListingService creates a new ListingService.
func NewListingService(db *sql.DB, events EventServiceProvider) *ListingService {
	return &ListingService{db: db, events: events}
}

const listingColumns = `id, name, description, address, type, bedrooms, bathrooms,
	regular_price, discount_price, offer, parking, furnished, image_urls_json,
	user_ref, created_at, updated_at`

func scanListing(scanner interface{ Scan(...any) error }) (models.Listing, error) {
	var l models.Listing
	var imagesJSON string
	err := scanner.Scan(
		&l.ID, &l.Name, &l.Description, &l.Address, &l.Type, &l.Bedrooms, &l.Bathrooms,
		&l.RegularPrice, &l.DiscountPrice, &l.Offer, &l.Parking, &l.Furnished, &imagesJSON,
		&l.UserRef, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal([]byte(imagesJSON), &l.ImageURLs); err != nil {
		return l, fmt.Errorf("decode image urls for listing %s: %w", l.ID, err)
	}
	return l, nil
}

// CreateListing persists a new listing owned by the caller.
func (s *ListingService) CreateListing(ownerID string, listing models.Listing) (models.Listing, error) {
	listing.ID = uuid.New().String()
	listing.UserRef = ownerID
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := listing.Validate(); err != nil {
		return models.Listing{}, apperr.BadRequest(err.Error())
	}

	imagesJSON, err := json.Marshal(listing.ImageURLs)
	if err != nil {
		return models.Listing{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO listings(id, name, description, address, type, bedrooms, bathrooms,
			regular_price, discount_price, offer, parking, furnished, image_urls_json,
			user_ref, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID, listing.Name, listing.Description, listing.Address, listing.Type,
		listing.Bedrooms, listing.Bathrooms, listing.RegularPrice, listing.DiscountPrice,
		listing.Offer, listing.Parking, listing.Furnished, string(imagesJSON),
		listing.UserRef, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}

	s.recordEvent("listing.create", "Listing "+listing.Name+" created", &listing.ID)
	return listing, nil
}

// GetListingByID retrieves a single listing. Reads are public.
func (s *ListingService) GetListingByID(id string) (models.Listing, error) {
	row := s.db.QueryRow("SELECT "+listingColumns+" FROM listings WHERE id = ?", id)
	listing, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Listing{}, apperr.NotFound("Listing not found!")
		}
		return models.Listing{}, err
	}
	return listing, nil
}

// UpdateListing applies a partial update. The existence check runs before the
// ownership check, and only the owner may mutate the listing.
func (s *ListingService) UpdateListing(id, callerID string, patch models.ListingPatch) (models.Listing, error) {
	listing, err := s.GetListingByID(id)
	if err != nil {
		return models.Listing{}, err
	}
	if listing.UserRef != callerID {
		return models.Listing{}, apperr.Forbidden("You can only update your own listings!")
	}

	patch.Apply(&listing)
	listing.UpdatedAt = time.Now().UTC()

	if err := listing.Validate(); err != nil {
		return models.Listing{}, apperr.BadRequest(err.Error())
	}

	imagesJSON, err := json.Marshal(listing.ImageURLs)
	if err != nil {
		return models.Listing{}, err
	}

	_, err = s.db.Exec(`
		UPDATE listings SET name = ?, description = ?, address = ?, type = ?,
			bedrooms = ?, bathrooms = ?, regular_price = ?, discount_price = ?,
			offer = ?, parking = ?, furnished = ?, image_urls_json = ?, updated_at = ?
		WHERE id = ?`,
		listing.Name, listing.Description, listing.Address, listing.Type,
		listing.Bedrooms, listing.Bathrooms, listing.RegularPrice, listing.DiscountPrice,
		listing.Offer, listing.Parking, listing.Furnished, string(imagesJSON),
		listing.UpdatedAt, id,
	)
	if err != nil {
		return models.Listing{}, err
	}

	s.recordEvent("listing.update", "Listing "+listing.Name+" updated", &listing.ID)
	return listing, nil
}

// DeleteListing removes a listing. Only the owner may delete it.
func (s *ListingService) DeleteListing(id, callerID string) error {
	listing, err := s.GetListingByID(id)
	if err != nil {
		return err
	}
	if listing.UserRef != callerID {
		return apperr.Forbidden("You can only delete your own listings!")
	}

	if _, err := s.db.Exec("DELETE FROM listings WHERE id = ?", id); err != nil {
		return err
	}

	s.recordEvent("listing.delete", "Listing "+listing.Name+" deleted", &listing.ID)
	return nil
}

// recordEvent writes an activity event. Event persistence is best-effort and
// never fails the operation that triggered it.
func (s *ListingService) recordEvent(eventType, message string, listingID *string) {
	if err := s.events.CreateEvent(eventType, "info", message, listingID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record activity event")
	}
}

// sortColumns whitelists the fields a caller may sort on.
var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"regularPrice": "regular_price",
}

// SearchListings filters, sorts and paginates listings. No tie-break is
// applied when sort keys are equal.
func (s *ListingService) SearchListings(criteria SearchCriteria) ([]models.Listing, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + listingColumns + " FROM listings WHERE name LIKE ? ESCAPE '\\'")
	args := []any{"%" + escapeLike(criteria.SearchTerm) + "%"}

	switch criteria.Type {
	case models.ListingTypeSale, models.ListingTypeRent:
		sb.WriteString(" AND type = ?")
		args = append(args, criteria.Type)
	default:
		// "all", empty, or anything else accepts both types
	}

	for _, f := range []struct {
		column string
		value  *bool
	}{
		{"offer", criteria.Offer},
		{"parking", criteria.Parking},
		{"furnished", criteria.Furnished},
	} {
		if f.value != nil {
			sb.WriteString(" AND " + f.column + " = ?")
			args = append(args, *f.value)
		}
	}

	column, ok := sortColumns[criteria.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(criteria.Order, "asc") {
		direction = "ASC"
	}
	sb.WriteString(" ORDER BY " + column + " " + direction)

	limit := criteria.Limit
	if limit <= 0 {
		limit = 9
	}
	startIndex := criteria.StartIndex
	if startIndex < 0 {
		startIndex = 0
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, startIndex)

	return s.queryListings(sb.String(), args...)
}

// GetListingsByOwner returns every listing owned by the given user.
func (s *ListingService) GetListingsByOwner(ownerID string) ([]models.Listing, error) {
	return s.queryListings(
		"SELECT "+listingColumns+" FROM listings WHERE user_ref = ? ORDER BY created_at DESC",
		ownerID,
	)
}

func (s *ListingService) queryListings(query string, args ...any) ([]models.Listing, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in caller-supplied search terms.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(term)
}
