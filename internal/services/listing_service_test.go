package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/models"
)

func newListingService(t *testing.T) (*ListingService, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewListingService(db, NewEventService(db, nil)), db
}

func validListing(name string) models.Listing {
	return models.Listing{
		Name:         name,
		Description:  "A lovely place",
		Address:      "1 Main St",
		Type:         models.ListingTypeRent,
		Bedrooms:     2,
		Bathrooms:    1,
		RegularPrice: 1500,
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
	}
}

// seed creates a listing and pins its creation time so ordering tests are
// deterministic.
func seed(t *testing.T, svc *ListingService, db *sql.DB, owner string, l models.Listing, createdAt time.Time) models.Listing {
	t.Helper()
	created, err := svc.CreateListing(owner, l)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE listings SET created_at = ? WHERE id = ?", createdAt.UTC(), created.ID)
	require.NoError(t, err)
	created.CreatedAt = createdAt.UTC()
	return created
}

func TestCreateAndGetListing(t *testing.T) {
	svc, _ := newListingService(t)

	created, err := svc.CreateListing("owner-1", validListing("Sunny Flat"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.UserRef)

	got, err := svc.GetListingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"https://img.example.com/1.jpg"}, got.ImageURLs)

	_, err = svc.GetListingByID("missing")
	assert.True(t, apperr.Is(err, 404))
}

func TestCreateListingValidation(t *testing.T) {
	svc, _ := newListingService(t)

	bad := validListing("No Images")
	bad.ImageURLs = nil
	_, err := svc.CreateListing("owner-1", bad)
	assert.True(t, apperr.Is(err, 400))

	bad = validListing("Too Many Images")
	bad.ImageURLs = make([]string, 7)
	_, err = svc.CreateListing("owner-1", bad)
	assert.True(t, apperr.Is(err, 400))

	bad = validListing("Bad Discount")
	bad.Offer = true
	bad.DiscountPrice = bad.RegularPrice
	_, err = svc.CreateListing("owner-1", bad)
	assert.True(t, apperr.Is(err, 400))

	bad = validListing("Bad Type")
	bad.Type = "lease"
	_, err = svc.CreateListing("owner-1", bad)
	assert.True(t, apperr.Is(err, 400))
}

func TestUpdateListingOwnership(t *testing.T) {
	svc, _ := newListingService(t)

	created, err := svc.CreateListing("owner-a", validListing("Cottage"))
	require.NoError(t, err)

	newName := "Renovated Cottage"

	// Non-owner is Forbidden even though the listing exists
	_, err = svc.UpdateListing(created.ID, "owner-b", models.ListingPatch{Name: &newName})
	assert.True(t, apperr.Is(err, 403), "expected Forbidden, got %v", err)

	// Missing listing is NotFound, checked before ownership
	_, err = svc.UpdateListing("missing", "owner-b", models.ListingPatch{Name: &newName})
	assert.True(t, apperr.Is(err, 404), "expected NotFound, got %v", err)

	// Owner succeeds; untouched fields survive the patch
	updated, err := svc.UpdateListing(created.ID, "owner-a", models.ListingPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renovated Cottage", updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.ImageURLs, updated.ImageURLs)
}

func TestDeleteListingOwnership(t *testing.T) {
	svc, _ := newListingService(t)

	created, err := svc.CreateListing("owner-a", validListing("Bungalow"))
	require.NoError(t, err)

	err = svc.DeleteListing(created.ID, "owner-b")
	assert.True(t, apperr.Is(err, 403))

	err = svc.DeleteListing("missing", "owner-a")
	assert.True(t, apperr.Is(err, 404))

	require.NoError(t, svc.DeleteListing(created.ID, "owner-a"))
	_, err = svc.GetListingByID(created.ID)
	assert.True(t, apperr.Is(err, 404))
}

func TestSearchBooleanFilters(t *testing.T) {
	svc, db := newListingService(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	withOffer := validListing("With Offer")
	withOffer.Offer = true
	withOffer.DiscountPrice = 1000
	seed(t, svc, db, "o", withOffer, base)
	seed(t, svc, db, "o", validListing("Without Offer"), base.Add(time.Hour))

	// Unset filter matches both values
	results, err := svc.SearchListings(SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// offer=true narrows to offer listings only
	yes := true
	results, err = svc.SearchListings(SearchCriteria{Offer: &yes})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "With Offer", results[0].Name)
}

func TestSearchTypeAndTerm(t *testing.T) {
	svc, db := newListingService(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sale := validListing("Seaside Villa")
	sale.Type = models.ListingTypeSale
	seed(t, svc, db, "o", sale, base)
	seed(t, svc, db, "o", validListing("City Apartment"), base.Add(time.Hour))

	// Type filter
	results, err := svc.SearchListings(SearchCriteria{Type: models.ListingTypeSale})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Seaside Villa", results[0].Name)

	// "all" accepts both
	results, err = svc.SearchListings(SearchCriteria{Type: "all"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Substring match is case-insensitive
	results, err = svc.SearchListings(SearchCriteria{SearchTerm: "seaside"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Seaside Villa", results[0].Name)

	// LIKE wildcards in the term are literal
	results, err = svc.SearchListings(SearchCriteria{SearchTerm: "%"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSortAndPagination(t *testing.T) {
	svc, db := newListingService(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		l := validListing(fmt.Sprintf("Listing %d", i))
		l.RegularPrice = int64(1000 + i*100)
		seed(t, svc, db, "o", l, base.Add(time.Duration(i)*time.Hour))
	}

	// Default order: creation time, descending
	results, err := svc.SearchListings(SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "Listing 4", results[0].Name)
	assert.Equal(t, "Listing 0", results[4].Name)

	// limit=2&startIndex=2 returns positions [2,3] of the ordered set
	results, err = svc.SearchListings(SearchCriteria{Limit: 2, StartIndex: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Listing 2", results[0].Name)
	assert.Equal(t, "Listing 1", results[1].Name)

	// Price ascending
	results, err = svc.SearchListings(SearchCriteria{Sort: "regularPrice", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "Listing 0", results[0].Name)
	assert.Equal(t, "Listing 4", results[4].Name)
}

func TestSearchDefaultLimit(t *testing.T) {
	svc, db := newListingService(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seed(t, svc, db, "o", validListing(fmt.Sprintf("Listing %d", i)), base.Add(time.Duration(i)*time.Minute))
	}

	results, err := svc.SearchListings(SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, results, 9)
}

func TestGetListingsByOwner(t *testing.T) {
	svc, db := newListingService(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seed(t, svc, db, "owner-a", validListing("A1"), base)
	seed(t, svc, db, "owner-a", validListing("A2"), base.Add(time.Hour))
	seed(t, svc, db, "owner-b", validListing("B1"), base.Add(2*time.Hour))

	listings, err := svc.GetListingsByOwner("owner-a")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	for _, l := range listings {
		assert.Equal(t, "owner-a", l.UserRef)
	}

	listings, err = svc.GetListingsByOwner("owner-c")
	require.NoError(t, err)
	assert.Empty(t, listings)
}
