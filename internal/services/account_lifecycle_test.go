package services

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/database"
	"github.com/solervi/homehaven-be/internal/models"
)

// Runs against a file-backed database opened through database.New, the same
// path production takes, rather than the in-memory shortcut.
func TestDeleteUserKeepsListings(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	events := NewEventService(db, nil)
	users := NewUserService(db, events)
	listings := NewListingService(db, events)

	user, err := users.SignUp("hank", "hank@example.com", "Password123")
	require.NoError(t, err)

	created, err := listings.CreateListing(user.ID, validListing("Hanks House"))
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(user.ID))

	_, err = users.GetUserByID(user.ID)
	assert.True(t, apperr.Is(err, http.StatusNotFound))

	// The listing outlives the account and still names the old owner
	got, err := listings.GetListingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserRef)
}

func TestInsertUserMapsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewEventService(db, nil))

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     "ivy",
		Email:        "ivy@example.com",
		PasswordHash: "hash",
		Avatar:       models.DefaultAvatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, svc.insertUser(user))

	dup := user
	dup.ID = uuid.New().String()
	err := svc.insertUser(dup)
	assert.True(t, apperr.Is(err, http.StatusConflict), "got %v", err)
}

type failingEvents struct{}

func (failingEvents) CreateEvent(eventType, level, message string, listingID *string) error {
	return errors.New("event store unavailable")
}

func (failingEvents) GetRecentEvents(limit int) ([]models.Event, error) {
	return nil, errors.New("event store unavailable")
}

func TestOperationsSurviveEventLogFailure(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, failingEvents{})
	listings := NewListingService(db, failingEvents{})

	user, err := users.SignUp("jo", "jo@example.com", "Password123")
	require.NoError(t, err)

	created, err := listings.CreateListing(user.ID, validListing("Jos House"))
	require.NoError(t, err)

	_, err = listings.UpdateListing(created.ID, user.ID, models.ListingPatch{})
	require.NoError(t, err)
	require.NoError(t, listings.DeleteListing(created.ID, user.ID))
}
