package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/models"
)

// EventServiceProvider defines the interface for activity-event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, listingID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// Notifier delivers an event payload to connected feed subscribers.
type Notifier interface {
	Publish(message []byte)
}

// EventService records activity events and pushes them to the live feed.
type EventService struct {
	db       *sql.DB
	notifier Notifier
}

// NewEventService creates a new EventService. notifier may be nil when no
// live feed is attached (tests).
func NewEventService(db *sql.DB, notifier Notifier) *EventService {
	return &EventService{db: db, notifier: notifier}
}

// CreateEvent logs a new event to the database and broadcasts it.
func (s *EventService) CreateEvent(eventType, level, message string, listingID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO events (id, type, level, message, listing_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.ListingID, event.CreatedAt,
	)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode event for broadcast")
			return nil
		}
		s.notifier.Publish(payload)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, listing_id, created_at FROM events ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.ListingID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
