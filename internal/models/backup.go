package models

import "time"

// Backup represents an archived copy of the database.
type Backup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"-"` // Internal use, not exposed to client
	Size      int64     `json:"size"`
	RemoteURL string    `json:"remoteUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
