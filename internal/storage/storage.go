package storage

import (
	"context"
	"time"
)

// PresignedUpload is handed to the client so it can PUT an image directly to
// object storage; only PublicURL ends up in the database.
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service abstracts the object store for image uploads and backup archives.
type Service interface {
	PresignImageUpload(ctx context.Context, filename, contentType string) (PresignedUpload, error)
	UploadFile(ctx context.Context, localPath, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
