package services

import (
	"archive/zip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/models"
	"github.com/solervi/homehaven-be/internal/storage"
)

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	CreateBackup(ctx context.Context, name string) (models.Backup, error)
	GetBackups() ([]models.Backup, error)
	DeleteBackup(backupID string) error
}

// BackupService archives the database file and records the result. When an
// object store is attached the archive is also uploaded off-host.
type BackupService struct {
	db           *sql.DB
	databasePath string
	backupPath   string
	store        storage.Service // nil when no bucket is configured
}

// NewBackupService creates a new BackupService.
func NewBackupService(db *sql.DB, databasePath, backupPath string, store storage.Service) *BackupService {
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		log.Error().Err(err).Str("path", backupPath).Msg("Failed to create backup directory")
	}
	return &BackupService{
		db:           db,
		databasePath: databasePath,
		backupPath:   backupPath,
		store:        store,
	}
}

// CreateBackup zips the database file, persists a backup row, and uploads the
// archive when an object store is configured.
func (s *BackupService) CreateBackup(ctx context.Context, name string) (models.Backup, error) {
	// Flush WAL pages into the main database file before copying it.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		log.Warn().Err(err).Msg("WAL checkpoint before backup failed")
	}

	backup := models.Backup{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	backupFileName := fmt.Sprintf("homehaven_%s.zip", backup.CreatedAt.Format("20060102150405"))
	backup.Path = filepath.Join(s.backupPath, backupFileName)

	if err := zipFile(s.databasePath, backup.Path); err != nil {
		os.Remove(backup.Path) // Clean up partial file
		return models.Backup{}, fmt.Errorf("failed to archive database: %w", err)
	}

	fi, err := os.Stat(backup.Path)
	if err != nil {
		return models.Backup{}, fmt.Errorf("could not get backup file info: %w", err)
	}
	backup.Size = fi.Size()

	if s.store != nil {
		url, err := s.store.UploadFile(ctx, backup.Path, path.Join("backups", backupFileName))
		if err != nil {
			log.Error().Err(err).Str("backup_id", backup.ID).Msg("Failed to upload backup archive")
		} else {
			backup.RemoteURL = url
		}
	}

	_, err = s.db.Exec(
		"INSERT INTO backups (id, name, path, size, remote_url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		backup.ID, backup.Name, backup.Path, backup.Size, backup.RemoteURL, backup.CreatedAt,
	)
	if err != nil {
		return models.Backup{}, err
	}

	log.Info().Str("backup_id", backup.ID).Int64("size", backup.Size).Msg("Backup created")
	return backup, nil
}

// GetBackups lists all recorded backups, newest first.
func (s *BackupService) GetBackups() ([]models.Backup, error) {
	rows, err := s.db.Query("SELECT id, name, path, size, remote_url, created_at FROM backups ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []models.Backup
	for rows.Next() {
		var b models.Backup
		var remoteURL sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Path, &b.Size, &remoteURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.RemoteURL = remoteURL.String
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// DeleteBackup removes a backup record and its archive file.
func (s *BackupService) DeleteBackup(backupID string) error {
	var backupPath string
	err := s.db.QueryRow("SELECT path FROM backups WHERE id = ?", backupID).Scan(&backupPath)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Backup not found!")
		}
		return err
	}

	if err := os.Remove(backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove backup file: %w", err)
	}

	_, err = s.db.Exec("DELETE FROM backups WHERE id = ?", backupID)
	return err
}

func zipFile(srcPath, destPath string) error {
	destFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer destFile.Close()

	zipWriter := zip.NewWriter(destFile)
	defer zipWriter.Close()

	writer, err := zipWriter.Create(filepath.Base(srcPath))
	if err != nil {
		return err
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if _, err := io.Copy(writer, srcFile); err != nil {
		return err
	}
	return zipWriter.Close()
}
