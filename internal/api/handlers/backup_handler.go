package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/services"
)

// BackupHandler handles HTTP requests for database backups.
type BackupHandler struct {
	service services.BackupServiceProvider
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(service services.BackupServiceProvider) *BackupHandler {
	return &BackupHandler{service: service}
}

// Create triggers an on-demand backup.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		payload.Name = "Manual Backup"
	}

	backup, err := h.service.CreateBackup(r.Context(), payload.Name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create backup")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, backup)
}

// GetAll lists recorded backups.
func (h *BackupHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	backups, err := h.service.GetBackups()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list backups")
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, backups)
}

// Delete removes a backup and its archive.
func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteBackup(id); err != nil {
		log.Error().Err(err).Str("backup_id", id).Msg("Failed to delete backup")
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
