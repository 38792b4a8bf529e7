// ABOUTME: Transcript persistence for interview recordings
// ABOUTME: Handles full-text save, load, and reset per lifecycle
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

// GetTranscription loads the lifecycle's transcript. No transcript yet
// returns ErrNotFound.
func GetTranscription(db *sql.DB, lifecycleID uuid.UUID) (*models.Transcription, error) {
	t := &models.Transcription{}
	err := db.QueryRow(`
		SELECT lifecycle_id, text, updated_at
		FROM transcriptions WHERE lifecycle_id = ?
	`, lifecycleID.String()).Scan(&t.LifecycleID, &t.Text, &t.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SaveTranscription replaces the full transcript text.
func SaveTranscription(db *sql.DB, t *models.Transcription) error {
	t.UpdatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO transcriptions (lifecycle_id, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(lifecycle_id) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at
	`, t.LifecycleID.String(), t.Text, t.UpdatedAt)

	return err
}

// DeleteTranscription clears a lifecycle's transcript without touching its
// pain points.
func DeleteTranscription(db *sql.DB, lifecycleID uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM transcriptions WHERE lifecycle_id = ?`, lifecycleID.String())
	return err
}
