// ABOUTME: Pain-point summary persistence with versioned full-replace writes
// ABOUTME: Handles load, compare-and-swap save, and dangling-group reconciliation
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/orahq/orascan/models"
)

// GetSummary loads the lifecycle's summary. A lifecycle with no summary yet
// returns ErrNotFound; callers map that to an empty summary, not a failure.
func GetSummary(db *sql.DB, lifecycleID uuid.UUID) (*models.PainPointSummary, error) {
	summary := &models.PainPointSummary{}
	var painPoints string

	err := db.QueryRow(`
		SELECT id, lifecycle_id, overall_summary, pain_points, version, updated_at
		FROM pain_point_summaries WHERE lifecycle_id = ?
	`, lifecycleID.String()).Scan(
		&summary.ID,
		&summary.LifecycleID,
		&summary.OverallSummary,
		&painPoints,
		&summary.Version,
		&summary.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(painPoints), &summary.PainPoints); err != nil {
		return nil, fmt.Errorf("failed to decode pain points: %w", err)
	}
	return summary, nil
}

// GetSummaryReconciled loads the summary and reassigns pain points whose
// assigned group no longer exists in the lifecycle's process tree to
// Unassigned. The reconciliation is persisted if anything changed.
func GetSummaryReconciled(db *sql.DB, lifecycle *models.Lifecycle) (*models.PainPointSummary, error) {
	summary, err := GetSummary(db, lifecycle.ID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range summary.PainPoints {
		group := summary.PainPoints[i].AssignedProcessGroup
		if group == models.UnassignedGroup {
			continue
		}
		if !lifecycle.HasProcessGroup(group) {
			summary.PainPoints[i].AssignedProcessGroup = models.UnassignedGroup
			changed = true
		}
	}

	if changed {
		if err := SaveSummary(db, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// SaveSummary replaces the whole summary. The caller must send the complete
// pain-point array; there is no partial patch. Version is checked with a
// compare-and-swap: a stale Version returns ErrConflict. Version 0 means
// "create or overwrite blind" and is reserved for first summarization.
func SaveSummary(db *sql.DB, summary *models.PainPointSummary) error {
	if summary.ID == "" {
		summary.ID = ulid.Make().String()
	}
	if summary.PainPoints == nil {
		summary.PainPoints = []models.PainPoint{}
	}
	summary.UpdatedAt = time.Now()

	painPoints, err := json.Marshal(summary.PainPoints)
	if err != nil {
		return fmt.Errorf("failed to encode pain points: %w", err)
	}

	if summary.Version == 0 {
		// Implicit creation on first summarization
		_, err := db.Exec(`
			INSERT INTO pain_point_summaries (lifecycle_id, id, overall_summary, pain_points, version, updated_at)
			VALUES (?, ?, ?, ?, 1, ?)
			ON CONFLICT(lifecycle_id) DO UPDATE SET
				overall_summary = excluded.overall_summary,
				pain_points = excluded.pain_points,
				version = pain_point_summaries.version + 1,
				updated_at = excluded.updated_at
		`, summary.LifecycleID.String(), summary.ID, summary.OverallSummary, string(painPoints), summary.UpdatedAt)
		if err != nil {
			return err
		}
		// On the overwrite branch the row keeps its original id
		return db.QueryRow(`SELECT id, version FROM pain_point_summaries WHERE lifecycle_id = ?`,
			summary.LifecycleID.String()).Scan(&summary.ID, &summary.Version)
	}

	res, err := db.Exec(`
		UPDATE pain_point_summaries
		SET overall_summary = ?, pain_points = ?, version = version + 1, updated_at = ?
		WHERE lifecycle_id = ? AND version = ?
	`, summary.OverallSummary, string(painPoints), summary.UpdatedAt, summary.LifecycleID.String(), summary.Version)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}

	summary.Version++
	return nil
}

func DeleteSummary(db *sql.DB, lifecycleID uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM pain_point_summaries WHERE lifecycle_id = ?`, lifecycleID.String())
	return err
}
