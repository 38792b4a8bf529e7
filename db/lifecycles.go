// ABOUTME: Lifecycle database operations with position management
// ABOUTME: Handles CRUD, reordering, and dense-position self-healing
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

func CreateLifecycle(db *sql.DB, lifecycle *models.Lifecycle) error {
	lifecycle.ID = uuid.New()
	now := time.Now()
	lifecycle.CreatedAt = now
	lifecycle.UpdatedAt = now

	// New lifecycles go to the end of the scan's ordering
	var maxPos sql.NullInt64
	err := db.QueryRow(`SELECT MAX(position) FROM lifecycles WHERE scan_id = ?`, lifecycle.ScanID.String()).Scan(&maxPos)
	if err != nil {
		return err
	}
	if maxPos.Valid {
		lifecycle.Position = int(maxPos.Int64) + 1
	} else {
		lifecycle.Position = 0
	}

	processes, err := json.Marshal(lifecycle.Processes)
	if err != nil {
		return fmt.Errorf("failed to encode processes: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO lifecycles (id, scan_id, name, description, position, processes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lifecycle.ID.String(), lifecycle.ScanID.String(), lifecycle.Name, lifecycle.Description, lifecycle.Position, string(processes), lifecycle.CreatedAt, lifecycle.UpdatedAt)

	return err
}

func GetLifecycle(db *sql.DB, id uuid.UUID) (*models.Lifecycle, error) {
	row := db.QueryRow(`
		SELECT id, scan_id, name, description, position, processes, created_at, updated_at
		FROM lifecycles WHERE id = ?
	`, id.String())

	lifecycle, err := scanLifecycle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lifecycle, nil
}

func scanLifecycle(scan func(...interface{}) error) (*models.Lifecycle, error) {
	lifecycle := &models.Lifecycle{}
	var processes string

	err := scan(
		&lifecycle.ID,
		&lifecycle.ScanID,
		&lifecycle.Name,
		&lifecycle.Description,
		&lifecycle.Position,
		&processes,
		&lifecycle.CreatedAt,
		&lifecycle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(processes), &lifecycle.Processes); err != nil {
		return nil, fmt.Errorf("failed to decode processes: %w", err)
	}
	return lifecycle, nil
}

// ListLifecycles returns a scan's lifecycles in display order. Position
// values must be unique and dense; gaps left by out-of-band deletions are
// repaired by reindexing in creation order and best-effort persisting the fix.
func ListLifecycles(db *sql.DB, scanID uuid.UUID) ([]models.Lifecycle, error) {
	rows, err := db.Query(`
		SELECT id, scan_id, name, description, position, processes, created_at, updated_at
		FROM lifecycles
		WHERE scan_id = ?
		ORDER BY position, created_at
	`, scanID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lifecycles []models.Lifecycle
	for rows.Next() {
		lifecycle, err := scanLifecycle(rows.Scan)
		if err != nil {
			return nil, err
		}
		lifecycles = append(lifecycles, *lifecycle)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if repairPositions(lifecycles) {
		for i := range lifecycles {
			// Best effort: display order is already correct in memory
			_, _ = db.Exec(`UPDATE lifecycles SET position = ? WHERE id = ?`,
				lifecycles[i].Position, lifecycles[i].ID.String())
		}
	}

	return lifecycles, nil
}

// repairPositions reassigns dense indices to an already-sorted slice and
// reports whether anything changed.
func repairPositions(lifecycles []models.Lifecycle) bool {
	changed := false
	for i := range lifecycles {
		if lifecycles[i].Position != i {
			lifecycles[i].Position = i
			changed = true
		}
	}
	return changed
}

func UpdateLifecycle(db *sql.DB, id uuid.UUID, updates *models.Lifecycle) error {
	updates.UpdatedAt = time.Now()

	processes, err := json.Marshal(updates.Processes)
	if err != nil {
		return fmt.Errorf("failed to encode processes: %w", err)
	}

	_, err = db.Exec(`
		UPDATE lifecycles
		SET name = ?, description = ?, processes = ?, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.Description, string(processes), updates.UpdatedAt, id.String())

	return err
}

// ReorderLifecycles applies a new display order. orderedIDs must contain
// every lifecycle of the scan exactly once.
func ReorderLifecycles(db *sql.DB, scanID uuid.UUID, orderedIDs []uuid.UUID) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM lifecycles WHERE scan_id = ?`, scanID.String()).Scan(&count); err != nil {
		return err
	}
	if count != len(orderedIDs) {
		return fmt.Errorf("reorder requires all %d lifecycles, got %d", count, len(orderedIDs))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for i, id := range orderedIDs {
		res, err := tx.Exec(`
			UPDATE lifecycles SET position = ?, updated_at = ? WHERE id = ? AND scan_id = ?
		`, i, now, id.String(), scanID.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("lifecycle %s not found in scan", id)
		}
	}

	return tx.Commit()
}

func DeleteLifecycle(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM lifecycles WHERE id = ?`, id.String())
	return err
}
