// ABOUTME: Scan, stakeholder, and strategic objective database operations
// ABOUTME: Handles CRUD and workflow step tracking for scans
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

func CreateScan(db *sql.DB, scan *models.Scan) error {
	scan.ID = uuid.New()
	now := time.Now()
	scan.CreatedAt = now
	scan.UpdatedAt = now
	if scan.CurrentStep == "" {
		scan.CurrentStep = models.StepCompanyDetails
	}

	_, err := db.Exec(`
		INSERT INTO scans (id, workspace_id, name, company_name, description, current_step, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, scan.ID.String(), scan.WorkspaceID.String(), scan.Name, scan.CompanyName, scan.Description, scan.CurrentStep, scan.CreatedAt, scan.UpdatedAt)

	return err
}

func GetScan(db *sql.DB, id uuid.UUID) (*models.Scan, error) {
	scan := &models.Scan{}
	err := db.QueryRow(`
		SELECT id, workspace_id, name, company_name, description, current_step, created_at, updated_at
		FROM scans WHERE id = ?
	`, id.String()).Scan(
		&scan.ID,
		&scan.WorkspaceID,
		&scan.Name,
		&scan.CompanyName,
		&scan.Description,
		&scan.CurrentStep,
		&scan.CreatedAt,
		&scan.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return scan, nil
}

func ListScans(db *sql.DB, workspaceID uuid.UUID) ([]models.Scan, error) {
	rows, err := db.Query(`
		SELECT id, workspace_id, name, company_name, description, current_step, created_at, updated_at
		FROM scans
		WHERE workspace_id = ?
		ORDER BY created_at DESC
	`, workspaceID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []models.Scan
	for rows.Next() {
		var s models.Scan
		if err := rows.Scan(&s.ID, &s.WorkspaceID, &s.Name, &s.CompanyName, &s.Description, &s.CurrentStep, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

func UpdateScan(db *sql.DB, id uuid.UUID, updates *models.Scan) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE scans
		SET name = ?, company_name = ?, description = ?, current_step = ?, updated_at = ?
		WHERE id = ?
	`, updates.Name, updates.CompanyName, updates.Description, updates.CurrentStep, updates.UpdatedAt, id.String())

	return err
}

func DeleteScan(db *sql.DB, id uuid.UUID) error {
	// Lifecycles, documents, stakeholders, objectives, summaries, and
	// transcriptions all cascade from the scan row.
	_, err := db.Exec(`DELETE FROM scans WHERE id = ?`, id.String())
	return err
}

func CreateStakeholder(db *sql.DB, stakeholder *models.Stakeholder) error {
	stakeholder.ID = uuid.New()
	now := time.Now()
	stakeholder.CreatedAt = now
	stakeholder.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO stakeholders (id, scan_id, name, role, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stakeholder.ID.String(), stakeholder.ScanID.String(), stakeholder.Name, stakeholder.Role, stakeholder.Email, stakeholder.CreatedAt, stakeholder.UpdatedAt)

	return err
}

func ListStakeholders(db *sql.DB, scanID uuid.UUID) ([]models.Stakeholder, error) {
	rows, err := db.Query(`
		SELECT id, scan_id, name, role, email, created_at, updated_at
		FROM stakeholders
		WHERE scan_id = ?
		ORDER BY created_at
	`, scanID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stakeholders []models.Stakeholder
	for rows.Next() {
		var s models.Stakeholder
		if err := rows.Scan(&s.ID, &s.ScanID, &s.Name, &s.Role, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stakeholders = append(stakeholders, s)
	}
	return stakeholders, rows.Err()
}

func UpdateStakeholder(db *sql.DB, id uuid.UUID, updates *models.Stakeholder) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE stakeholders SET name = ?, role = ?, email = ?, updated_at = ? WHERE id = ?
	`, updates.Name, updates.Role, updates.Email, updates.UpdatedAt, id.String())

	return err
}

func DeleteStakeholder(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM stakeholders WHERE id = ?`, id.String())
	return err
}

func CreateObjective(db *sql.DB, objective *models.StrategicObjective) error {
	objective.ID = uuid.New()
	objective.CreatedAt = time.Now()
	if objective.Key == "" {
		objective.Key = models.ObjectiveKey(objective.Name)
	}

	_, err := db.Exec(`
		INSERT INTO strategic_objectives (id, scan_id, name, key, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, objective.ID.String(), objective.ScanID.String(), objective.Name, objective.Key, objective.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create objective: %w", err)
	}
	return nil
}

func ListObjectives(db *sql.DB, scanID uuid.UUID) ([]models.StrategicObjective, error) {
	rows, err := db.Query(`
		SELECT id, scan_id, name, key, created_at
		FROM strategic_objectives
		WHERE scan_id = ?
		ORDER BY created_at
	`, scanID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objectives []models.StrategicObjective
	for rows.Next() {
		var o models.StrategicObjective
		if err := rows.Scan(&o.ID, &o.ScanID, &o.Name, &o.Key, &o.CreatedAt); err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

func DeleteObjective(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM strategic_objectives WHERE id = ?`, id.String())
	return err
}
