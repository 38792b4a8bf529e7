// ABOUTME: Tenant and workspace database operations
// ABOUTME: Handles CRUD and slug-based tenant lookup
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

func CreateTenant(db *sql.DB, tenant *models.Tenant) error {
	tenant.ID = uuid.New()
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	if tenant.Slug == "" {
		tenant.Slug = slugify(tenant.Name)
	}

	_, err := db.Exec(`
		INSERT INTO tenants (id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, tenant.ID.String(), tenant.Name, tenant.Slug, tenant.CreatedAt, tenant.UpdatedAt)

	return err
}

func GetTenant(db *sql.DB, id uuid.UUID) (*models.Tenant, error) {
	return scanTenantRow(db.QueryRow(`
		SELECT id, name, slug, created_at, updated_at
		FROM tenants WHERE id = ?
	`, id.String()))
}

func GetTenantBySlug(db *sql.DB, slug string) (*models.Tenant, error) {
	return scanTenantRow(db.QueryRow(`
		SELECT id, name, slug, created_at, updated_at
		FROM tenants WHERE slug = ?
	`, slug))
}

func scanTenantRow(row *sql.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func ListTenants(db *sql.DB, limit int) ([]models.Tenant, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, name, slug, created_at, updated_at
		FROM tenants
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func UpdateTenant(db *sql.DB, id uuid.UUID, updates *models.Tenant) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE tenants SET name = ?, slug = ?, updated_at = ? WHERE id = ?
	`, updates.Name, updates.Slug, updates.UpdatedAt, id.String())

	return err
}

func DeleteTenant(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	// Remove the tenant's workspaces first; scans under them cascade
	rows, err := tx.Query(`SELECT id FROM workspaces WHERE tenant_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}
	var workspaceIDs []string
	for rows.Next() {
		var wid string
		if err := rows.Scan(&wid); err != nil {
			rows.Close()
			return err
		}
		workspaceIDs = append(workspaceIDs, wid)
	}
	rows.Close()

	for _, wid := range workspaceIDs {
		if _, err := tx.Exec(`DELETE FROM scans WHERE workspace_id = ?`, wid); err != nil {
			return fmt.Errorf("failed to delete scans: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM workspaces WHERE tenant_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete workspaces: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM tenants WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	return tx.Commit()
}

func CreateWorkspace(db *sql.DB, workspace *models.Workspace) error {
	workspace.ID = uuid.New()
	now := time.Now()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO workspaces (id, tenant_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, workspace.ID.String(), workspace.TenantID.String(), workspace.Name, workspace.Description, workspace.CreatedAt, workspace.UpdatedAt)

	return err
}

func GetWorkspace(db *sql.DB, id uuid.UUID) (*models.Workspace, error) {
	workspace := &models.Workspace{}
	err := db.QueryRow(`
		SELECT id, tenant_id, name, description, created_at, updated_at
		FROM workspaces WHERE id = ?
	`, id.String()).Scan(
		&workspace.ID,
		&workspace.TenantID,
		&workspace.Name,
		&workspace.Description,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return workspace, nil
}

func ListWorkspaces(db *sql.DB, tenantID uuid.UUID) ([]models.Workspace, error) {
	rows, err := db.Query(`
		SELECT id, tenant_id, name, description, created_at, updated_at
		FROM workspaces
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, tenantID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(&w.ID, &w.TenantID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

func UpdateWorkspace(db *sql.DB, id uuid.UUID, updates *models.Workspace) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE workspaces SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, updates.Name, updates.Description, updates.UpdatedAt, id.String())

	return err
}

func DeleteWorkspace(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM scans WHERE workspace_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM workspaces WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return tx.Commit()
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
