// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tenants_slug ON tenants(slug);

CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (tenant_id) REFERENCES tenants(id)
);

CREATE INDEX IF NOT EXISTS idx_workspaces_tenant_id ON workspaces(tenant_id);

CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	name TEXT NOT NULL,
	company_name TEXT,
	description TEXT,
	current_step TEXT NOT NULL DEFAULT 'company_details',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (workspace_id) REFERENCES workspaces(id)
);

CREATE INDEX IF NOT EXISTS idx_scans_workspace_id ON scans(workspace_id);

CREATE TABLE IF NOT EXISTS stakeholders (
	id TEXT PRIMARY KEY,
	scan_id TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT,
	email TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_stakeholders_scan_id ON stakeholders(scan_id);

CREATE TABLE IF NOT EXISTS strategic_objectives (
	id TEXT PRIMARY KEY,
	scan_id TEXT NOT NULL,
	name TEXT NOT NULL,
	key TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE(scan_id, key),
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_objectives_scan_id ON strategic_objectives(scan_id);

CREATE TABLE IF NOT EXISTS lifecycles (
	id TEXT PRIMARY KEY,
	scan_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	position INTEGER NOT NULL,
	processes TEXT NOT NULL DEFAULT '{"process_categories":[]}',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_lifecycles_scan_id ON lifecycles(scan_id);
CREATE INDEX IF NOT EXISTS idx_lifecycles_position ON lifecycles(scan_id, position);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	scan_id TEXT NOT NULL,
	document_type TEXT NOT NULL,
	file_name TEXT,
	file_url TEXT,
	file_size INTEGER,
	status TEXT NOT NULL DEFAULT 'placeholder' CHECK(status IN ('placeholder', 'uploaded', 'processed', 'failed')),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE(scan_id, document_type),
	FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_scan_id ON documents(scan_id);

CREATE TABLE IF NOT EXISTS pain_point_summaries (
	lifecycle_id TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	overall_summary TEXT NOT NULL DEFAULT '',
	pain_points TEXT NOT NULL DEFAULT '[]',
	version INTEGER NOT NULL DEFAULT 1,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (lifecycle_id) REFERENCES lifecycles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transcriptions (
	lifecycle_id TEXT PRIMARY KEY,
	text TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (lifecycle_id) REFERENCES lifecycles(id) ON DELETE CASCADE
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
