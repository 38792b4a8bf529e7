// ABOUTME: Document database operations
// ABOUTME: Handles per-type document slots, uploads, and status changes
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

func CreateDocument(db *sql.DB, doc *models.DocumentInfo) error {
	doc.ID = uuid.New()
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPlaceholder
	}

	_, err := db.Exec(`
		INSERT INTO documents (id, scan_id, document_type, file_name, file_url, file_size, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID.String(), doc.ScanID.String(), doc.DocumentType, doc.FileName, doc.FileURL, doc.FileSize, doc.Status, doc.CreatedAt, doc.UpdatedAt)

	return err
}

// EnsurePlaceholders creates a placeholder slot for every required type the
// scan does not yet have a document for.
func EnsurePlaceholders(db *sql.DB, scanID uuid.UUID) error {
	docs, err := ListDocuments(db, scanID)
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(docs))
	for i := range docs {
		have[docs[i].DocumentType] = true
	}

	for _, req := range models.RequiredDocumentTypes {
		if have[req] {
			continue
		}
		doc := &models.DocumentInfo{
			ScanID:       scanID,
			DocumentType: req,
			Status:       models.DocumentStatusPlaceholder,
		}
		if err := CreateDocument(db, doc); err != nil {
			return err
		}
	}
	return nil
}

func GetDocument(db *sql.DB, id uuid.UUID) (*models.DocumentInfo, error) {
	doc := &models.DocumentInfo{}
	err := db.QueryRow(`
		SELECT id, scan_id, document_type, file_name, file_url, file_size, status, created_at, updated_at
		FROM documents WHERE id = ?
	`, id.String()).Scan(
		&doc.ID,
		&doc.ScanID,
		&doc.DocumentType,
		&doc.FileName,
		&doc.FileURL,
		&doc.FileSize,
		&doc.Status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ListDocuments(db *sql.DB, scanID uuid.UUID) ([]models.DocumentInfo, error) {
	rows, err := db.Query(`
		SELECT id, scan_id, document_type, file_name, file_url, file_size, status, created_at, updated_at
		FROM documents
		WHERE scan_id = ?
		ORDER BY document_type
	`, scanID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.DocumentInfo
	for rows.Next() {
		var d models.DocumentInfo
		if err := rows.Scan(&d.ID, &d.ScanID, &d.DocumentType, &d.FileName, &d.FileURL, &d.FileSize, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// AttachFile records an upload against a document slot and marks it uploaded.
func AttachFile(db *sql.DB, id uuid.UUID, fileName, fileURL string, fileSize int64) error {
	_, err := db.Exec(`
		UPDATE documents
		SET file_name = ?, file_url = ?, file_size = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, fileName, fileURL, fileSize, models.DocumentStatusUploaded, time.Now(), id.String())

	return err
}

func UpdateDocumentStatus(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`
		UPDATE documents SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id.String())

	return err
}

// DeleteDocument removes an uploaded file but keeps the required slot: the
// row reverts to a placeholder rather than disappearing.
func DeleteDocument(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`
		UPDATE documents
		SET file_name = '', file_url = '', file_size = 0, status = ?, updated_at = ?
		WHERE id = ?
	`, models.DocumentStatusPlaceholder, time.Now(), id.String())

	return err
}
