// ABOUTME: Event variants carried on the cross-panel bus
// ABOUTME: Defines tagged payloads for document, lifecycle, and context changes
package bus

import (
	"time"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

// Event kinds.
const (
	KindDocumentChange       = "document-change"
	KindLifecycleChange      = "lifecycle-change"
	KindLifecycleDataUpdated = "lifecycle-data-updated"
	KindContextChange        = "context-change"
	KindPainPointsUpdated    = "pain-points-updated"
)

// Document change actions.
const (
	ActionAdded         = "added"
	ActionRemoved       = "removed"
	ActionStatusChanged = "status_changed"
)

// ActionGenerated marks AI-driven lifecycle generation.
const ActionGenerated = "generated"

// Assistant contexts.
const (
	ContextDefault   = "default"
	ContextInterview = "interview"
)

// Event is a tagged notification. Payloads are advisory: consumers re-fetch
// current state rather than trusting the event body; only ids and counts are
// reliable for display decisions.
type Event interface {
	Kind() string
	// SuppressKey groups events for publish-side suppression. Empty means
	// never suppressed.
	SuppressKey() string
}

type DocumentChange struct {
	Action   string
	Document models.DocumentInfo
	ScanID   uuid.UUID
}

func (DocumentChange) Kind() string        { return KindDocumentChange }
func (DocumentChange) SuppressKey() string { return "" }

type LifecycleChange struct {
	Action string
	Count  int
	ScanID uuid.UUID
}

func (LifecycleChange) Kind() string { return KindLifecycleChange }

// SuppressKey includes the action so an edit burst cannot swallow a
// generation notice for the same scan.
func (e LifecycleChange) SuppressKey() string { return e.Action + "/" + e.ScanID.String() }

type LifecycleDataUpdated struct {
	LifecycleID uuid.UUID
	Timestamp   time.Time
}

func (LifecycleDataUpdated) Kind() string        { return KindLifecycleDataUpdated }
func (LifecycleDataUpdated) SuppressKey() string { return "" }

type ContextChange struct {
	Context       string
	LifecycleID   uuid.UUID
	LifecycleName string
}

func (ContextChange) Kind() string        { return KindContextChange }
func (ContextChange) SuppressKey() string { return "" }

type PainPointsUpdated struct {
	LifecycleID uuid.UUID
	PainPoints  []models.PainPoint
}

func (PainPointsUpdated) Kind() string        { return KindPainPointsUpdated }
func (PainPointsUpdated) SuppressKey() string { return "" }
