// ABOUTME: Pain-point summary store for interview sessions
// ABOUTME: Optimistic local mutation, full-array saves, and bus notification
package interview

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
	"github.com/orahq/orascan/summarize"
)

// SummaryStore holds one lifecycle's structured pain-point summary. Every
// mutation follows the same shape: optimistic local change, full-array save,
// then a bus notification so sibling panels re-fetch. The local change is
// kept even when the save fails; the caller sees the error and can reload.
type SummaryStore struct {
	database  *sql.DB
	events    *bus.Bus
	client    *summarize.Client
	lifecycle *models.Lifecycle

	mu      sync.Mutex
	summary models.PainPointSummary
}

func NewSummaryStore(database *sql.DB, events *bus.Bus, client *summarize.Client, lifecycle *models.Lifecycle) *SummaryStore {
	return &SummaryStore{
		database:  database,
		events:    events,
		client:    client,
		lifecycle: lifecycle,
		summary: models.PainPointSummary{
			LifecycleID: lifecycle.ID,
			PainPoints:  []models.PainPoint{},
		},
	}
}

// Load fetches the current summary. A lifecycle that has never been
// summarized is an empty list, not an error.
func (s *SummaryStore) Load() error {
	summary, err := db.GetSummaryReconciled(s.database, s.lifecycle)
	if err == db.ErrNotFound {
		s.mu.Lock()
		s.summary = models.PainPointSummary{
			LifecycleID: s.lifecycle.ID,
			PainPoints:  []models.PainPoint{},
		}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.summary = *summary
	s.mu.Unlock()
	return nil
}

// Summary returns a copy of current state.
func (s *SummaryStore) Summary() models.PainPointSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.summary
	out.PainPoints = make([]models.PainPoint, len(s.summary.PainPoints))
	copy(out.PainPoints, s.summary.PainPoints)
	return out
}

// Update runs the summarizer over the full transcript and replaces local
// state with its structured result. With persist set, the result is also
// saved and, if any pain points exist, announced so dependent panels
// recompute their scores.
func (s *SummaryStore) Update(ctx context.Context, transcript string, persist bool) error {
	result, err := s.client.Summarize(ctx, &summarize.Request{
		Transcript:  transcript,
		LifecycleID: s.lifecycle.ID,
	})
	if err != nil {
		return err
	}

	for i := range result.PainPoints {
		if result.PainPoints[i].ID == "" {
			result.PainPoints[i].ID = ulid.Make().String()
		}
		if result.PainPoints[i].AssignedProcessGroup == "" {
			result.PainPoints[i].AssignedProcessGroup = models.UnassignedGroup
		}
	}

	s.mu.Lock()
	s.summary.OverallSummary = result.OverallSummary
	s.summary.PainPoints = result.PainPoints
	s.mu.Unlock()

	if !persist {
		return nil
	}

	if err := s.save(); err != nil {
		return err
	}
	if len(result.PainPoints) > 0 {
		s.notifyDataUpdated()
	}
	return nil
}

// SetProcessGroup reassigns a pain point to another process group.
func (s *SummaryStore) SetProcessGroup(painPointID, groupName string) error {
	return s.mutate(painPointID, true, func(p *models.PainPoint) {
		if groupName == "" {
			groupName = models.UnassignedGroup
		}
		p.AssignedProcessGroup = groupName
	})
}

// SetScore sets the pain point's manual score field.
func (s *SummaryStore) SetScore(painPointID string, score int) error {
	return s.mutate(painPointID, false, func(p *models.PainPoint) {
		p.Score = &score
	})
}

// SetCostToServe sets the pain point's cost estimate.
func (s *SummaryStore) SetCostToServe(painPointID string, cost int64) error {
	return s.mutate(painPointID, false, func(p *models.PainPoint) {
		p.CostToServe = &cost
	})
}

// SetObjectiveScore sets one so_ field (0-3) on a pain point.
func (s *SummaryStore) SetObjectiveScore(painPointID, objectiveKey string, value int) error {
	if value < 0 {
		value = 0
	}
	if value > 3 {
		value = 3
	}
	return s.mutate(painPointID, true, func(p *models.PainPoint) {
		if p.Objectives == nil {
			p.Objectives = make(map[string]int)
		}
		p.Objectives[objectiveKey] = value
	})
}

// DeletePainPoint removes the entry and saves the remaining array. Deleting
// an id that is already absent is a no-op.
func (s *SummaryStore) DeletePainPoint(painPointID string) error {
	s.mu.Lock()
	idx := s.summary.FindPainPoint(painPointID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.summary.PainPoints = append(s.summary.PainPoints[:idx], s.summary.PainPoints[idx+1:]...)
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return err
	}
	s.notifyDataUpdated()
	s.notifyPainPoints()
	return nil
}

// mutate applies an optimistic edit, saves the full array, and notifies.
// assistantRelevant additionally publishes the richer pain-points event.
func (s *SummaryStore) mutate(painPointID string, assistantRelevant bool, apply func(*models.PainPoint)) error {
	s.mu.Lock()
	idx := s.summary.FindPainPoint(painPointID)
	if idx < 0 {
		s.mu.Unlock()
		return db.ErrNotFound
	}
	apply(&s.summary.PainPoints[idx])
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return err
	}
	s.notifyDataUpdated()
	if assistantRelevant {
		s.notifyPainPoints()
	}
	return nil
}

func (s *SummaryStore) save() error {
	s.mu.Lock()
	toSave := s.summary
	toSave.PainPoints = make([]models.PainPoint, len(s.summary.PainPoints))
	copy(toSave.PainPoints, s.summary.PainPoints)
	s.mu.Unlock()

	err := db.SaveSummary(s.database, &toSave)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.summary.ID = toSave.ID
	s.summary.Version = toSave.Version
	s.summary.UpdatedAt = toSave.UpdatedAt
	s.mu.Unlock()
	return nil
}

func (s *SummaryStore) notifyDataUpdated() {
	if s.events == nil {
		return
	}
	s.events.Publish(bus.LifecycleDataUpdated{
		LifecycleID: s.lifecycle.ID,
		Timestamp:   time.Now(),
	})
}

func (s *SummaryStore) notifyPainPoints() {
	if s.events == nil {
		return
	}
	summary := s.Summary()
	s.events.Publish(bus.PainPointsUpdated{
		LifecycleID: s.lifecycle.ID,
		PainPoints:  summary.PainPoints,
	})
}
