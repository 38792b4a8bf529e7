// ABOUTME: Tests for the pain-point summary store
// ABOUTME: Validates load, optimistic edits, full-array saves, and events
package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
	"github.com/orahq/orascan/summarize"
)

type storeFixture struct {
	database  *sql.DB
	events    *bus.Bus
	lifecycle *models.Lifecycle
	store     *SummaryStore
	server    *httptest.Server

	// result is returned by the fake summarizer
	result summarize.Result
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tenant := &models.Tenant{Name: "Acme"}
	require.NoError(t, db.CreateTenant(database, tenant))
	workspace := &models.Workspace{TenantID: tenant.ID, Name: "EMEA"}
	require.NoError(t, db.CreateWorkspace(database, workspace))
	scan := &models.Scan{WorkspaceID: workspace.ID, Name: "Ops Scan"}
	require.NoError(t, db.CreateScan(database, scan))

	lifecycle := &models.Lifecycle{
		ScanID: scan.ID,
		Name:   "Order to Cash",
		Processes: models.Processes{
			ProcessCategories: []models.ProcessCategory{
				{Name: "Front Office", ProcessGroups: []models.ProcessGroup{{Name: "Intake"}, {Name: "Triage"}}},
			},
		},
	}
	require.NoError(t, db.CreateLifecycle(database, lifecycle))

	f := &storeFixture{
		database:  database,
		events:    bus.New(),
		lifecycle: lifecycle,
	}
	t.Cleanup(f.events.Close)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.result)
	}))
	t.Cleanup(f.server.Close)

	f.store = NewSummaryStore(database, f.events, summarize.NewClient(f.server.URL), lifecycle)
	return f
}

func (f *storeFixture) seedPainPoint(t *testing.T, id, group string, objectives map[string]int) {
	t.Helper()
	summary := f.store.Summary()
	summary.PainPoints = append(summary.PainPoints, models.PainPoint{
		ID:                   id,
		Name:                 "Seeded " + id,
		AssignedProcessGroup: group,
		Objectives:           objectives,
	})
	require.NoError(t, db.SaveSummary(f.database, &summary))
	require.NoError(t, f.store.Load())
}

func TestLoadWithoutSummaryYieldsEmpty(t *testing.T) {
	f := newStoreFixture(t)

	require.NoError(t, f.store.Load())
	summary := f.store.Summary()
	assert.Empty(t, summary.PainPoints)
	assert.Empty(t, summary.OverallSummary)
}

func TestUpdatePersistsAndNotifies(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())

	sub := f.events.Subscribe(bus.KindLifecycleDataUpdated)

	f.result = summarize.Result{
		OverallSummary: "Intake is manual.",
		PainPoints: []models.PainPoint{
			{Name: "Manual rekeying", AssignedProcessGroup: "Intake", Objectives: map[string]int{"so_cost": 2}},
		},
	}

	require.NoError(t, f.store.Update(context.Background(), "[09:00:00] transcript", true))

	// Result replaced local state, ids were assigned
	summary := f.store.Summary()
	require.Len(t, summary.PainPoints, 1)
	assert.NotEmpty(t, summary.PainPoints[0].ID)
	assert.Equal(t, "Intake is manual.", summary.OverallSummary)

	// Persisted server-side
	stored, err := db.GetSummary(f.database, f.lifecycle.ID)
	require.NoError(t, err)
	assert.Len(t, stored.PainPoints, 1)

	// Dependent panels were told to recompute
	select {
	case e := <-sub.Events():
		assert.Equal(t, f.lifecycle.ID, e.(bus.LifecycleDataUpdated).LifecycleID)
	case <-time.After(time.Second):
		t.Fatal("expected lifecycle-data-updated event")
	}
}

func TestUpdateWithoutPersistKeepsServerState(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())

	f.result = summarize.Result{
		OverallSummary: "Preview only.",
		PainPoints:     []models.PainPoint{{Name: "Preview"}},
	}
	require.NoError(t, f.store.Update(context.Background(), "[09:00:00] transcript", false))

	assert.Equal(t, "Preview only.", f.store.Summary().OverallSummary)

	_, err := db.GetSummary(f.database, f.lifecycle.ID)
	assert.Equal(t, db.ErrNotFound, err, "preview summarization must not persist")
}

func TestUpdateEmptyResultPersistsWithoutDataEvent(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())

	sub := f.events.Subscribe(bus.KindLifecycleDataUpdated)

	f.result = summarize.Result{OverallSummary: "Nothing found."}
	require.NoError(t, f.store.Update(context.Background(), "[09:00:00] transcript", true))

	select {
	case <-sub.Events():
		t.Fatal("no pain points, so no recompute event should fire")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSetProcessGroupSavesFullArray(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())
	f.seedPainPoint(t, "p1", "Intake", map[string]int{"so_cost": 2, "so_speed": 1})
	f.seedPainPoint(t, "p2", "Triage", map[string]int{"so_cost": 1})

	sub := f.events.Subscribe(bus.KindPainPointsUpdated)

	require.NoError(t, f.store.SetProcessGroup("p1", models.UnassignedGroup))

	stored, err := db.GetSummary(f.database, f.lifecycle.ID)
	require.NoError(t, err)
	require.Len(t, stored.PainPoints, 2, "full array is resent, not a partial patch")

	idx := stored.FindPainPoint("p1")
	assert.Equal(t, models.UnassignedGroup, stored.PainPoints[idx].AssignedProcessGroup)
	assert.Equal(t, 0, stored.ProcessGroupScore("Intake"))

	select {
	case e := <-sub.Events():
		assert.Len(t, e.(bus.PainPointsUpdated).PainPoints, 2)
	case <-time.After(time.Second):
		t.Fatal("group change is assistant-relevant and should publish pain-points-updated")
	}
}

func TestSetScoreAndCost(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())
	f.seedPainPoint(t, "p1", "Intake", nil)

	require.NoError(t, f.store.SetScore("p1", 7))
	require.NoError(t, f.store.SetCostToServe("p1", 120000))

	stored, err := db.GetSummary(f.database, f.lifecycle.ID)
	require.NoError(t, err)
	p := stored.PainPoints[stored.FindPainPoint("p1")]
	require.NotNil(t, p.Score)
	assert.Equal(t, 7, *p.Score)
	require.NotNil(t, p.CostToServe)
	assert.Equal(t, int64(120000), *p.CostToServe)
}

func TestSetObjectiveScoreClamped(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())
	f.seedPainPoint(t, "p1", "Intake", nil)

	require.NoError(t, f.store.SetObjectiveScore("p1", "so_cost", 9))

	summary := f.store.Summary()
	p := summary.PainPoints[summary.FindPainPoint("p1")]
	assert.Equal(t, 3, p.Objectives["so_cost"], "objective scores are 0-3")
}

func TestDeletePainPointIdempotent(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())
	f.seedPainPoint(t, "p1", "Intake", map[string]int{"so_cost": 2})

	require.NoError(t, f.store.DeletePainPoint("p1"))
	after := f.store.Summary()
	assert.Empty(t, after.PainPoints)

	// Second delete of an absent id must not fail or change anything
	require.NoError(t, f.store.DeletePainPoint("p1"))
	assert.Empty(t, f.store.Summary().PainPoints)

	stored, err := db.GetSummary(f.database, f.lifecycle.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PainPoints)
}

func TestMutateUnknownPainPoint(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())

	err := f.store.SetScore("no-such-id", 1)
	assert.Equal(t, db.ErrNotFound, err)
}

func TestOptimisticEditSurvivesSaveFailure(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Load())
	f.seedPainPoint(t, "p1", "Intake", nil)

	// A second editor bumps the version out from under us
	other, err := db.GetSummary(f.database, f.lifecycle.ID)
	require.NoError(t, err)
	other.OverallSummary = "someone else"
	require.NoError(t, db.SaveSummary(f.database, other))

	err = f.store.SetScore("p1", 5)
	assert.Equal(t, db.ErrConflict, err)

	// Local optimistic state is kept; the caller reloads to resolve
	summary := f.store.Summary()
	p := summary.PainPoints[summary.FindPainPoint("p1")]
	require.NotNil(t, p.Score)
	assert.Equal(t, 5, *p.Score)

	require.NoError(t, f.store.Load())
	assert.Equal(t, "someone else", f.store.Summary().OverallSummary)
}
