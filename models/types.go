// ABOUTME: Data models for scan platform entities
// ABOUTME: Defines Tenant, Workspace, Scan, Lifecycle, PainPoint, and DocumentInfo structs
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Workspace struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Scan struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	Description string    `json:"description,omitempty"`
	CurrentStep string    `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scan workflow steps, in order.
const (
	StepCompanyDetails      = "company_details"
	StepDataSources         = "data_sources"
	StepLifecycles          = "lifecycles"
	StepStakeholders        = "stakeholders"
	StepStrategicObjectives = "strategic_objectives"
	StepPainPoints          = "pain_points"
	StepLifecycleCost       = "lifecycle_cost"
	StepScenarioPlanning    = "scenario_planning"
)

// WorkflowSteps lists the scan steps in walk order.
var WorkflowSteps = []string{
	StepCompanyDetails,
	StepDataSources,
	StepLifecycles,
	StepStakeholders,
	StepStrategicObjectives,
	StepPainPoints,
	StepLifecycleCost,
	StepScenarioPlanning,
}

type Stakeholder struct {
	ID        uuid.UUID `json:"id"`
	ScanID    uuid.UUID `json:"scan_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StrategicObjective is a named business goal. Key is the so_-prefixed
// field name pain points score against (e.g. "so_cost").
type StrategicObjective struct {
	ID        uuid.UUID `json:"id"`
	ScanID    uuid.UUID `json:"scan_id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectiveKey derives the so_ field key from an objective name.
func ObjectiveKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return "so_" + strings.Trim(key, "_")
}

type ProcessGroup struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Score       *int   `json:"score,omitempty"`
}

type ProcessCategory struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	ProcessGroups []ProcessGroup `json:"process_groups"`
}

type Processes struct {
	ProcessCategories []ProcessCategory `json:"process_categories"`
}

type Lifecycle struct {
	ID          uuid.UUID `json:"id"`
	ScanID      uuid.UUID `json:"scan_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	Processes   Processes `json:"processes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasProcessGroup reports whether a group with the given name exists
// anywhere in the lifecycle's process tree.
func (l *Lifecycle) HasProcessGroup(name string) bool {
	for _, cat := range l.Processes.ProcessCategories {
		for _, g := range cat.ProcessGroups {
			if g.Name == name {
				return true
			}
		}
	}
	return false
}

// UnassignedGroup absorbs pain points that are not placed in any process group.
const UnassignedGroup = "Unassigned"

// ObjectivePrefix marks the dynamic per-objective score fields on a pain point.
const ObjectivePrefix = "so_"

// PainPoint is a recorded issue with per-objective scores (0-3) and an
// optional cost estimate. Objectives holds the dynamic so_ fields; on the
// wire they are flattened into the object itself.
type PainPoint struct {
	ID                   string
	Name                 string
	Description          string
	AssignedProcessGroup string
	Score                *int
	CostToServe          *int64
	Objectives           map[string]int
}

// Points is the pain point's displayed score: the sum of its objective
// scores. It is always derived, never stored.
func (p *PainPoint) Points() int {
	total := 0
	for _, v := range p.Objectives {
		total += v
	}
	return total
}

// painPointWire is the fixed part of the JSON shape; so_ fields ride alongside.
type painPointWire struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	AssignedProcessGroup string `json:"assigned_process_group"`
	Score                *int   `json:"score,omitempty"`
	CostToServe          *int64 `json:"cost_to_serve,omitempty"`
}

func (p PainPoint) MarshalJSON() ([]byte, error) {
	group := p.AssignedProcessGroup
	if group == "" {
		group = UnassignedGroup
	}

	out := map[string]interface{}{
		"id":                     p.ID,
		"name":                   p.Name,
		"assigned_process_group": group,
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Score != nil {
		out["score"] = *p.Score
	}
	if p.CostToServe != nil {
		out["cost_to_serve"] = *p.CostToServe
	}
	for key, v := range p.Objectives {
		if strings.HasPrefix(key, ObjectivePrefix) {
			out[key] = v
		}
	}
	return json.Marshal(out)
}

func (p *PainPoint) UnmarshalJSON(data []byte) error {
	var wire painPointWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = wire.ID
	p.Name = wire.Name
	p.Description = wire.Description
	p.AssignedProcessGroup = wire.AssignedProcessGroup
	p.Score = wire.Score
	p.CostToServe = wire.CostToServe
	if p.AssignedProcessGroup == "" {
		p.AssignedProcessGroup = UnassignedGroup
	}

	p.Objectives = nil
	for key, msg := range raw {
		if !strings.HasPrefix(key, ObjectivePrefix) {
			continue
		}
		var v int
		if err := json.Unmarshal(msg, &v); err != nil {
			// Non-numeric so_ fields are ignored rather than rejected
			continue
		}
		if p.Objectives == nil {
			p.Objectives = make(map[string]int)
		}
		p.Objectives[key] = v
	}
	return nil
}

// PainPointSummary is the structured interview result for one lifecycle.
// It is always saved as a whole: callers resend the complete pain point
// array on every update.
type PainPointSummary struct {
	ID             string      `json:"id"`
	LifecycleID    uuid.UUID   `json:"lifecycle_id"`
	OverallSummary string      `json:"overall_summary"`
	PainPoints     []PainPoint `json:"pain_points"`
	Version        int64       `json:"version"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ProcessGroupScore sums the points of every pain point assigned to the
// named group. Recomputed from current state on each call, never cached.
func (s *PainPointSummary) ProcessGroupScore(groupName string) int {
	total := 0
	for i := range s.PainPoints {
		if s.PainPoints[i].AssignedProcessGroup == groupName {
			total += s.PainPoints[i].Points()
		}
	}
	return total
}

// CategoryScore sums the group scores of every group in the category.
func (s *PainPointSummary) CategoryScore(category ProcessCategory) int {
	total := 0
	for _, g := range category.ProcessGroups {
		total += s.ProcessGroupScore(g.Name)
	}
	return total
}

// FindPainPoint returns the index of the pain point with the given id, or -1.
func (s *PainPointSummary) FindPainPoint(id string) int {
	for i := range s.PainPoints {
		if s.PainPoints[i].ID == id {
			return i
		}
	}
	return -1
}

// Transcription is the accumulating interview transcript for a lifecycle,
// one "[HH:MM:SS] utterance" line per recognized utterance.
type Transcription struct {
	LifecycleID uuid.UUID `json:"lifecycle_id"`
	Text        string    `json:"text"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AppendUtterance appends a timestamped line in arrival order.
func (t *Transcription) AppendUtterance(at time.Time, utterance string) {
	line := "[" + at.Format("15:04:05") + "] " + utterance
	if t.Text != "" {
		t.Text += "\n"
	}
	t.Text += line
}
