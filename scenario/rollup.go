// ABOUTME: Cross-lifecycle scenario planning rollup
// ABOUTME: Aggregates cost-to-serve and ranks pain-point opportunities
package scenario

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/orahq/orascan/db"
)

// Opportunity is one pain point viewed as an improvement candidate.
type Opportunity struct {
	PainPointID   string
	Name          string
	ProcessGroup  string
	LifecycleID   uuid.UUID
	LifecycleName string
	Points        int
	CostToServe   int64 // in currency units; 0 when unestimated
}

// LifecycleRollup summarizes one lifecycle's contribution.
type LifecycleRollup struct {
	LifecycleID    uuid.UUID
	Name           string
	PainPointCount int
	TotalPoints    int
	TotalCost      int64
}

// Rollup is the scan-wide scenario planning view: where cost sits,
// and which opportunities rank highest.
type Rollup struct {
	ScanID           uuid.UUID
	TotalCostToServe int64

	// Lifecycles in display order (the scan's lifecycle order)
	Lifecycles []LifecycleRollup

	// Opportunities ranked by points, then cost, then name
	Opportunities []Opportunity
}

// BuildRollup aggregates every lifecycle's pain-point summary for a scan.
// Lifecycles without a summary yet contribute nothing but still appear,
// so the view shows coverage as well as cost.
func BuildRollup(database *sql.DB, scanID uuid.UUID) (*Rollup, error) {
	lifecycles, err := db.ListLifecycles(database, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lifecycles: %w", err)
	}

	rollup := &Rollup{ScanID: scanID}

	for _, lifecycle := range lifecycles {
		entry := LifecycleRollup{
			LifecycleID: lifecycle.ID,
			Name:        lifecycle.Name,
		}

		summary, err := db.GetSummaryReconciled(database, &lifecycle)
		if err == db.ErrNotFound {
			rollup.Lifecycles = append(rollup.Lifecycles, entry)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load summary for %s: %w", lifecycle.Name, err)
		}

		for _, p := range summary.PainPoints {
			entry.PainPointCount++
			entry.TotalPoints += p.Points()

			var cost int64
			if p.CostToServe != nil {
				cost = *p.CostToServe
			}
			entry.TotalCost += cost

			rollup.Opportunities = append(rollup.Opportunities, Opportunity{
				PainPointID:   p.ID,
				Name:          p.Name,
				ProcessGroup:  p.AssignedProcessGroup,
				LifecycleID:   lifecycle.ID,
				LifecycleName: lifecycle.Name,
				Points:        p.Points(),
				CostToServe:   cost,
			})
		}

		rollup.TotalCostToServe += entry.TotalCost
		rollup.Lifecycles = append(rollup.Lifecycles, entry)
	}

	sort.SliceStable(rollup.Opportunities, func(i, j int) bool {
		a, b := rollup.Opportunities[i], rollup.Opportunities[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.CostToServe != b.CostToServe {
			return a.CostToServe > b.CostToServe
		}
		return a.Name < b.Name
	})

	return rollup, nil
}

// Focus returns the top n ranked opportunities for the focus selection.
func (r *Rollup) Focus(n int) []Opportunity {
	if n < 0 {
		n = 0
	}
	if n > len(r.Opportunities) {
		n = len(r.Opportunities)
	}
	out := make([]Opportunity, n)
	copy(out, r.Opportunities[:n])
	return out
}

// Render formats the rollup as a terminal report.
func Render(r *Rollup) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SCENARIO PLANNING\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("COST TO SERVE BY LIFECYCLE\n")
	renderLifecycleBars(&out, r.Lifecycles)
	out.WriteString(fmt.Sprintf("\n  TOTAL: $%s\n\n", formatCost(r.TotalCostToServe)))

	focus := r.Focus(5)
	if len(focus) > 0 {
		out.WriteString("TOP OPPORTUNITIES\n")
		for i, opp := range focus {
			out.WriteString(fmt.Sprintf("  %d. %s (%s / %s)  %d pts  $%s\n",
				i+1, opp.Name, opp.LifecycleName, opp.ProcessGroup,
				opp.Points, formatCost(opp.CostToServe)))
		}
	}

	return out.String()
}

func renderLifecycleBars(out *strings.Builder, lifecycles []LifecycleRollup) {
	var maxCost int64 = 1
	for _, lc := range lifecycles {
		if lc.TotalCost > maxCost {
			maxCost = lc.TotalCost
		}
	}

	for _, lc := range lifecycles {
		barLength := int((lc.TotalCost * 10) / maxCost)
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-20s %s  %2d pain points ($%s)\n",
			lc.Name, bar, lc.PainPointCount, formatCost(lc.TotalCost)))
	}
}

func formatCost(cost int64) string {
	if cost >= 1000 {
		return fmt.Sprintf("%dK", cost/1000)
	}
	return fmt.Sprintf("%d", cost)
}
