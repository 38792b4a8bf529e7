// ABOUTME: Process tree graph generation for lifecycles
// ABOUTME: Renders category/group hierarchy with pain-point score badges
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"

	"github.com/orahq/orascan/db"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateProcessGraph renders a lifecycle's process tree as DOT. Each
// group node carries its aggregated pain-point score; groups with a
// nonzero score are highlighted. Unassigned pain points never appear.
func (g *GraphGenerator) GenerateProcessGraph(lifecycleID uuid.UUID) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	lifecycle, err := db.GetLifecycle(g.db, lifecycleID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lifecycle: %w", err)
	}
	if lifecycle == nil {
		return "", db.ErrNotFound
	}

	summary, err := db.GetSummaryReconciled(g.db, lifecycle)
	if err != nil && err != db.ErrNotFound {
		return "", fmt.Errorf("failed to fetch summary: %w", err)
	}

	graph.SetLabel(lifecycle.Name)
	graph.SetRankDir(cgraph.TBRank)

	root, err := graph.CreateNodeByName(fmt.Sprintf("lifecycle_%s", lifecycleID.String()[:8]))
	if err != nil {
		return "", fmt.Errorf("failed to create root node: %w", err)
	}
	root.SetLabel(lifecycle.Name)
	root.SetShape("box")
	root.SetStyle("filled")
	root.SetFillColor("lightblue")

	for ci, category := range lifecycle.Processes.ProcessCategories {
		categoryNode, err := graph.CreateNodeByName(fmt.Sprintf("category_%d", ci))
		if err != nil {
			return "", fmt.Errorf("failed to create category node: %w", err)
		}

		categoryScore := 0
		if summary != nil {
			categoryScore = summary.CategoryScore(category)
		}
		categoryNode.SetLabel(fmt.Sprintf("%s\n%d pts", category.Name, categoryScore))
		categoryNode.SetShape("box")
		categoryNode.SetStyle("filled")
		categoryNode.SetFillColor("lightgrey")

		if _, err := graph.CreateEdgeByName("", root, categoryNode); err != nil {
			return "", fmt.Errorf("failed to create category edge: %w", err)
		}

		for gi, group := range category.ProcessGroups {
			groupNode, err := graph.CreateNodeByName(fmt.Sprintf("group_%d_%d", ci, gi))
			if err != nil {
				return "", fmt.Errorf("failed to create group node: %w", err)
			}

			groupScore := 0
			if summary != nil {
				groupScore = summary.ProcessGroupScore(group.Name)
			}
			groupNode.SetLabel(fmt.Sprintf("%s\n%d pts", group.Name, groupScore))
			groupNode.SetShape("ellipse")
			groupNode.SetStyle("filled")
			if groupScore > 0 {
				groupNode.SetFillColor("lightsalmon")
			} else {
				groupNode.SetFillColor("lightgreen")
			}

			if _, err := graph.CreateEdgeByName("", categoryNode, groupNode); err != nil {
				return "", fmt.Errorf("failed to create group edge: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
