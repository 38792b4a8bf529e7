// ABOUTME: Scenario overview graph generation
// ABOUTME: Visualizes cost-to-serve per lifecycle and top opportunities
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"

	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/scenario"
)

// GenerateScenarioGraph renders the scan-wide scenario rollup as DOT:
// the scan at the root, one node per lifecycle with its cost-to-serve,
// and the top five opportunities hanging off their lifecycles.
func (g *GraphGenerator) GenerateScenarioGraph(scanID uuid.UUID) (string, error) {
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

	scan, err := db.GetScan(g.db, scanID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch scan: %w", err)
	}
	if scan == nil {
		return "", db.ErrNotFound
	}

	rollup, err := scenario.BuildRollup(g.db, scanID)
	if err != nil {
		return "", fmt.Errorf("failed to build rollup: %w", err)
	}

	graph.SetRankDir(cgraph.LRRank)

	root, err := graph.CreateNodeByName(fmt.Sprintf("scan_%s", scanID.String()[:8]))
	if err != nil {
		return "", fmt.Errorf("failed to create scan node: %w", err)
	}
	root.SetLabel(fmt.Sprintf("%s\n$%d total", scan.Name, rollup.TotalCostToServe))
	root.SetShape("box")
	root.SetStyle("filled")
	root.SetFillColor("lightblue")

	lifecycleNodes := make(map[uuid.UUID]*cgraph.Node)
	for _, lc := range rollup.Lifecycles {
		node, err := graph.CreateNodeByName(fmt.Sprintf("lifecycle_%s", lc.LifecycleID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create lifecycle node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n$%d\n%d pain points", lc.Name, lc.TotalCost, lc.PainPointCount))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightgrey")
		lifecycleNodes[lc.LifecycleID] = node

		if _, err := graph.CreateEdgeByName("", root, node); err != nil {
			return "", fmt.Errorf("failed to create lifecycle edge: %w", err)
		}
	}

	for i, opp := range rollup.Focus(5) {
		node, err := graph.CreateNodeByName(fmt.Sprintf("opportunity_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create opportunity node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d pts", opp.Name, opp.Points))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if parent, ok := lifecycleNodes[opp.LifecycleID]; ok {
			edge, err := graph.CreateEdgeByName("", parent, node)
			if err != nil {
				return "", fmt.Errorf("failed to create opportunity edge: %w", err)
			}
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
