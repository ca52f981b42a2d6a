// ABOUTME: Pipeline graph of every lead handed off to the local CRM ledger
// ABOUTME: Groups companies under their recommended owner and CRM target
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/autoreach/db"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateHandoffGraph draws company -> owner -> CRM for the latest handoffs.
func (g *GraphGenerator) GenerateHandoffGraph(ctx context.Context, limit int) (string, error) {
	handoffs, err := db.ListHandoffs(g.db, limit)
	if err != nil {
		return "", fmt.Errorf("failed to fetch handoffs: %w", err)
	}

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

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel("Lead handoffs")

	nodes := make(map[string]*cgraph.Node)
	node := func(name, label, shape string) (*cgraph.Node, error) {
		if n, ok := nodes[name]; ok {
			return n, nil
		}
		n, err := graph.CreateNodeByName(name)
		if err != nil {
			return nil, err
		}
		n.SetLabel(label)
		n.SetShape(cgraph.Shape(shape))
		nodes[name] = n
		return n, nil
	}

	for _, h := range handoffs {
		companyNode, err := node("company_"+h.CompanyID.String()[:8], h.CompanyName, "box")
		if err != nil {
			return "", fmt.Errorf("failed to create company node: %w", err)
		}
		if h.Owner == "" {
			continue
		}
		ownerNode, err := node("owner_"+h.Owner, h.Owner, "diamond")
		if err != nil {
			return "", fmt.Errorf("failed to create owner node: %w", err)
		}
		edge, err := graph.CreateEdgeByName("handoff_"+h.ID.String()[:8], companyNode, ownerNode)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(fmt.Sprintf("%d / %s", h.Score, h.Priority))

		if h.CRMTarget == "" {
			continue
		}
		crmNode, err := node("crm_"+h.CRMTarget, h.CRMTarget, "cylinder")
		if err != nil {
			return "", fmt.Errorf("failed to create crm node: %w", err)
		}
		if _, err := graph.CreateEdgeByName("crm_"+h.ID.String()[:8], ownerNode, crmNode); err != nil {
			return "", fmt.Errorf("failed to create crm edge: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
