// ABOUTME: Lead routing graph for a single generation result
// ABOUTME: Renders signal -> company -> decision makers and owner -> CRM target as DOT
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/workspace"
)

// GenerateLeadGraph renders the routing recommendation for one lead.
func GenerateLeadGraph(ctx context.Context, signal models.Signal, result *models.GenerationResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no generation result to graph")
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel(fmt.Sprintf("%s lead routing", signal.Company))

	signalNode, err := graph.CreateNodeByName(fmt.Sprintf("signal_%d", signal.ID))
	if err != nil {
		return "", fmt.Errorf("failed to create signal node: %w", err)
	}
	signalNode.SetLabel(fmt.Sprintf("%s\n(%s)", signal.Signal, signal.Time))
	signalNode.SetShape("note")

	companyNode, err := graph.CreateNodeByName("company")
	if err != nil {
		return "", fmt.Errorf("failed to create company node: %w", err)
	}
	companyNode.SetLabel(fmt.Sprintf("%s\nscore %d (%s)", signal.Company, result.Score, workspace.TierFor(result.Score)))
	companyNode.SetShape("box")
	companyNode.SetStyle("filled")
	if workspace.TierFor(result.Score) == workspace.TierSuccess {
		companyNode.SetFillColor("lightgreen")
	} else {
		companyNode.SetFillColor("lightyellow")
	}

	edge, err := graph.CreateEdgeByName("signal", signalNode, companyNode)
	if err != nil {
		return "", fmt.Errorf("failed to create edge: %w", err)
	}
	if result.Scorecard.IntentLevel != "" {
		edge.SetLabel(result.Scorecard.IntentLevel + " intent")
	}

	for i, contact := range result.Research.DecisionMakers {
		node, err := graph.CreateNodeByName(fmt.Sprintf("contact_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", contact.Name, contact.Title))
		node.SetShape("ellipse")

		e, err := graph.CreateEdgeByName(fmt.Sprintf("works_at_%d", i), node, companyNode)
		if err != nil {
			return "", fmt.Errorf("failed to create contact edge: %w", err)
		}
		e.SetLabel("decision maker")
		e.SetStyle("dashed")
	}

	if owner := result.Routing.RecommendedOwner; owner != "" {
		ownerNode, err := graph.CreateNodeByName("owner")
		if err != nil {
			return "", fmt.Errorf("failed to create owner node: %w", err)
		}
		ownerNode.SetLabel(fmt.Sprintf("%s\n(owner)", owner))
		ownerNode.SetShape("diamond")

		e, err := graph.CreateEdgeByName("routed_to", companyNode, ownerNode)
		if err != nil {
			return "", fmt.Errorf("failed to create owner edge: %w", err)
		}
		if result.Routing.Priority != "" {
			e.SetLabel(result.Routing.Priority + " priority")
		}

		if target := result.Routing.CRMTarget; target != "" {
			crmNode, err := graph.CreateNodeByName("crm")
			if err != nil {
				return "", fmt.Errorf("failed to create crm node: %w", err)
			}
			crmNode.SetLabel(target)
			crmNode.SetShape("cylinder")

			if _, err := graph.CreateEdgeByName("synced_to", ownerNode, crmNode); err != nil {
				return "", fmt.Errorf("failed to create crm edge: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
