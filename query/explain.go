package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/paperscope/graph"
)

// Neighbor is one immediate graph neighbor of an explained node.
type Neighbor struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Type   graph.NodeType `json:"type"`
	Weight float64        `json:"weight"`
}

// NodeExplanation summarizes a node's immediate graph neighborhood.
type NodeExplanation struct {
	NodeID    string         `json:"node_id"`
	Label     string         `json:"label"`
	Type      graph.NodeType `json:"type"`
	Text      string         `json:"text"`
	Neighbors []Neighbor     `json:"neighbors"`
}

// ExplainNode describes a node through its strongest connections. Neighbors
// are ranked by edge weight descending; equal weights keep edge insertion
// order. When a synthesizer is configured, its text replaces the heuristic
// summary; on failure the heuristic stands and no error is surfaced.
func (e *Engine) ExplainNode(ctx context.Context, g *graph.Graph, nodeID string) (*NodeExplanation, error) {
	node := g.Node(nodeID)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	incident := g.Incident(nodeID)
	neighbors := make([]Neighbor, 0, len(incident))
	for _, edge := range incident {
		otherID := edge.Other(nodeID)
		other := g.Node(otherID)
		if other == nil {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			ID:     other.ID,
			Label:  other.Label,
			Type:   other.Type,
			Weight: edge.Weight,
		})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Weight > neighbors[j].Weight
	})

	explanation := &NodeExplanation{
		NodeID:    node.ID,
		Label:     node.Label,
		Type:      node.Type,
		Text:      explainText(node, neighbors),
		Neighbors: neighbors,
	}

	if e.synthesizer != nil {
		polished, err := e.synthesize(ctx, explainPrompt(node, neighbors))
		if err != nil {
			e.logger.Warn("node explanation synthesis failed, keeping heuristic text",
				"node", nodeID, "err", err)
		} else {
			explanation.Text = polished
		}
	}

	return explanation, nil
}

// explainText is the deterministic summary of a node's neighborhood.
func explainText(node *graph.Node, neighbors []Neighbor) string {
	var sb strings.Builder

	switch node.Type {
	case graph.NodePaper:
		fmt.Fprintf(&sb, "%q is a paper", node.Label)
	case graph.NodeConcept:
		fmt.Fprintf(&sb, "%q is a concept mentioned by %d paper(s)", node.Label, node.Mentions)
	}

	if len(neighbors) == 0 {
		sb.WriteString(" with no graph connections.")
		return sb.String()
	}

	fmt.Fprintf(&sb, " with %d connection(s). Strongest:", len(neighbors))
	limit := len(neighbors)
	if limit > 5 {
		limit = 5
	}
	for _, neighbor := range neighbors[:limit] {
		fmt.Fprintf(&sb, " %q (%.2f);", neighbor.Label, neighbor.Weight)
	}
	return strings.TrimSuffix(sb.String(), ";") + "."
}

// explainPrompt asks the synthesizer to narrate the neighborhood.
func explainPrompt(node *graph.Node, neighbors []Neighbor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Explain the role of the %s %q in a research knowledge graph.\n", node.Type, node.Label)
	sb.WriteString("Its neighbors, strongest first:\n")
	for _, neighbor := range neighbors {
		fmt.Fprintf(&sb, "- %s %q (weight %.3f)\n", neighbor.Type, neighbor.Label, neighbor.Weight)
	}
	sb.WriteString("Write two or three sentences. Use only the information above.")
	return sb.String()
}
