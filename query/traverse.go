package query

import "github.com/poiesic/paperscope/graph"

// Step is one hop of the traversal path. The first step and any disconnected
// jump carry no concepts and Linked=false.
type Step struct {
	PaperID  string   `json:"paper_id"`
	Title    string   `json:"title"`
	Concepts []string `json:"concepts,omitempty"`
	Linked   bool     `json:"linked"`
}

// orderedPaper pairs a paper id with its display title for traversal.
type orderedPaper struct {
	id    string
	title string
}

// traverse performs the greedy connecting walk over the ordered paper list.
//
// The walk is deliberately greedy rather than shortest-path or optimal: it
// favors retrieval relevance order over graph-theoretic optimality, which
// keeps paths reproducible for a fixed index and graph. Starting from the
// first paper, it repeatedly visits the next unvisited paper in ordered-list
// order that has a shares_concept edge to any already-visited paper; when no
// remaining paper connects, it jumps to the next unvisited paper anyway.
func traverse(g *graph.Graph, papers []orderedPaper) []Step {
	if len(papers) == 0 {
		return nil
	}

	path := make([]Step, 0, len(papers))
	visited := make([]bool, len(papers))

	path = append(path, Step{PaperID: papers[0].id, Title: papers[0].title})
	visited[0] = true
	frontier := []string{papers[0].id}

	for len(path) < len(papers) {
		next := -1
		var via string
		for i, paper := range papers {
			if visited[i] {
				continue
			}
			for _, frontierID := range frontier {
				if g.Edge(frontierID, paper.id, graph.EdgeSharesConcept) != nil {
					next = i
					via = frontierID
					break
				}
			}
			if next >= 0 {
				break
			}
		}

		if next < 0 {
			// Disconnected jump: nothing left on the list touches the frontier.
			for i := range papers {
				if !visited[i] {
					next = i
					break
				}
			}
			visited[next] = true
			frontier = append(frontier, papers[next].id)
			path = append(path, Step{PaperID: papers[next].id, Title: papers[next].title})
			continue
		}

		concepts := make([]string, 0, 4)
		for _, node := range g.SharedConcepts(via, papers[next].id) {
			concepts = append(concepts, node.Label)
		}
		visited[next] = true
		frontier = append(frontier, papers[next].id)
		path = append(path, Step{
			PaperID:  papers[next].id,
			Title:    papers[next].title,
			Concepts: concepts,
			Linked:   true,
		})
	}

	return path
}
