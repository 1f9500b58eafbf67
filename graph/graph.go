package graph

// NodeType identifies the kind of graph vertex.
type NodeType string

const (
	// NodePaper is a vertex representing one ingested paper.
	NodePaper NodeType = "paper"
	// NodeConcept is a vertex representing a normalized keyphrase.
	NodeConcept NodeType = "concept"
)

// EdgeType identifies the relation an edge expresses.
type EdgeType string

const (
	// EdgeMentions connects a paper to a concept it discusses,
	// weighted by extraction confidence.
	EdgeMentions EdgeType = "mentions"
	// EdgeSharesConcept connects two papers that mention at least one
	// common concept.
	EdgeSharesConcept EdgeType = "shares_concept"
)

// Node is a graph vertex.
type Node struct {
	ID    string   `json:"id"`
	Type  NodeType `json:"type"`
	Label string   `json:"label"`
	// Mentions counts how many paper candidates collapsed into this node.
	// Only meaningful for concept nodes.
	Mentions int `json:"mentions,omitempty"`
}

// Edge is an undirected graph edge. Source and Target record construction
// order but carry no direction for rendering or traversal purposes.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Weight float64  `json:"weight"`
}

type edgeKey struct {
	a, b string
	typ  EdgeType
}

// makeEdgeKey canonicalizes the unordered endpoint pair.
func makeEdgeKey(source, target string, typ EdgeType) edgeKey {
	if target < source {
		source, target = target, source
	}
	return edgeKey{a: source, b: target, typ: typ}
}

// Graph is a typed graph of paper and concept nodes. Node and edge insertion
// order is preserved, which keeps builds deterministic and dumps stable.
// Graph is not safe for concurrent mutation; once built it is treated as an
// immutable snapshot and may be read concurrently.
type Graph struct {
	nodes     []*Node
	edges     []*Edge
	nodeByID  map[string]*Node
	edgeByKey map[edgeKey]*Edge
	adjacency map[string][]*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodeByID:  make(map[string]*Node),
		edgeByKey: make(map[edgeKey]*Edge),
		adjacency: make(map[string][]*Edge),
	}
}

// AddNode inserts a node if absent and returns it. An existing node with the
// same ID is returned unchanged.
func (g *Graph) AddNode(id string, typ NodeType, label string) *Node {
	if node, ok := g.nodeByID[id]; ok {
		return node
	}
	node := &Node{ID: id, Type: typ, Label: label}
	g.nodes = append(g.nodes, node)
	g.nodeByID[id] = node
	return node
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodeByID[id]
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeByID[id]
	return ok
}

// UpsertEdge creates an edge between two nodes or, if an edge of the same
// type already connects the unordered pair, accumulates its weight.
func (g *Graph) UpsertEdge(source, target string, typ EdgeType, weight float64) *Edge {
	key := makeEdgeKey(source, target, typ)
	if edge, ok := g.edgeByKey[key]; ok {
		edge.Weight += weight
		return edge
	}
	edge := &Edge{Source: source, Target: target, Type: typ, Weight: weight}
	g.edges = append(g.edges, edge)
	g.edgeByKey[key] = edge
	g.adjacency[source] = append(g.adjacency[source], edge)
	g.adjacency[target] = append(g.adjacency[target], edge)
	return edge
}

// Edge returns the edge of the given type between the unordered pair, or nil.
func (g *Graph) Edge(source, target string, typ EdgeType) *Edge {
	return g.edgeByKey[makeEdgeKey(source, target, typ)]
}

// Incident returns all edges touching the given node, in insertion order.
func (g *Graph) Incident(id string) []*Edge {
	return g.adjacency[id]
}

// Other returns the endpoint of e that is not id.
func (e *Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Nodes returns all nodes in insertion order. The slice must not be mutated.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns all edges in insertion order. The slice must not be mutated.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// MentionedConcepts returns the concept nodes a paper mentions, in the order
// their mentions edges were inserted.
func (g *Graph) MentionedConcepts(paperID string) []*Node {
	var concepts []*Node
	for _, edge := range g.adjacency[paperID] {
		if edge.Type != EdgeMentions {
			continue
		}
		if node := g.nodeByID[edge.Other(paperID)]; node != nil && node.Type == NodeConcept {
			concepts = append(concepts, node)
		}
	}
	return concepts
}

// SharedConcepts returns the concept nodes mentioned by both papers, in the
// mention order of paperA. The result is deterministic for a fixed graph.
func (g *Graph) SharedConcepts(paperA, paperB string) []*Node {
	var shared []*Node
	for _, concept := range g.MentionedConcepts(paperA) {
		if g.Edge(paperB, concept.ID, EdgeMentions) != nil {
			shared = append(shared, concept)
		}
	}
	return shared
}

// Induced extracts the subgraph used to visualize one query's traversal:
// the given paper nodes, every concept node mentioned by at least two of
// them, and all edges whose both endpoints are included. Node and edge order
// follows the parent graph's insertion order.
func (g *Graph) Induced(paperIDs []string) *Graph {
	included := make(map[string]bool, len(paperIDs))
	for _, id := range paperIDs {
		if node := g.nodeByID[id]; node != nil && node.Type == NodePaper {
			included[id] = true
		}
	}

	sub := New()
	for _, node := range g.nodes {
		switch node.Type {
		case NodePaper:
			if !included[node.ID] {
				continue
			}
		case NodeConcept:
			touches := 0
			for _, paperID := range paperIDs {
				if included[paperID] && g.Edge(paperID, node.ID, EdgeMentions) != nil {
					touches++
				}
			}
			if touches < 2 {
				continue
			}
		}
		copied := *node
		sub.nodes = append(sub.nodes, &copied)
		sub.nodeByID[copied.ID] = &copied
	}

	for _, edge := range g.edges {
		if !sub.HasNode(edge.Source) || !sub.HasNode(edge.Target) {
			continue
		}
		sub.UpsertEdge(edge.Source, edge.Target, edge.Type, edge.Weight)
	}

	return sub
}

// Dump is the serializable form of a graph: flat node and edge lists in
// insertion order. Empty graphs dump as empty lists, never null.
type Dump struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// Dump snapshots the graph for serialization. Node and edge structs are
// shared with the graph; callers must treat them as read-only.
func (g *Graph) Dump() Dump {
	d := Dump{
		Nodes: make([]*Node, len(g.nodes)),
		Edges: make([]*Edge, len(g.edges)),
	}
	copy(d.Nodes, g.nodes)
	copy(d.Edges, g.edges)
	return d
}
