package query

import (
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/graph"
)

// QueryMonitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate stages during answering.
type QueryMonitor interface {
	Start(question string)
	AfterRetrieval(matches []core.ChunkMatch)
	AfterPaperResolution(paperIDs []string)
	AfterTraversal(path []Step)
	AfterSubgraph(subgraph *graph.Graph)
	SynthesisFallback(err error)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterRetrieval(_ []core.ChunkMatch) {}
func (n *noopMonitor) AfterPaperResolution(_ []string)    {}
func (n *noopMonitor) AfterTraversal(_ []Step)            {}
func (n *noopMonitor) AfterSubgraph(_ *graph.Graph)       {}
func (n *noopMonitor) SynthesisFallback(_ error)          {}
func (n *noopMonitor) Finish(_ *Result)                   {}
