package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/paperscope/ai/mock"
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/graph"
	"github.com/poiesic/paperscope/index"
	"github.com/poiesic/paperscope/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever returns canned matches without touching an index.
type stubRetriever struct {
	matches []core.ChunkMatch
	err     error
}

func (s *stubRetriever) Search(_ context.Context, _ string, k int) ([]core.ChunkMatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	if k < len(s.matches) {
		return s.matches[:k], nil
	}
	return s.matches, nil
}

func newTestEngine(t *testing.T, retriever Retriever, opts ...Option) *Engine {
	t.Helper()

	paperRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		paperRepo.Close()
		backend.Close()
	})

	ctx := context.Background()
	for _, paper := range []*core.Paper{
		{ID: "p1", Title: "First Paper"},
		{ID: "p2", Title: "Second Paper"},
		{ID: "p3", Title: "Third Paper"},
	} {
		_, err := paperRepo.AddPaper(ctx, paper)
		require.NoError(t, err)
	}

	engine, err := NewEngine(retriever, paperRepo, opts...)
	require.NoError(t, err)
	return engine
}

// threePaperGraph links p1-p2 through concept x; p3 is disconnected.
func threePaperGraph() *graph.Graph {
	g := graph.New()
	g.AddNode("p1", graph.NodePaper, "First Paper")
	g.AddNode("p2", graph.NodePaper, "Second Paper")
	g.AddNode("p3", graph.NodePaper, "Third Paper")
	g.AddNode("concept::x", graph.NodeConcept, "x")
	g.UpsertEdge("p1", "concept::x", graph.EdgeMentions, 0.9)
	g.UpsertEdge("p2", "concept::x", graph.EdgeMentions, 0.8)
	g.UpsertEdge("p1", "p2", graph.EdgeSharesConcept, 0.8)
	return g
}

func matchesFor(paperIDs ...string) []core.ChunkMatch {
	matches := make([]core.ChunkMatch, len(paperIDs))
	for i, paperID := range paperIDs {
		matches[i] = core.ChunkMatch{
			Chunk: &core.Chunk{
				ID:      core.MakeChunkID(paperID, 0),
				PaperID: paperID,
				Text:    "chunk text for " + paperID,
			},
			Score: float32(1.0) - float32(i)*0.1,
		}
	}
	return matches
}

func TestNewEngine(t *testing.T) {
	paperRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	t.Run("valid configuration", func(t *testing.T) {
		engine, err := NewEngine(&stubRetriever{}, paperRepo)
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("nil retriever", func(t *testing.T) {
		_, err := NewEngine(nil, paperRepo)
		assert.Equal(t, ErrRetrieverRequired, err)
	})

	t.Run("nil paper repository", func(t *testing.T) {
		_, err := NewEngine(&stubRetriever{}, nil)
		assert.Equal(t, ErrPaperRepositoryRequired, err)
	})
}

func TestAnswer_NoData(t *testing.T) {
	t.Run("index not built", func(t *testing.T) {
		engine := newTestEngine(t, &stubRetriever{err: index.ErrIndexNotBuilt})

		result, err := engine.Answer(context.Background(), graph.New(), "anything", 5)
		require.NoError(t, err)
		assert.Equal(t, NoDataAnswer, result.Answer)
		assert.Empty(t, result.Sources)
		assert.Empty(t, result.Path)
		assert.Empty(t, result.Subgraph.Nodes)
		assert.Empty(t, result.Subgraph.Edges)
		assert.False(t, result.Degraded)
	})

	t.Run("empty matches", func(t *testing.T) {
		engine := newTestEngine(t, &stubRetriever{})

		result, err := engine.Answer(context.Background(), graph.New(), "anything", 5)
		require.NoError(t, err)
		assert.Equal(t, NoDataAnswer, result.Answer)
	})

	t.Run("other retrieval errors propagate", func(t *testing.T) {
		retrievalErr := errors.New("backend down")
		engine := newTestEngine(t, &stubRetriever{err: retrievalErr})

		_, err := engine.Answer(context.Background(), graph.New(), "anything", 5)
		assert.ErrorIs(t, err, retrievalErr)
	})
}

func TestAnswer_TraversalDeterminism(t *testing.T) {
	// Ordered papers [p1, p2, p3]; p1-p2 share x, p3 is disconnected:
	// expected path p1 -> (x) -> p2 -> (jump) -> p3.
	engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2", "p3")})

	result, err := engine.Answer(context.Background(), threePaperGraph(), "compare methods", 5)
	require.NoError(t, err)

	require.Len(t, result.Path, 3)
	assert.Equal(t, "p1", result.Path[0].PaperID)
	assert.False(t, result.Path[0].Linked)

	assert.Equal(t, "p2", result.Path[1].PaperID)
	assert.True(t, result.Path[1].Linked)
	assert.Equal(t, []string{"x"}, result.Path[1].Concepts)

	assert.Equal(t, "p3", result.Path[2].PaperID)
	assert.False(t, result.Path[2].Linked)
	assert.Empty(t, result.Path[2].Concepts)
}

func TestAnswer_SourcesAndTitles(t *testing.T) {
	engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2")})

	result, err := engine.Answer(context.Background(), threePaperGraph(), "q", 5)
	require.NoError(t, err)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "First Paper", result.Sources[0].Title)
	assert.Equal(t, "Second Paper", result.Sources[1].Title)
	assert.Equal(t, core.MakeChunkID("p1", 0), result.Sources[0].ChunkID)
	assert.GreaterOrEqual(t, result.Sources[0].Score, result.Sources[1].Score)
}

func TestAnswer_FallbackNamesTitles(t *testing.T) {
	// No synthesizer configured: the heuristic answer names both titles.
	engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2")})

	result, err := engine.Answer(context.Background(), threePaperGraph(), "compare methods", 3)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Answer)
	assert.Contains(t, result.Answer, "First Paper")
	assert.Contains(t, result.Answer, "Second Paper")
	assert.False(t, result.Degraded)
}

func TestAnswer_Synthesis(t *testing.T) {
	t.Run("synthesizer answer is used", func(t *testing.T) {
		synthesizer := mock.NewMockSynthesizer()
		synthesizer.SynthesizeFunc = func(_ context.Context, _ string) (string, error) {
			return "synthesized answer", nil
		}
		engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1")},
			WithSynthesizer(synthesizer))

		result, err := engine.Answer(context.Background(), threePaperGraph(), "q", 5)
		require.NoError(t, err)
		assert.Equal(t, "synthesized answer", result.Answer)
		assert.False(t, result.Degraded)
	})

	t.Run("synthesizer failure falls back and flags degraded", func(t *testing.T) {
		synthesizer := mock.NewMockSynthesizer()
		synthesizer.SynthesizeFunc = func(_ context.Context, _ string) (string, error) {
			return "", errors.New("llm down")
		}
		engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2")},
			WithSynthesizer(synthesizer), WithSynthesisTimeout(time.Second))

		result, err := engine.Answer(context.Background(), threePaperGraph(), "q", 5)
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Contains(t, result.Answer, "First Paper")
	})
}

func TestAnswer_Subgraph(t *testing.T) {
	engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2")})

	result, err := engine.Answer(context.Background(), threePaperGraph(), "q", 5)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, node := range result.Subgraph.Nodes {
		ids[node.ID] = true
	}
	assert.True(t, ids["p1"])
	assert.True(t, ids["p2"])
	assert.True(t, ids["concept::x"])
	assert.False(t, ids["p3"])
}

func TestAnswer_Monitor(t *testing.T) {
	engine := newTestEngine(t, &stubRetriever{matches: matchesFor("p1", "p2")})

	monitor := &recordingMonitor{}
	result, err := engine.AnswerWithMonitor(context.Background(), threePaperGraph(), "q", 5, monitor)
	require.NoError(t, err)

	assert.Equal(t, "q", monitor.question)
	assert.Len(t, monitor.matches, 2)
	assert.Equal(t, []string{"p1", "p2"}, monitor.paperIDs)
	assert.Len(t, monitor.path, 2)
	assert.Same(t, result, monitor.result)
}

type recordingMonitor struct {
	question string
	matches  []core.ChunkMatch
	paperIDs []string
	path     []Step
	result   *Result
}

func (r *recordingMonitor) Start(question string)                   { r.question = question }
func (r *recordingMonitor) AfterRetrieval(matches []core.ChunkMatch) { r.matches = matches }
func (r *recordingMonitor) AfterPaperResolution(paperIDs []string)  { r.paperIDs = paperIDs }
func (r *recordingMonitor) AfterTraversal(path []Step)              { r.path = path }
func (r *recordingMonitor) AfterSubgraph(_ *graph.Graph)            {}
func (r *recordingMonitor) SynthesisFallback(_ error)               {}
func (r *recordingMonitor) Finish(result *Result)                   { r.result = result }
