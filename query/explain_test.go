package query

import (
	"context"
	"testing"

	"github.com/poiesic/paperscope/ai/mock"
	"github.com/poiesic/paperscope/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainNode(t *testing.T) {
	engine := newTestEngine(t, &stubRetriever{})
	g := threePaperGraph()

	t.Run("unknown node", func(t *testing.T) {
		_, err := engine.ExplainNode(context.Background(), g, "missing")
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("paper node neighbors ranked by weight", func(t *testing.T) {
		explanation, err := engine.ExplainNode(context.Background(), g, "p1")
		require.NoError(t, err)

		assert.Equal(t, "p1", explanation.NodeID)
		assert.Equal(t, graph.NodePaper, explanation.Type)
		assert.NotEmpty(t, explanation.Text)

		require.Len(t, explanation.Neighbors, 2)
		// Mentions edge to x (0.9) outranks the shares_concept edge (0.8).
		assert.Equal(t, "concept::x", explanation.Neighbors[0].ID)
		assert.Equal(t, 0.9, explanation.Neighbors[0].Weight)
		assert.Equal(t, "p2", explanation.Neighbors[1].ID)
	})

	t.Run("isolated node", func(t *testing.T) {
		explanation, err := engine.ExplainNode(context.Background(), g, "p3")
		require.NoError(t, err)
		assert.Empty(t, explanation.Neighbors)
		assert.Contains(t, explanation.Text, "no graph connections")
	})

	t.Run("synthesizer polish replaces heuristic text", func(t *testing.T) {
		synthesizer := mock.NewMockSynthesizer()
		synthesizer.SynthesizeFunc = func(_ context.Context, _ string) (string, error) {
			return "polished explanation", nil
		}
		polished := newTestEngine(t, &stubRetriever{}, WithSynthesizer(synthesizer))

		explanation, err := polished.ExplainNode(context.Background(), g, "concept::x")
		require.NoError(t, err)
		assert.Equal(t, "polished explanation", explanation.Text)
	})
}
