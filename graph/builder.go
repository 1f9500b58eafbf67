package graph

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/paperscope/ai"
	"github.com/poiesic/paperscope/core"
)

// Config holds tuning knobs for the graph builder. The defaults are
// heuristics, not derived constants; they are configuration on purpose.
type Config struct {
	// MaxConceptsPerPaper bounds how many top-ranked keyphrase candidates a
	// single paper contributes. Default: 10.
	MaxConceptsPerPaper int

	// TextBudget caps how many characters of a paper's concatenated chunk
	// text are handed to the extractor, keeping extraction cost predictable.
	// Default: 16000.
	TextBudget int

	// PoolSize is the number of concurrent extraction workers.
	// Default: runtime.NumCPU() / 2, minimum 1.
	PoolSize int
}

// DefaultConfig returns the default builder configuration.
func DefaultConfig() Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return Config{
		MaxConceptsPerPaper: 10,
		TextBudget:          16000,
		PoolSize:            poolSize,
	}
}

// Builder produces the knowledge graph from the current paper registry.
// Per-paper extraction calls run concurrently; graph assembly is sequential
// and deterministic: paper ingestion order first, extraction rank order
// second, never map iteration order.
type Builder struct {
	extractor ai.KeyphraseExtractor
	config    Config
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithConfig replaces the builder configuration. Zero fields fall back to
// their defaults.
func WithConfig(config Config) Option {
	return func(b *Builder) error {
		defaults := DefaultConfig()
		if config.MaxConceptsPerPaper <= 0 {
			config.MaxConceptsPerPaper = defaults.MaxConceptsPerPaper
		}
		if config.TextBudget <= 0 {
			config.TextBudget = defaults.TextBudget
		}
		if config.PoolSize <= 0 {
			config.PoolSize = defaults.PoolSize
		}

		if config.PoolSize != b.config.PoolSize {
			if b.pool != nil {
				b.pool.Release()
			}
			pool, err := ants.NewPool(config.PoolSize)
			if err != nil {
				return err
			}
			b.pool = pool
		}
		b.config = config
		return nil
	}
}

// NewBuilder creates a new graph builder.
func NewBuilder(extractor ai.KeyphraseExtractor, opts ...Option) (*Builder, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	config := DefaultConfig()
	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		extractor: extractor,
		config:    config,
		pool:      pool,
		logger:    slog.Default().With("component", "graph-builder"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Release frees the extraction worker pool.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build produces a fresh graph from the given papers and chunks. A failure
// to extract concepts for one paper degrades that paper to an isolated node;
// it never aborts the build. Context cancellation aborts the build.
func (b *Builder) Build(ctx context.Context, papers []*core.Paper, chunks []*core.Chunk) (*Graph, error) {
	b.logger.Info("building knowledge graph", "papers", len(papers), "chunks", len(chunks))

	chunksByPaper := make(map[string][]*core.Chunk, len(papers))
	for _, chunk := range chunks {
		chunksByPaper[chunk.PaperID] = append(chunksByPaper[chunk.PaperID], chunk)
	}

	// Extract keyphrases concurrently; results land in per-paper slots so
	// assembly order does not depend on completion order.
	extracted := make([][]ai.Keyphrase, len(papers))
	var wg sync.WaitGroup
	for i, paper := range papers {
		i, paper := i, paper
		text := b.paperText(chunksByPaper[paper.ID])

		wg.Add(1)
		task := func() {
			defer wg.Done()
			phrases, err := b.extractor.ExtractKeyphrases(ctx, text, b.config.MaxConceptsPerPaper)
			if err != nil {
				// Recoverable: the paper stays in the graph without concepts.
				b.logger.Warn("keyphrase extraction failed, paper degrades to isolated node",
					"paper", paper.ID, "err", err)
				return
			}
			extracted[i] = phrases
		}
		if err := b.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := New()
	for _, paper := range papers {
		g.AddNode(paper.ID, NodePaper, paper.Title)
	}

	// Mentions edges, papers in ingestion order, candidates in rank order.
	conceptOrder := make([][]string, len(papers))
	for i, paper := range papers {
		seen := make(map[string]bool)
		for _, candidate := range extracted[i] {
			conceptID := core.NormalizeConceptID(candidate.Phrase)
			if conceptID == core.ConceptPrefix {
				continue
			}

			node := g.AddNode(conceptID, NodeConcept, normalizedLabel(candidate.Phrase))
			g.UpsertEdge(paper.ID, conceptID, EdgeMentions, candidate.Score)

			// Mentions counts papers, not candidates: near-duplicate phrases
			// from the same paper collapse to one mention.
			if !seen[conceptID] {
				seen[conceptID] = true
				node.Mentions++
				conceptOrder[i] = append(conceptOrder[i], conceptID)
			}
		}
	}

	// Shared-concept edges run strictly after all mentions are materialized.
	for i := range papers {
		for j := i + 1; j < len(papers); j++ {
			weight := 0.0
			shared := false
			for _, conceptID := range conceptOrder[i] {
				edgeA := g.Edge(papers[i].ID, conceptID, EdgeMentions)
				edgeB := g.Edge(papers[j].ID, conceptID, EdgeMentions)
				if edgeB == nil {
					continue
				}
				shared = true
				weight += min(edgeA.Weight, edgeB.Weight)
			}
			if shared {
				g.UpsertEdge(papers[i].ID, papers[j].ID, EdgeSharesConcept, weight)
			}
		}
	}

	b.logger.Info("knowledge graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// paperText concatenates a paper's chunk texts up to the configured budget.
func (b *Builder) paperText(chunks []*core.Chunk) string {
	var sb strings.Builder
	for _, chunk := range chunks {
		if sb.Len() >= b.config.TextBudget {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		remaining := b.config.TextBudget - sb.Len()
		if len(chunk.Text) > remaining {
			sb.WriteString(core.TruncateText(chunk.Text, remaining))
			break
		}
		sb.WriteString(chunk.Text)
	}
	return sb.String()
}

// normalizedLabel is the display form of a concept: the normalized phrase
// without the id prefix.
func normalizedLabel(phrase string) string {
	return strings.TrimPrefix(core.NormalizeConceptID(phrase), core.ConceptPrefix)
}
