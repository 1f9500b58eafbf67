// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package paperscope

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/paperscope/ai"
	"github.com/poiesic/paperscope/ai/openai"
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/graph"
	"github.com/poiesic/paperscope/index"
	"github.com/poiesic/paperscope/ingest"
	"github.com/poiesic/paperscope/query"
	"github.com/poiesic/paperscope/storage"
	"github.com/poiesic/paperscope/storage/badger"
)

// Corpus is the top-level handle over the paper registry, the embedding
// index, the knowledge graph, and the query engine.
//
// Papers and chunks are durable inputs; the index and graph are derived
// state, rebuilt in full by Rebuild. Queries read whichever graph snapshot
// was last published, so readers never observe a half-built graph.
type Corpus struct {
	backend   *badger.Backend
	paperRepo storage.PaperRepository
	chunkRepo storage.ChunkRepository
	provider  ai.AIProvider
	idx       *index.Index
	builder   *graph.Builder
	engine    *query.Engine
	chunker   *ingest.Chunker
	logger    *slog.Logger

	// buildMu serializes rebuilds; mu guards the published index+graph pair.
	// Readers hold mu for the whole query so they never observe an index
	// from one build paired with a graph from another.
	buildMu sync.Mutex
	mu      sync.RWMutex
	graph   *graph.Graph
}

// BuildSummary reports the outcome of one rebuild.
type BuildSummary struct {
	Papers int `json:"papers"`
	Chunks int `json:"chunks"`
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
}

// CorpusOption configures a Corpus.
type CorpusOption func(*corpusOptions)

type corpusOptions struct {
	aiConfig         *ai.Config
	provider         ai.AIProvider
	graphConfig      *graph.Config
	chunker          *ingest.Chunker
	synthesisTimeout time.Duration
	logger           *slog.Logger
}

// WithAIConfig sets the AI adapter configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) CorpusOption {
	return func(o *corpusOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// OpenAI-compatible one. Used by tests with the mock provider.
func WithProvider(provider ai.AIProvider) CorpusOption {
	return func(o *corpusOptions) {
		o.provider = provider
	}
}

// WithGraphConfig tunes the graph builder.
func WithGraphConfig(config graph.Config) CorpusOption {
	return func(o *corpusOptions) {
		o.graphConfig = &config
	}
}

// WithChunker replaces the default chunker used for file ingestion.
func WithChunker(chunker *ingest.Chunker) CorpusOption {
	return func(o *corpusOptions) {
		o.chunker = chunker
	}
}

// WithSynthesisTimeout bounds each synthesis call made by the query engine.
func WithSynthesisTimeout(timeout time.Duration) CorpusOption {
	return func(o *corpusOptions) {
		o.synthesisTimeout = timeout
	}
}

// WithCorpusLogger sets a custom logger.
func WithCorpusLogger(logger *slog.Logger) CorpusOption {
	return func(o *corpusOptions) {
		o.logger = logger
	}
}

// NewCorpus opens a disk-backed corpus at filePath.
func NewCorpus(filePath string, opts ...CorpusOption) (*Corpus, error) {
	return newCorpus(filePath, false, opts...)
}

// NewMemoryCorpus opens a corpus backed by in-memory storage.
// Intended for tests and ephemeral sessions.
func NewMemoryCorpus(opts ...CorpusOption) (*Corpus, error) {
	return newCorpus("", true, opts...)
}

func newCorpus(filePath string, inMemory bool, opts ...CorpusOption) (*Corpus, error) {
	options := &corpusOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		paperRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			paperRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	idx, err := index.New(provider.Embedder(), index.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		chunkRepo.Close()
		paperRepo.Close()
		backend.Close()
		return nil, err
	}

	builderOpts := []graph.Option{graph.WithLogger(options.logger)}
	if options.graphConfig != nil {
		builderOpts = append(builderOpts, graph.WithConfig(*options.graphConfig))
	}
	builder, err := graph.NewBuilder(provider.KeyphraseExtractor(), builderOpts...)
	if err != nil {
		provider.Close()
		chunkRepo.Close()
		paperRepo.Close()
		backend.Close()
		return nil, err
	}

	engineOpts := []query.Option{
		query.WithLogger(options.logger),
		query.WithSynthesizer(provider.Synthesizer()),
	}
	if options.synthesisTimeout > 0 {
		engineOpts = append(engineOpts, query.WithSynthesisTimeout(options.synthesisTimeout))
	}
	engine, err := query.NewEngine(idx, paperRepo, engineOpts...)
	if err != nil {
		builder.Release()
		provider.Close()
		chunkRepo.Close()
		paperRepo.Close()
		backend.Close()
		return nil, err
	}

	chunker := options.chunker
	if chunker == nil {
		chunker = ingest.NewChunker()
	}

	return &Corpus{
		backend:   backend,
		paperRepo: paperRepo,
		chunkRepo: chunkRepo,
		provider:  provider,
		idx:       idx,
		builder:   builder,
		engine:    engine,
		chunker:   chunker,
		logger:    options.logger,
	}, nil
}

// Close releases every component. The corpus is unusable afterwards.
func (c *Corpus) Close() error {
	c.builder.Release()

	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}
	if err := c.chunkRepo.Close(); err != nil {
		c.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := c.paperRepo.Close(); err != nil {
		c.logger.Error("error closing paper repository", "err", err)
		return err
	}
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Ingest registers one paper and its ordered chunk texts. Validation runs
// before any state changes; re-ingesting a paper id replaces its chunks and
// keeps its registry slot. The index and graph are not touched until the
// next Rebuild.
func (c *Corpus) Ingest(ctx context.Context, paperID, title string, chunkTexts []string) error {
	if err := core.ValidateIngestion(paperID, title, chunkTexts); err != nil {
		return err
	}

	now := time.Now()
	chunks := make([]*core.Chunk, len(chunkTexts))
	chunkIDs := make([]string, len(chunkTexts))
	for i, text := range chunkTexts {
		chunkIDs[i] = core.MakeChunkID(paperID, i)
		chunks[i] = &core.Chunk{
			ID:      chunkIDs[i],
			PaperID: paperID,
			Index:   i,
			Text:    text,
		}
	}

	paper := &core.Paper{
		ID:         paperID,
		Title:      title,
		ChunkIDs:   chunkIDs,
		IngestedAt: now,
		UpdatedAt:  now,
	}

	if _, err := c.paperRepo.AddPaper(ctx, paper); err != nil {
		return err
	}
	if err := c.chunkRepo.ReplaceChunks(ctx, paperID, chunks); err != nil {
		return err
	}

	c.logger.Info("ingested paper", "paper", paperID, "title", title, "chunks", len(chunks))
	return nil
}

// IngestDocument ingests a loaded document.
func (c *Corpus) IngestDocument(ctx context.Context, document *ingest.Document) error {
	return c.Ingest(ctx, document.PaperID, document.Title, document.Chunks)
}

// IngestDir loads and ingests every text document in dir.
// Returns how many papers were ingested.
func (c *Corpus) IngestDir(ctx context.Context, dir string) (int, error) {
	documents, err := ingest.LoadDir(dir, c.chunker)
	if err != nil {
		return 0, err
	}
	for _, document := range documents {
		if err := c.IngestDocument(ctx, document); err != nil {
			return 0, err
		}
	}
	return len(documents), nil
}

// Rebuild derives the embedding index and knowledge graph from the current
// registry. The previous index and graph stay live until their replacements
// are complete; any failure aborts the rebuild and leaves both untouched.
// Rebuilds are serialized.
func (c *Corpus) Rebuild(ctx context.Context) (*BuildSummary, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	papers, err := c.paperRepo.ListPapers(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := c.chunkRepo.ListChunks(ctx, papers)
	if err != nil {
		return nil, err
	}

	// Both derived structures are built off to the side and published in one
	// step, so readers see either the previous index+graph pair or the new
	// one, never a mix.
	prepared, err := c.idx.Prepare(ctx, chunks)
	if err != nil {
		return nil, err
	}

	g, err := c.builder.Build(ctx, papers, chunks)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.idx.Install(prepared)
	c.graph = g
	c.mu.Unlock()

	summary := &BuildSummary{
		Papers: len(papers),
		Chunks: len(chunks),
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
	}
	c.logger.Info("rebuild complete",
		"papers", summary.Papers, "chunks", summary.Chunks,
		"nodes", summary.Nodes, "edges", summary.Edges)
	return summary, nil
}

// Query answers a question over the current index and graph snapshot.
// The read lock is held for the whole query so a concurrent Rebuild cannot
// slide a new index under a path computed against the old graph.
func (c *Corpus) Query(ctx context.Context, question string, k int) (*query.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Answer(ctx, c.currentGraph(), question, k)
}

// ExplainNode summarizes a graph node's neighborhood.
func (c *Corpus) ExplainNode(ctx context.Context, nodeID string) (*query.NodeExplanation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.ExplainNode(ctx, c.currentGraph(), nodeID)
}

// Graph returns the published knowledge graph as a serializable dump.
// Before the first rebuild, or after ClearAll, the dump is empty.
func (c *Corpus) Graph() graph.Dump {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentGraph().Dump()
}

// Papers lists all ingested papers in ingestion order.
func (c *Corpus) Papers(ctx context.Context) ([]*core.Paper, error) {
	return c.paperRepo.ListPapers(ctx)
}

// ClearAll resets papers, chunks, the index, and the graph to empty.
// Subsequent queries return the no-data answer until re-ingestion.
func (c *Corpus) ClearAll(ctx context.Context) error {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	if err := c.chunkRepo.Clear(ctx); err != nil {
		return err
	}
	if err := c.paperRepo.Clear(ctx); err != nil {
		return err
	}

	// Index and graph are dropped together under the write lock, so readers
	// go from the old pair straight to the empty pair.
	c.mu.Lock()
	c.idx.Clear()
	c.graph = nil
	c.mu.Unlock()

	c.logger.Info("cleared all corpus state")
	return nil
}

// currentGraph returns the published graph, never nil.
// Callers must hold c.mu.
func (c *Corpus) currentGraph() *graph.Graph {
	if c.graph == nil {
		return graph.New()
	}
	return c.graph
}
