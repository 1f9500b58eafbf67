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

package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/paperscope/ai"
	"github.com/poiesic/paperscope/core"
	"github.com/poiesic/paperscope/graph"
	"github.com/poiesic/paperscope/index"
	"github.com/poiesic/paperscope/storage"
)

// NoDataAnswer is the fixed answer returned when the index holds no papers.
const NoDataAnswer = "No papers available. Ingest papers and rebuild before querying."

// Retriever finds the chunks most similar to a question.
// *index.Index satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]core.ChunkMatch, error)
}

// Result is the full answer bundle for one question.
type Result struct {
	Answer   string             `json:"answer"`
	Sources  []core.SourceChunk `json:"sources"`
	Path     []Step             `json:"path"`
	Subgraph graph.Dump         `json:"subgraph"`
	// Degraded marks that a configured synthesizer failed and the answer
	// fell back to the deterministic heuristic. It is informational only.
	Degraded bool `json:"degraded,omitempty"`
}

// Engine answers questions using retrieval plus graph context.
// Each call is a single pass with no state carried between queries.
type Engine struct {
	retriever        Retriever
	paperRepository  storage.PaperRepository
	synthesizer      ai.Synthesizer
	synthesisTimeout time.Duration
	logger           *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithSynthesizer enables LLM synthesis. A nil synthesizer leaves the
// deterministic heuristic answer in place, which is a normal configuration.
func WithSynthesizer(synthesizer ai.Synthesizer) Option {
	return func(e *Engine) error {
		e.synthesizer = synthesizer
		return nil
	}
}

// WithSynthesisTimeout bounds each synthesis call.
// Default is 45 seconds.
func WithSynthesisTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout > 0 {
			e.synthesisTimeout = timeout
		}
		return nil
	}
}

// NewEngine creates a new query engine.
func NewEngine(retriever Retriever, paperRepository storage.PaperRepository, opts ...Option) (*Engine, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if paperRepository == nil {
		return nil, ErrPaperRepositoryRequired
	}

	e := &Engine{
		retriever:        retriever,
		paperRepository:  paperRepository,
		synthesisTimeout: 45 * time.Second,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Answer runs the full query pipeline: retrieve, resolve papers, traverse,
// extract the induced subgraph, and synthesize or fall back.
func (e *Engine) Answer(ctx context.Context, g *graph.Graph, question string, k int) (*Result, error) {
	return e.AnswerWithMonitor(ctx, g, question, k, nil)
}

// AnswerWithMonitor runs Answer with stage callbacks.
// The monitor receives intermediate results at each pipeline stage.
func (e *Engine) AnswerWithMonitor(ctx context.Context, g *graph.Graph, question string, k int, monitor QueryMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	matches, err := e.retriever.Search(ctx, question, k)
	if err != nil {
		if errors.Is(err, index.ErrIndexNotBuilt) {
			result := noDataResult()
			monitor.Finish(result)
			return result, nil
		}
		e.logger.Error("retrieval failed", "question", question, "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(matches)

	if len(matches) == 0 {
		result := noDataResult()
		monitor.Finish(result)
		return result, nil
	}

	sources, papers := e.resolvePapers(ctx, g, matches)
	paperIDs := make([]string, len(papers))
	for i, paper := range papers {
		paperIDs[i] = paper.id
	}
	monitor.AfterPaperResolution(paperIDs)

	path := traverse(g, papers)
	monitor.AfterTraversal(path)

	subgraph := g.Induced(paperIDs)
	monitor.AfterSubgraph(subgraph)

	result := &Result{
		Sources:  sources,
		Path:     path,
		Subgraph: subgraph.Dump(),
	}

	if e.synthesizer != nil {
		prompt := buildPrompt(question, sources, path)
		answer, synthErr := e.synthesize(ctx, prompt)
		if synthErr == nil {
			result.Answer = answer
			monitor.Finish(result)
			return result, nil
		}
		// Synthesis failure never fails the query.
		e.logger.Warn("synthesis failed, falling back to heuristic answer", "err", synthErr)
		monitor.SynthesisFallback(synthErr)
		result.Degraded = true
	}

	result.Answer = heuristicAnswer(question, sources, path)
	monitor.Finish(result)
	return result, nil
}

// resolvePapers enriches matches into source chunks and derives the ordered
// paper list: papers ranked by their best-scoring chunk, deduplicated.
func (e *Engine) resolvePapers(ctx context.Context, g *graph.Graph, matches []core.ChunkMatch) ([]core.SourceChunk, []orderedPaper) {
	sources := make([]core.SourceChunk, 0, len(matches))
	papers := make([]orderedPaper, 0, len(matches))
	titles := make(map[string]string, len(matches))

	for _, match := range matches {
		title, seen := titles[match.Chunk.PaperID]
		if !seen {
			title = e.paperTitle(ctx, g, match.Chunk.PaperID)
			titles[match.Chunk.PaperID] = title
			papers = append(papers, orderedPaper{id: match.Chunk.PaperID, title: title})
		}

		sources = append(sources, core.SourceChunk{
			ChunkID: match.Chunk.ID,
			PaperID: match.Chunk.PaperID,
			Title:   title,
			Text:    match.Chunk.Text,
			Score:   match.Score,
		})
	}

	return sources, papers
}

// paperTitle resolves a paper's title from the registry, falling back to the
// graph node label and finally the raw id. A title lookup miss degrades the
// display name, never the query.
func (e *Engine) paperTitle(ctx context.Context, g *graph.Graph, paperID string) string {
	paper, err := e.paperRepository.GetPaper(ctx, paperID)
	if err == nil {
		return paper.Title
	}
	e.logger.Warn("paper title lookup failed", "paper", paperID, "err", err)

	if node := g.Node(paperID); node != nil && node.Label != "" {
		return node.Label
	}
	return paperID
}

func (e *Engine) synthesize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.synthesisTimeout)
	defer cancel()
	return e.synthesizer.Synthesize(ctx, prompt)
}

func noDataResult() *Result {
	return &Result{
		Answer:  NoDataAnswer,
		Sources: []core.SourceChunk{},
		Path:    []Step{},
		Subgraph: graph.Dump{
			Nodes: []*graph.Node{},
			Edges: []*graph.Edge{},
		},
	}
}
