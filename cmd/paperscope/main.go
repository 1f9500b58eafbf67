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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/paperscope"
	"github.com/poiesic/paperscope/ai"
	"github.com/poiesic/paperscope/ingest"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "paperscope",
		Usage: "Knowledge graph builder and query engine for research papers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a text file or a directory of text files into the registry",
				ArgsUsage: "<path>",
				Action:    ingestCommand,
				Flags: append(dbFlags(),
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk window size in words",
						Value: ingest.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Words shared between consecutive chunks",
						Value: ingest.DefaultOverlap,
					},
				),
			},
			{
				Name:   "papers",
				Usage:  "List ingested papers in ingestion order",
				Action: papersCommand,
				Flags:  dbFlags(),
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild the embedding index and knowledge graph from the registry",
				Action: rebuildCommand,
				Flags:  append(dbFlags(), aiFlags()...),
			},
			{
				Name:      "query",
				Usage:     "Answer a question over the corpus (rebuilds derived state first)",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append(append(dbFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full result bundle as JSON",
					},
				),
			},
			{
				Name:   "graph",
				Usage:  "Dump the knowledge graph as JSON (rebuilds derived state first)",
				Action: graphCommand,
				Flags:  append(dbFlags(), aiFlags()...),
			},
			{
				Name:      "explain",
				Usage:     "Summarize a graph node's neighborhood (rebuilds derived state first)",
				ArgsUsage: "<node-id>",
				Action:    explainCommand,
				Flags:     append(dbFlags(), aiFlags()...),
			},
			{
				Name:   "clear",
				Usage:  "Remove all papers, chunks, and derived state",
				Action: clearCommand,
				Flags:  dbFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "extractor-host",
			Usage: "Keyphrase extraction service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Keyphrase extraction model name",
		},
		&cli.StringFlag{
			Name:  "synthesis-host",
			Usage: "Answer synthesis service host URL (synthesis disabled when empty)",
		},
		&cli.StringFlag{
			Name:  "synthesis-model",
			Usage: "Answer synthesis model name",
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
		opts = append(opts, ai.WithExtractorHost(host))
	}
	if host := c.String("extractor-host"); host != "" {
		opts = append(opts, ai.WithExtractorHost(host))
	}

	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("extractor-model"); model != "" {
		opts = append(opts, ai.WithExtractorModel(model))
	}
	if host := c.String("synthesis-host"); host != "" {
		opts = append(opts, ai.WithSynthesisHost(host))
		if model := c.String("synthesis-model"); model != "" {
			opts = append(opts, ai.WithSynthesisModel(model))
		}
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openCorpus(c *cli.Context) (*paperscope.Corpus, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}

	chunker := &ingest.Chunker{
		Size:    c.Int("chunk-size"),
		Overlap: c.Int("chunk-overlap"),
	}
	if chunker.Size <= 0 {
		chunker = ingest.NewChunker()
	}

	corpus, err := paperscope.NewCorpus(c.String("db"),
		paperscope.WithAIConfig(config),
		paperscope.WithChunker(chunker),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	return corpus, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path to a file or directory is required")
	}

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		count, err := corpus.IngestDir(ctx, path)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Ingested %d paper(s) from %s\n", count, path)
		return nil
	}

	chunker := &ingest.Chunker{Size: c.Int("chunk-size"), Overlap: c.Int("chunk-overlap")}
	document, err := ingest.LoadFile(path, chunker)
	if err != nil {
		return err
	}
	if err := corpus.IngestDocument(ctx, document); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Ingested %q as %s (%d chunks)\n", document.Title, document.PaperID, len(document.Chunks))
	return nil
}

func papersCommand(c *cli.Context) error {
	ctx := context.Background()

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	papers, err := corpus.Papers(ctx)
	if err != nil {
		return err
	}

	for _, paper := range papers {
		fmt.Printf("%s\t%s\t%d chunks\n", paper.ID, paper.Title, len(paper.ChunkIDs))
	}
	fmt.Fprintf(os.Stderr, "%d paper(s)\n", len(papers))
	return nil
}

func rebuildCommand(c *cli.Context) error {
	ctx := context.Background()

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	summary, err := corpus.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Rebuilt: %d paper(s), %d chunk(s), %d node(s), %d edge(s)\n",
		summary.Papers, summary.Chunks, summary.Nodes, summary.Edges)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	// Derived state lives for the process lifetime only; rebuild before use.
	if _, err := corpus.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	result, err := corpus.Query(ctx, question, c.Int("top"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if c.Bool("json") {
		return printJSON(result)
	}

	fmt.Println(result.Answer)
	if result.Degraded {
		fmt.Fprintln(os.Stderr, "\n(synthesis unavailable, heuristic answer shown)")
	}
	if len(result.Sources) > 0 {
		fmt.Fprintln(os.Stderr, "\nSources:")
		for _, source := range result.Sources {
			fmt.Fprintf(os.Stderr, "  %s  %s  (%.3f)\n", source.ChunkID, source.Title, source.Score)
		}
	}
	return nil
}

func graphCommand(c *cli.Context) error {
	ctx := context.Background()

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	if _, err := corpus.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	return printJSON(corpus.Graph())
}

func explainCommand(c *cli.Context) error {
	ctx := context.Background()

	nodeID := c.Args().First()
	if nodeID == "" {
		return fmt.Errorf("a node id is required")
	}

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	if _, err := corpus.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	explanation, err := corpus.ExplainNode(ctx, nodeID)
	if err != nil {
		return err
	}
	return printJSON(explanation)
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	corpus, err := openCorpus(c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	if err := corpus.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Cleared all corpus state")
	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
