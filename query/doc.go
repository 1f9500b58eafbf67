// Package query answers natural-language questions over the paper corpus.
// It combines embedding retrieval with a greedy walk over the knowledge
// graph, then synthesizes an answer via an LLM or a deterministic fallback.
package query
