// Package ingest turns source files into papers and ordered chunks:
// stable filename-derived ids, a first-line title heuristic, and
// overlapping word-window chunking.
package ingest
