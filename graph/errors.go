package graph

import "errors"

var (
	// ErrExtractorRequired is returned when a keyphrase extractor is not provided.
	ErrExtractorRequired = errors.New("keyphrase extractor required")
)
