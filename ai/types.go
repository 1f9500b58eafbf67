package ai

// Keyphrase is a candidate concept phrase extracted from a paper's text.
type Keyphrase struct {
	// Phrase is the surface form of the keyphrase, e.g. "transformer models".
	Phrase string

	// Score is the extraction confidence. Extractors return keyphrases ordered
	// by descending score; the absolute scale is extractor-specific.
	Score float64
}
