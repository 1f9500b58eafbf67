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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/paperscope/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// KeyphraseExtractor implements ai.KeyphraseExtractor using OpenAI-compatible
// chat APIs.
type KeyphraseExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// keyphrase is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// extraction is the wrapper structure for the LLM's JSON response.
type extraction struct {
	Keyphrases []keyphrase `json:"keyphrases"`
}

// newKeyphraseExtractor is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newKeyphraseExtractor(config *ai.Config) (*KeyphraseExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &KeyphraseExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewKeyphraseExtractor creates a new keyphrase extractor using the provided
// configuration.
//
// Returns ai.KeyphraseExtractor interface to enforce abstraction.
func NewKeyphraseExtractor(config *ai.Config) (ai.KeyphraseExtractor, error) {
	return newKeyphraseExtractor(config)
}

// ExtractKeyphrases extracts ranked keyphrases from text using an LLM.
// The response is clamped to maxCandidates and sorted by descending score.
func (e *KeyphraseExtractor) ExtractKeyphrases(ctx context.Context, text string, maxCandidates int) ([]ai.Keyphrase, error) {
	if maxCandidates <= 0 {
		return []ai.Keyphrase{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildKeyphraseSystemPrompt(maxCandidates)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.Keyphrase{}, nil
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	extracted := make([]ai.Keyphrase, 0, len(result.Keyphrases))
	for _, kp := range result.Keyphrases {
		phrase := strings.TrimSpace(kp.Phrase)
		if phrase == "" {
			continue
		}
		extracted = append(extracted, ai.Keyphrase{Phrase: phrase, Score: kp.Score})
	}

	// The model is asked for descending order; enforce it anyway.
	slices.SortStableFunc(extracted, func(a, b ai.Keyphrase) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(extracted) > maxCandidates {
		extracted = extracted[:maxCandidates]
	}

	e.logger.Debug("extracted keyphrases",
		"total", len(result.Keyphrases),
		"kept", len(extracted))

	return extracted, nil
}
