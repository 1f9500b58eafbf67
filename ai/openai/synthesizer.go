package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/paperscope/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Synthesizer implements ai.Synthesizer using OpenAI-compatible chat APIs.
type Synthesizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSynthesizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSynthesizer(config *ai.Config) (*Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.SynthesisEnabled() {
		return nil, errors.New("synthesis is not configured")
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.SynthesisHost),
		openai.WithToken("none"),
		openai.WithModel(config.SynthesisModel),
	)
	if err != nil {
		return nil, err
	}

	return &Synthesizer{
		client: client,
		logger: slog.Default().With("component", "openai-synthesizer"),
	}, nil
}

// NewSynthesizer creates a new synthesizer using the provided configuration.
//
// Returns ai.Synthesizer interface to enforce abstraction.
func NewSynthesizer(config *ai.Config) (ai.Synthesizer, error) {
	return newSynthesizer(config)
}

// Synthesize generates a comparative research answer for the given prompt.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	s.logger.Debug("synthesizing answer", "promptLength", len(prompt))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(synthesisSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		s.logger.Error("failed to synthesize answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", errors.New("synthesizer returned no choices")
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", errors.New("synthesizer returned empty answer")
	}

	return answer, nil
}
