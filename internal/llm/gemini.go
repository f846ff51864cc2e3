package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/errors"
)

// GeminiProvider wraps Google's Generative AI SDK
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini creates the Gemini provider. The SDK validates the key lazily,
// so construction only fails on malformed client settings.
func NewGemini(ctx context.Context, pc config.ProviderConfig) (*GeminiProvider, error) {
	if pc.Model == "" {
		pc.Model = "gemini-2.0-flash"
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  pc.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if pc.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: pc.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, errors.ConfigErrorf("failed to create gemini client: %v", err)
	}

	return &GeminiProvider{
		client: client,
		model:  pc.Model,
		logger: slog.Default().With("component", config.ProviderGemini, "model", pc.Model),
	}, nil
}

func (p *GeminiProvider) Name() string {
	return config.ProviderGemini
}

// Generate sends userInput with systemPrompt as the system instruction and
// concatenates the text parts of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	var systemInstruction *genai.Content
	if systemPrompt != "" {
		systemInstruction = genai.Text(systemPrompt)[0]
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       ptrFloat32(temperature),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(userInput), genConfig)
	if err != nil {
		return "", errors.ProviderError(err, "gemini completion failed")
	}

	if len(resp.Candidates) == 0 {
		return "", errors.ProviderError(fmt.Errorf("no candidates"), "gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", emptyResponse(config.ProviderGemini)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if text == "" {
		return "", emptyResponse(config.ProviderGemini)
	}

	p.logger.Debug("gemini completion",
		"prompt_length", len(userInput),
		"response_length", len(text),
	)

	return text, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
