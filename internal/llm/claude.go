package llm

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/errors"
)

const claudeMaxTokens = 8192

// ClaudeProvider uses Anthropic's OpenAI-compatible endpoint
type ClaudeProvider struct {
	client openai.Client
	model  openai.ChatModel
	logger *slog.Logger
}

// NewClaude creates the Claude provider
func NewClaude(pc config.ProviderConfig) *ClaudeProvider {
	if pc.Model == "" {
		pc.Model = "claude-3-5-haiku-latest"
	}
	if pc.BaseURL == "" {
		pc.BaseURL = "https://api.anthropic.com/v1/"
	}

	return &ClaudeProvider{
		client: openai.NewClient(
			option.WithAPIKey(pc.APIKey),
			option.WithBaseURL(pc.BaseURL),
		),
		model:  openai.ChatModel(pc.Model),
		logger: slog.Default().With("component", config.ProviderClaude, "model", pc.Model),
	}
}

func (p *ClaudeProvider) Name() string {
	return config.ProviderClaude
}

func (p *ClaudeProvider) Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userInput),
		},
		Model:               p.model,
		Temperature:         openai.Float(float64(temperature)),
		MaxCompletionTokens: openai.Int(claudeMaxTokens),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.ProviderError(err, "claude completion failed")
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", emptyResponse(config.ProviderClaude)
	}

	response := completion.Choices[0].Message.Content
	p.logger.Debug("claude completion",
		"prompt_length", len(userInput),
		"response_length", len(response),
		"tokens_used", completion.Usage.TotalTokens,
	)

	return response, nil
}
