package llm

import (
	"context"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/errors"
)

// ChatProvider talks to any OpenAI-compatible chat completions API.
// OpenAI and DeepSeek are both served by it.
type ChatProvider struct {
	name   string
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI creates the OpenAI provider
func NewOpenAI(pc config.ProviderConfig) *ChatProvider {
	if pc.Model == "" {
		pc.Model = openai.GPT4TurboPreview
	}
	return newChatProvider(config.ProviderOpenAI, pc)
}

// NewDeepSeek creates the DeepSeek provider
func NewDeepSeek(pc config.ProviderConfig) *ChatProvider {
	if pc.Model == "" {
		pc.Model = "deepseek-chat"
	}
	if pc.BaseURL == "" {
		pc.BaseURL = "https://api.deepseek.com/v1"
	}
	return newChatProvider(config.ProviderDeepSeek, pc)
}

func newChatProvider(name string, pc config.ProviderConfig) *ChatProvider {
	clientConfig := openai.DefaultConfig(pc.APIKey)
	if pc.BaseURL != "" {
		clientConfig.BaseURL = pc.BaseURL
	}

	return &ChatProvider{
		name:   name,
		client: openai.NewClientWithConfig(clientConfig),
		model:  pc.Model,
		logger: slog.Default().With("component", name, "model", pc.Model),
	}
}

func (p *ChatProvider) Name() string {
	return p.name
}

// Generate sends a system and a user message and returns the first choice
func (p *ChatProvider) Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userInput,
			},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.ProviderErrorf(err, "%s completion failed", p.name)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", emptyResponse(p.name)
	}

	response := resp.Choices[0].Message.Content
	p.logger.Debug("chat completion",
		"prompt_length", len(userInput),
		"response_length", len(response),
		"tokens_used", resp.Usage.TotalTokens,
	)

	return response, nil
}
