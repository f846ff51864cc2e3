package llm

import (
	"context"
	"sync"
)

// fakeProvider records every call and answers from a function
type fakeProvider struct {
	name  string
	reply func(systemPrompt, userInput string) (string, error)

	mu    sync.Mutex
	calls []fakeCall
}

type fakeCall struct {
	SystemPrompt string
	UserInput    string
	Temperature  float32
}

func (f *fakeProvider) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{systemPrompt, userInput, temperature})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.reply == nil {
		return "ok", nil
	}
	return f.reply(systemPrompt, userInput)
}
