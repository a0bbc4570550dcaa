package provider

import (
	"context"

	"github.com/carcare/carcarebot/internal"
)

// ChatProvider produces the assistant reply for a user message.
type ChatProvider interface {
	Model() string
	Reply(ctx context.Context, history []internal.Message, userInput string) (string, error)
}

// MockProvider answers without touching the dataset or the classifier.
type MockProvider struct{}

func (m MockProvider) Model() string { return "mock-carcarebot" }

func (m MockProvider) Reply(_ context.Context, _ []internal.Message, userInput string) (string, error) {
	return "Understood. (mock) You asked: \"" + userInput + "\"", nil
}
