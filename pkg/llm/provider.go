package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Mode        string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithMode selects the backend answering strategy ("traditional" or "agent").
func WithMode(mode string) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

// Provider defines the contract for the text-generation backend
type Provider interface {
	// Chat sends a message with prior conversation history and returns the reply
	Chat(ctx context.Context, message string, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Health reports whether the backend is reachable
	Health(ctx context.Context) error
}
