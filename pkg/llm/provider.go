package llm

import (
	"context"
)

// ImageData is an inline image attached to a message.
type ImageData struct {
	MimeType string
	Data     []byte
}

// Message represents a chat message in a provider-agnostic format.
// When both Image and Text are set, the image part precedes the text part
// on the wire.
type Message struct {
	Role  string // "user" or "model"
	Text  string
	Image *ImageData
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends the system instruction and chat history to the model and
	// returns the reply text.
	Chat(ctx context.Context, system string, history []Message, options ...Option) (string, error)
}
