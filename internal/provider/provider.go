// Package provider implements the text-generation backends raced by the
// engine. Every backend satisfies the same Adapter contract; most are
// described declaratively by a Descriptor and served by the generic HTTP
// adapter, with SDK-backed adapters for Anthropic and OpenAI.
package provider

import (
	"context"
	"errors"
)

// ErrEmptyResponse indicates a provider returned a successful status
// but no usable text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Request carries the prompt material for one generation call.
type Request struct {
	// Prompt is the user-facing prompt text.
	Prompt string
	// System is the system prompt, possibly empty.
	System string
	// MaxTokens caps the completion length. Zero uses the adapter default.
	MaxTokens int
}

// Adapter is the uniform contract for one text-generation backend.
// Generate blocks until the backend responds, the context is cancelled,
// or the call fails. Implementations must be safe for concurrent use.
type Adapter interface {
	// Name returns the provider name used in results ("anthropic", "groq", ...).
	Name() string
	// Generate sends the request and returns the response text.
	Generate(ctx context.Context, req Request) (string, error)
}
