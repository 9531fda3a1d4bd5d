// Package ai defines the text-generation boundary used by the assistant
// panel: a provider interface, a factory registry, and the model catalog the
// UI picks from. Concrete providers live in the providers subpackage and
// register themselves at init.
package ai

import "context"

// Message represents a single chat message for generation requests.
type Message struct {
	Role    string // "user" | "assistant" | "system"
	Content string
}

// ChatRequest defines the input to a chat completion.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// ChatResponse is a normalized non-streaming response.
type ChatResponse struct {
	Content string
	Model   string
}

// ChatStream exposes a streaming response. Next blocks until the next chunk
// or the end of the stream; Content returns the current chunk's delta.
type ChatStream interface {
	Next() bool
	Content() string
	Err() error
	Close() error
}

// Provider is the generation interface the app depends on.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
	CreateChatCompletionStream(ctx context.Context, req ChatRequest) (ChatStream, error)
}
