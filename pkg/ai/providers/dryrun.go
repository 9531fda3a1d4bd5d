package providers

import (
	"context"
	"strings"

	"margin/pkg/ai"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderDryRun,
		Name:        "Dry Run",
		Description: "Offline canned responses for demos and tests",
		RequiresKey: false,
	}, NewDryRunProvider)
}

// DryRunProvider answers locally without any network call. It echoes the
// last user message back in a short canned reply so the full streaming
// pipeline can be exercised offline.
type DryRunProvider struct{}

// NewDryRunProvider creates a dry-run provider. The config is unused.
func NewDryRunProvider(_ ai.ProviderConfig) (ai.Provider, error) {
	return &DryRunProvider{}, nil
}

func dryRunReply(req ai.ChatRequest) string {
	last := ""
	for _, m := range req.Messages {
		if strings.EqualFold(m.Role, "user") {
			last = m.Content
		}
	}
	if strings.TrimSpace(last) == "" {
		return "Nothing to respond to."
	}
	return "You said:\n\n```\n" + strings.TrimSpace(last) + "\n```\n\nThis is a canned offline response."
}

// CreateChatCompletion returns the canned reply in one piece.
func (p *DryRunProvider) CreateChatCompletion(_ context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	return ai.ChatResponse{Content: dryRunReply(req), Model: "dryrun"}, nil
}

// CreateChatCompletionStream returns the canned reply word by word.
func (p *DryRunProvider) CreateChatCompletionStream(_ context.Context, req ai.ChatRequest) (ai.ChatStream, error) {
	reply := dryRunReply(req)
	var chunks []string
	for _, word := range strings.SplitAfter(reply, " ") {
		if word != "" {
			chunks = append(chunks, word)
		}
	}
	return &dryRunStream{chunks: chunks}, nil
}

type dryRunStream struct {
	chunks []string
	pos    int
}

func (s *dryRunStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *dryRunStream) Content() string {
	return s.chunks[s.pos-1]
}

func (s *dryRunStream) Err() error { return nil }

func (s *dryRunStream) Close() error { return nil }

// Ensure interface compliance
var _ ai.Provider = (*DryRunProvider)(nil)
