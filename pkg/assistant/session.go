package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"margin/pkg/ai"
	"margin/pkg/surface"
)

const (
	systemPrompt = "You are a helpful assistant that can help with coding tasks."

	// MaxHistoryMessages caps how much conversation is replayed per request.
	MaxHistoryMessages = 20

	defaultStreamTimeout = 120
)

// StreamEvent is one update from a running generation. Content carries the
// accumulated reply so far, so applying an event is idempotent.
type StreamEvent struct {
	MessageID string
	Content   string
	Err       error
	Done      bool
}

// Session drives the submit flow against a provider registry. Provider
// settings (temperature, token caps, timeouts) come from the options it was
// built with; API keys come from assistant state at submit time.
type Session struct {
	registry    *ai.Registry
	temperature float64
	maxTokens   int
	timeoutSecs int
}

// SessionOption adjusts a session at construction.
type SessionOption func(*Session)

// WithTemperature sets the request temperature.
func WithTemperature(t float64) SessionOption { return func(s *Session) { s.temperature = t } }

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) SessionOption { return func(s *Session) { s.maxTokens = n } }

// WithTimeout sets the per-request timeout in seconds.
func WithTimeout(secs int) SessionOption { return func(s *Session) { s.timeoutSecs = secs } }

// NewSession builds a session over the given provider registry; nil means
// the default registry.
func NewSession(registry *ai.Registry, opts ...SessionOption) *Session {
	if registry == nil {
		registry = ai.DefaultRegistry
	}
	s := &Session{
		registry:    registry,
		temperature: 0.7,
		timeoutSecs: defaultStreamTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs the full prompt flow:
//
//	user message (complete) -> assistant placeholder (streaming) ->
//	per-chunk content updates -> final complete (or "Error: ..." content).
//
// The returned channel carries the stream; it is nil when no generation was
// started (missing key or empty prompt). The bool reports whether the
// submission was accepted; a submit while a reply is already streaming is
// rejected.
func (s *Session) Submit(sf *surface.Surface, prompt string) (<-chan StreamEvent, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, false
	}

	st := GetState(sf)
	if st.IsLoading {
		slog.Debug("assistant_submit_rejected_while_loading")
		return nil, false
	}

	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		AddMessageEffect{Message: Message{
			ID:      uuid.NewString(),
			Role:    "user",
			Content: prompt,
			Status:  StatusComplete,
		}},
	}})

	model, ok := ai.LookupModel(st.SelectedModel)
	if !ok {
		model, _ = ai.LookupModel(ai.DefaultModel)
	}

	// A missing key short-circuits before any provider call: one error
	// message, nothing loading.
	apiKey := st.APIKeys[model.Provider]
	if info, ok := s.registry.GetProviderInfo(model.Provider); ok && info.RequiresKey && strings.TrimSpace(apiKey) == "" {
		slog.Warn("assistant_missing_api_key", "provider", model.Provider)
		s.addError(sf, fmt.Sprintf("missing API key for %s, add one in settings", model.Provider))
		return nil, true
	}

	history := GetState(sf).Messages
	request := s.buildRequest(sf.Doc(), history, model)

	placeholderID := uuid.NewString()
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		AddMessageEffect{Message: Message{
			ID:     placeholderID,
			Role:   "assistant",
			Status: StatusStreaming,
		}},
	}})

	ch := make(chan StreamEvent, 8)
	go s.stream(ch, placeholderID, model, apiKey, request)
	return ch, true
}

// buildRequest replays capped history and embeds the current document into
// the final user turn so the model sees what is being edited.
func (s *Session) buildRequest(doc string, history []Message, model ai.ModelInfo) ai.ChatRequest {
	capped := history
	if len(capped) > MaxHistoryMessages {
		capped = capped[len(capped)-MaxHistoryMessages:]
	}

	messages := make([]ai.Message, 0, len(capped)+1)
	messages = append(messages, ai.Message{Role: "system", Content: systemPrompt})
	for i, m := range capped {
		if m.Status != StatusComplete || m.Content == "" {
			continue
		}
		content := m.Content
		if i == len(capped)-1 && m.Role == "user" {
			content = fmt.Sprintf("Current Editor Content:\n%s\n\n%s", doc, m.Content)
		}
		messages = append(messages, ai.Message{Role: m.Role, Content: content})
	}

	req := ai.ChatRequest{
		Model:    model.WireModel,
		Messages: messages,
	}
	if s.temperature > 0 {
		t := s.temperature
		req.Temperature = &t
	}
	if s.maxTokens > 0 {
		n := s.maxTokens
		req.MaxTokens = &n
	}
	return req
}

func (s *Session) stream(ch chan<- StreamEvent, messageID string, model ai.ModelInfo, apiKey string, req ai.ChatRequest) {
	defer close(ch)

	fail := func(err error) {
		slog.Error("assistant_stream_error", "error", err)
		ch <- StreamEvent{MessageID: messageID, Err: err, Done: true}
	}

	provider, err := s.registry.GetProvider(ai.ProviderConfig{
		Type:           model.Provider,
		APIKey:         apiKey,
		Model:          model.WireModel,
		Temperature:    s.temperature,
		MaxTokens:      s.maxTokens,
		TimeoutSeconds: s.timeoutSecs,
	})
	if err != nil {
		fail(err)
		return
	}

	streamCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutSecs)*time.Second)
	defer cancel()

	stream, err := provider.CreateChatCompletionStream(streamCtx, req)
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	slog.Info("assistant_stream_start", "model", model.ID)

	var content strings.Builder
	for stream.Next() {
		delta := stream.Content()
		if delta == "" {
			continue
		}
		content.WriteString(delta)
		ch <- StreamEvent{MessageID: messageID, Content: content.String()}
	}

	if err := stream.Err(); err != nil {
		fail(err)
		return
	}

	slog.Info("assistant_stream_done", "model", model.ID, "reply_bytes", content.Len())
	ch <- StreamEvent{MessageID: messageID, Content: content.String(), Done: true}
}

func (s *Session) addError(sf *surface.Surface, msg string) {
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		AddMessageEffect{Message: Message{
			ID:      uuid.NewString(),
			Role:    "assistant",
			Content: "Error: " + msg,
			Status:  StatusComplete,
		}},
	}})
}

// ApplyStreamEvent folds one stream event into state. Errors finalize the
// placeholder with an error body so the conversation never sticks in the
// streaming state.
func ApplyStreamEvent(sf *surface.Surface, ev StreamEvent) {
	switch {
	case ev.Err != nil:
		sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			UpdateMessageEffect{
				ID:      ev.MessageID,
				Content: "Error: " + ev.Err.Error(),
				Status:  StatusComplete,
			},
		}})
	case ev.Done:
		sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			UpdateMessageEffect{ID: ev.MessageID, Content: ev.Content, Status: StatusComplete},
		}})
	default:
		sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			UpdateMessageEffect{ID: ev.MessageID, Content: ev.Content, Status: StatusStreaming},
		}})
	}
}
