// Package assistant implements the AI chat sidebar panel: conversation
// state, the submit/streaming session flow, and the rendered chat view with
// model picker and provider settings.
package assistant

import (
	"margin/pkg/ai"
	"margin/pkg/surface"
)

// PanelID is the id the panel registers under; it is also the right-dock
// default panel.
const PanelID = "ai-assistant"

// Tab selects which chat surface the panel shows.
type Tab string

const (
	TabAssistant Tab = "assistant"
	TabAgent     Tab = "agent"
)

// Status tracks a message through its lifecycle.
type Status string

const (
	StatusSending   Status = "sending"
	StatusStreaming Status = "streaming"
	StatusComplete  Status = "complete"
)

// Message is one chat entry. The ID is stable for its whole lifetime so
// streaming updates can address it no matter how the slice is reordered.
type Message struct {
	ID      string
	Role    string // "user" | "assistant"
	Content string
	Status  Status
}

// State is the assistant's surface slice. IsLoading is derived on every
// fold from the status of the last added or updated message, so it can
// never stick after a stream finishes or fails.
type State struct {
	ActiveTab     Tab
	Messages      []Message
	IsLoading     bool
	SelectedModel ai.ModelID
	APIKeys       map[ai.ProviderType]string
	ShowSettings  bool
}

// AddMessageEffect appends a message to the conversation.
type AddMessageEffect struct {
	Message Message
}

// UpdateMessageEffect rewrites the content and status of the message with
// the matching id. Unknown ids are ignored.
type UpdateMessageEffect struct {
	ID      string
	Content string
	Status  Status
}

// SelectModelEffect picks the generation model.
type SelectModelEffect struct {
	Model ai.ModelID
}

// SetAPIKeyEffect stores the key for one provider.
type SetAPIKeyEffect struct {
	Provider ai.ProviderType
	Key      string
}

// ToggleSettingsEffect shows or hides the settings view.
type ToggleSettingsEffect struct{}

// SwitchTabEffect selects the assistant or agent tab.
type SwitchTabEffect struct {
	Tab Tab
}

var stateField = surface.NewField("assistant",
	func() State {
		return State{
			ActiveTab:     TabAssistant,
			SelectedModel: ai.DefaultModel,
			APIKeys:       map[ai.ProviderType]string{},
		}
	},
	func(st State, tx surface.Transaction) State {
		for _, e := range tx.Effects {
			switch eff := e.(type) {
			case AddMessageEffect:
				msgs := make([]Message, len(st.Messages), len(st.Messages)+1)
				copy(msgs, st.Messages)
				st.Messages = append(msgs, eff.Message)
				st.IsLoading = loading(eff.Message.Status)
			case UpdateMessageEffect:
				msgs := make([]Message, len(st.Messages))
				copy(msgs, st.Messages)
				for i := range msgs {
					if msgs[i].ID == eff.ID {
						msgs[i].Content = eff.Content
						msgs[i].Status = eff.Status
						st.IsLoading = loading(eff.Status)
					}
				}
				st.Messages = msgs
			case SelectModelEffect:
				st.SelectedModel = eff.Model
			case SetAPIKeyEffect:
				keys := make(map[ai.ProviderType]string, len(st.APIKeys)+1)
				for k, v := range st.APIKeys {
					keys[k] = v
				}
				keys[eff.Provider] = eff.Key
				st.APIKeys = keys
			case ToggleSettingsEffect:
				st.ShowSettings = !st.ShowSettings
			case SwitchTabEffect:
				st.ActiveTab = eff.Tab
			}
		}
		return st
	})

func loading(s Status) bool {
	return s == StatusSending || s == StatusStreaming
}

// Extension returns the surface fragment installing the assistant slice.
func Extension() surface.Extension {
	return surface.Extension{Fields: []surface.AnyField{stateField}}
}

// GetState reads the current assistant state.
func GetState(sf *surface.Surface) State {
	return surface.Get(sf, stateField)
}

// LastAssistantMessage returns the newest completed assistant reply.
func LastAssistantMessage(sf *surface.Surface) (Message, bool) {
	msgs := GetState(sf).Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "assistant" && msgs[i].Status == StatusComplete {
			return msgs[i], true
		}
	}
	return Message{}, false
}
