package assistant

import (
	tea "charm.land/bubbletea/v2"
)

// StreamMsg delivers one stream event to the program loop. The channel rides
// along so the loop can keep pulling.
type StreamMsg struct {
	Event StreamEvent
	Ch    <-chan StreamEvent
}

// StreamClosedMsg signals that the stream channel drained.
type StreamClosedMsg struct{}

// WaitForStream returns a command that blocks for the next stream event.
func WaitForStream(ch <-chan StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return StreamClosedMsg{}
		}
		return StreamMsg{Event: ev, Ch: ch}
	}
}
