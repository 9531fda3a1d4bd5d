package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"margin/pkg/assistant"
	"margin/pkg/keymap"
	"margin/pkg/sidebar"
	"margin/pkg/surface"
)

type recordPanel struct {
	msgs []tea.Msg
}

func (p *recordPanel) SetSize(width, height int) {}

func (p *recordPanel) Update(msg tea.Msg) tea.Cmd {
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordPanel) View() string { return "panel" }

func newTestModel(t *testing.T) (*Model, *surface.Surface, *sidebar.Registry, *recordPanel) {
	t.Helper()

	sf := surface.New("hello")
	reg := sidebar.NewRegistry()
	panel := &recordPanel{}
	err := reg.RegisterPanel(sidebar.PanelSpec{
		ID:     "files",
		Title:  "Files",
		Create: func(*surface.Surface) sidebar.Panel { return panel },
	})
	if err != nil {
		t.Fatalf("RegisterPanel() error: %v", err)
	}
	sf.Use(sidebar.New(reg, "left",
		sidebar.WithOverlay(false),
		sidebar.WithInitialPanel("files"),
	))

	router := keymap.NewRouter(reg)
	router.Bind(keymap.Binding{Chord: "ctrl+b", SidebarID: "left"})

	m := New(sf, reg, router, t.TempDir())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, sf, reg, panel
}

func leftState(t *testing.T, sf *surface.Surface, reg *sidebar.Registry) sidebar.State {
	t.Helper()
	field, ok := reg.Field("left")
	if !ok {
		t.Fatal("expected sidebar field installed")
	}
	return surface.Get(sf, field)
}

func TestToggleChordShowsSidebar(t *testing.T) {
	m, sf, reg, _ := newTestModel(t)

	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})

	st := leftState(t, sf, reg)
	if !st.Visible {
		t.Fatal("expected sidebar visible after toggle chord")
	}
	if st.ActivePanelID != "files" {
		t.Fatalf("expected initial panel active, got %q", st.ActivePanelID)
	}
}

func TestTypingEditsDocument(t *testing.T) {
	m, sf, _, _ := newTestModel(t)

	m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	if sf.Doc() == "hello" {
		t.Fatal("expected document to change after typing")
	}
}

func TestClickForwardsPanelLocalCoords(t *testing.T) {
	m, _, _, panel := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})

	// Left push sidebar at x=0, panel body starts after 1 col padding
	// and 2 header rows.
	m.Update(tea.MouseClickMsg{X: 5, Y: 4, Button: tea.MouseLeft})

	if len(panel.msgs) == 0 {
		t.Fatal("expected click forwarded to panel")
	}
	click, ok := panel.msgs[len(panel.msgs)-1].(tea.MouseClickMsg)
	if !ok {
		t.Fatalf("expected MouseClickMsg, got %T", panel.msgs[len(panel.msgs)-1])
	}
	if click.X != 4 || click.Y != 2 {
		t.Fatalf("expected panel-local (4, 2), got (%d, %d)", click.X, click.Y)
	}
}

func TestWheelForwardsToPanelUnderCursor(t *testing.T) {
	m, _, _, panel := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})

	m.Update(tea.MouseWheelMsg{X: 5, Y: 4, Button: tea.MouseWheelDown})

	if len(panel.msgs) == 0 {
		t.Fatal("expected wheel forwarded to panel")
	}
	if _, ok := panel.msgs[len(panel.msgs)-1].(tea.MouseWheelMsg); !ok {
		t.Fatalf("expected MouseWheelMsg, got %T", panel.msgs[len(panel.msgs)-1])
	}
}

func TestDragHandleResizesWidth(t *testing.T) {
	m, sf, reg, _ := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})

	// 250px is 31 columns, so the handle sits on column 30.
	m.Update(tea.MouseClickMsg{X: 30, Y: 5, Button: tea.MouseLeft})
	m.Update(tea.MouseMotionMsg{X: 35, Y: 5, Button: tea.MouseLeft})
	m.Update(tea.MouseReleaseMsg{X: 35, Y: 5, Button: tea.MouseLeft})

	st := leftState(t, sf, reg)
	want := sidebar.DefaultWidth + 5*sidebar.CellPx
	if st.Options.Width != want {
		t.Fatalf("expected width %d after drag, got %d", want, st.Options.Width)
	}
	if m.drag != nil {
		t.Fatal("expected drag released")
	}
}

func TestEscReturnsFocusToEditor(t *testing.T) {
	m, sf, _, panel := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	m.Update(tea.MouseClickMsg{X: 5, Y: 4, Button: tea.MouseLeft})

	if m.focus != "left" {
		t.Fatalf("expected sidebar focused after click, got %q", m.focus)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if sf.Doc() == "hello" {
		t.Fatal("expected keys to reach editor after esc")
	}
	for _, msg := range panel.msgs {
		if key, ok := msg.(tea.KeyPressMsg); ok && key.Text == "x" {
			t.Fatal("expected key not forwarded to panel after esc")
		}
	}
}

func TestFocusedSidebarReceivesKeys(t *testing.T) {
	m, sf, _, panel := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	m.Update(tea.MouseClickMsg{X: 5, Y: 4, Button: tea.MouseLeft})

	m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})

	if sf.Doc() != "hello" {
		t.Fatal("expected document untouched while sidebar focused")
	}
	found := false
	for _, msg := range panel.msgs {
		if key, ok := msg.(tea.KeyPressMsg); ok && key.Text == "j" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected key forwarded to focused panel")
	}
}

func TestHidingFocusedSidebarDropsFocus(t *testing.T) {
	m, sf, _, _ := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	m.Update(tea.MouseClickMsg{X: 5, Y: 4, Button: tea.MouseLeft})

	m.Update(tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})

	if m.focus != "" {
		t.Fatalf("expected focus back on editor, got %q", m.focus)
	}
	m.Update(tea.KeyPressMsg{Code: 'z', Text: "z"})
	if sf.Doc() == "hello" {
		t.Fatal("expected typing to reach editor after sidebar hid")
	}
}

func TestStreamMsgUpdatesAssistantAndContinues(t *testing.T) {
	m, sf, _, _ := newTestModel(t)
	sf.Use(assistant.Extension())
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		assistant.AddMessageEffect{Message: assistant.Message{
			ID:     "m1",
			Role:   "assistant",
			Status: assistant.StatusStreaming,
		}},
	}})

	ch := make(chan assistant.StreamEvent)
	_, cmd := m.Update(assistant.StreamMsg{
		Event: assistant.StreamEvent{MessageID: "m1", Content: "hi"},
		Ch:    ch,
	})
	if cmd == nil {
		t.Fatal("expected continuation command for open stream")
	}
	st := assistant.GetState(sf)
	if st.Messages[0].Content != "hi" {
		t.Fatalf("expected streamed content applied, got %q", st.Messages[0].Content)
	}

	_, cmd = m.Update(assistant.StreamMsg{
		Event: assistant.StreamEvent{MessageID: "m1", Content: "hi there", Done: true},
		Ch:    ch,
	})
	if cmd != nil {
		t.Fatal("expected no continuation after done event")
	}
	st = assistant.GetState(sf)
	if st.Messages[0].Status != assistant.StatusComplete {
		t.Fatalf("expected complete status, got %q", st.Messages[0].Status)
	}
	if st.IsLoading {
		t.Fatal("expected loading cleared after done event")
	}
}

func TestExternalDocChangeSyncsEditor(t *testing.T) {
	m, sf, _, _ := newTestModel(t)

	sf.Dispatch(surface.Transaction{
		Changes: &surface.Change{From: 0, To: sf.DocLen(), Insert: "package main"},
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.editor.Value() != "package main" {
		t.Fatalf("expected editor synced to document, got %q", m.editor.Value())
	}
}

func TestViewBeforeSizeShowsLoading(t *testing.T) {
	sf := surface.New("")
	reg := sidebar.NewRegistry()
	m := New(sf, reg, keymap.NewRouter(reg), t.TempDir())

	v := m.View()
	_ = v // must not panic before the first WindowSizeMsg
}
