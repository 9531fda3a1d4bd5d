// Package ui hosts the Bubble Tea program shell: it lays out the editor and
// every visible sidebar, routes keyboard and mouse input, and keeps the
// editor widget in step with the surface document.
package ui

import (
	"sort"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"margin/pkg/assistant"
	"margin/pkg/keymap"
	"margin/pkg/sidebar"
	"margin/pkg/surface"
	"margin/pkg/ui/statusbar"
)

const statusBarHeight = 1

// Model is the root Bubble Tea model.
type Model struct {
	sf     *surface.Surface
	reg    *sidebar.Registry
	router *keymap.Router
	status *statusbar.Bar

	editor textarea.Model
	width  int
	height int

	// focus is the sidebar id receiving keys, "" targets the editor.
	focus string
	drag  *sidebar.Controller
}

// New builds the shell around an already-wired surface and registry.
func New(sf *surface.Surface, reg *sidebar.Registry, router *keymap.Router, workdir string) *Model {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.SetValue(sf.Doc())
	ta.Focus()

	return &Model{
		sf:     sf,
		reg:    reg,
		router: router,
		status: statusbar.New(workdir),
		editor: ta,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	m.syncEditor()
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case assistant.StreamMsg:
		assistant.ApplyStreamEvent(m.sf, msg.Event)
		m.status.Tick()
		if msg.Event.Done || msg.Event.Err != nil {
			return m, nil
		}
		return m, assistant.WaitForStream(msg.Ch)

	case assistant.StreamClosedMsg:
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleClick(msg)

	case tea.MouseMotionMsg:
		if m.drag != nil {
			m.drag.DragTo(m.sf, msg.X)
		}
		return m, nil

	case tea.MouseReleaseMsg:
		if m.drag != nil {
			m.drag.EndDrag()
			m.drag = nil
		}
		return m, nil

	case tea.MouseWheelMsg:
		return m.handleWheel(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.router.Handle(m.sf, msg) {
		m.reconcileFocus()
		return m, nil
	}

	if m.focus != "" {
		ctrl, ok := m.reg.Controller(m.focus)
		if !ok || !ctrl.State(m.sf).Visible {
			m.focus = ""
		} else {
			if msg.String() == "esc" {
				m.focus = ""
				return m, nil
			}
			return m, ctrl.Forward(msg)
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.commitEditor()
	return m, cmd
}

func (m *Model) handleClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft {
		return m, nil
	}

	geo := m.geometry()
	ctrls := m.reg.Controllers()

	// Later-created sidebars render on top, so hit-test in reverse.
	for i := len(ctrls) - 1; i >= 0; i-- {
		ctrl := ctrls[i]
		box, ok := geo.BoxFor(ctrl.ID())
		if !ok {
			continue
		}
		if msg.Y < box.Region.Y || msg.Y >= box.Region.Y+box.Region.H {
			continue
		}
		dock := ctrl.State(m.sf).Options.Dock
		if msg.X == box.Region.HandleX(dock) {
			ctrl.StartDrag(m.sf, msg.X)
			m.drag = ctrl
			m.focus = ctrl.ID()
			return m, nil
		}
		if box.Region.Contains(msg.X, msg.Y) {
			m.focus = ctrl.ID()
			ox, oy := ctrl.ContentOrigin(m.sf, box)
			local := tea.MouseClickMsg{X: msg.X - ox, Y: msg.Y - oy, Button: msg.Button, Mod: msg.Mod}
			return m, ctrl.Forward(local)
		}
	}

	m.focus = ""
	return m, nil
}

func (m *Model) handleWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	geo := m.geometry()
	ctrls := m.reg.Controllers()

	for i := len(ctrls) - 1; i >= 0; i-- {
		ctrl := ctrls[i]
		box, ok := geo.BoxFor(ctrl.ID())
		if !ok || !box.Region.Contains(msg.X, msg.Y) {
			continue
		}
		ox, oy := ctrl.ContentOrigin(m.sf, box)
		local := tea.MouseWheelMsg{X: msg.X - ox, Y: msg.Y - oy, Button: msg.Button, Mod: msg.Mod}
		return m, ctrl.Forward(local)
	}

	return m, nil
}

// reconcileFocus drops focus from sidebars that are no longer visible.
func (m *Model) reconcileFocus() {
	if m.focus == "" {
		return
	}
	ctrl, ok := m.reg.Controller(m.focus)
	if !ok || !ctrl.State(m.sf).Visible {
		m.focus = ""
	}
}

// commitEditor dispatches the editor's value as a full-document replace when
// it diverges from the surface.
func (m *Model) commitEditor() {
	if v := m.editor.Value(); v != m.sf.Doc() {
		m.sf.Dispatch(surface.Transaction{
			Changes: &surface.Change{From: 0, To: m.sf.DocLen(), Insert: v},
		})
	}
}

// syncEditor pulls surface document changes made outside the editor (file
// opens, programmatic edits) into the widget.
func (m *Model) syncEditor() {
	if m.sf.Doc() != m.editor.Value() {
		m.editor.SetValue(m.sf.Doc())
	}
}

func (m *Model) contentHeight() int {
	h := m.height - statusBarHeight
	if h < 0 {
		h = 0
	}
	return h
}

func (m *Model) geometry() sidebar.Geometry {
	return sidebar.ComputeGeometry(m.width, m.contentHeight(), m.reg.States(m.sf))
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	geo := m.geometry()
	m.editor.SetWidth(geo.Editor.W)
	m.editor.SetHeight(geo.Editor.H)

	type segment struct {
		x    int
		view string
	}
	segs := []segment{{geo.Editor.X, m.editor.View()}}

	type overlay struct {
		x    int
		view string
	}
	var overlays []overlay

	for _, ctrl := range m.reg.Controllers() {
		box, ok := geo.BoxFor(ctrl.ID())
		if !ok {
			continue
		}
		view := ctrl.View(m.sf, box.Region)
		if view == "" {
			continue
		}
		if box.Overlay {
			overlays = append(overlays, overlay{x: box.Region.X, view: view})
			continue
		}
		segs = append(segs, segment{x: box.Region.X, view: view})
	}

	sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
	views := make([]string, len(segs))
	for i, s := range segs {
		views[i] = s.view
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, views...)

	if len(overlays) > 0 {
		layers := []*lipgloss.Layer{lipgloss.NewLayer(content).Z(0)}
		for i, ov := range overlays {
			layers = append(layers, lipgloss.NewLayer(ov.view).X(ov.x).Y(0).Z(i+1))
		}
		content = lipgloss.NewCompositor(layers...).Render()
	}

	m.status.SetWidth(m.width)
	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, content, m.status.Render(m.sf)))
	return v
}
