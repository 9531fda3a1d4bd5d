package assistant

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"margin/pkg/ai"
	"margin/pkg/sidebar"
	"margin/pkg/surface"
	"margin/pkg/ui/styles"
)

const (
	inputHeight = 3
	headerLines = 3 // tabs + model line + separator
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// PanelSpec returns the assistant's registration for the sidebar registry.
func PanelSpec(session *Session) sidebar.PanelSpec {
	return sidebar.PanelSpec{
		ID:     PanelID,
		Title:  "Assistant",
		Create: func(sf *surface.Surface) sidebar.Panel { return newPanel(sf, session) },
		Update: func(_ *surface.Surface, p sidebar.Panel) { p.(*Panel).refresh() },
	}
}

// Panel renders the chat conversation and drives submissions.
type Panel struct {
	sf      *surface.Surface
	session *Session

	width  int
	height int

	textarea textarea.Model
	lines    []string
	scrollY  int
	follow   bool
	frame    int

	settingsCursor int
}

func newPanel(sf *surface.Surface, session *Session) *Panel {
	ta := textarea.New()
	ta.Placeholder = "Ask anything..."
	ta.SetHeight(inputHeight)
	ta.Focus()

	p := &Panel{sf: sf, session: session, textarea: ta, follow: true}
	p.refresh()
	return p
}

// SetSize sets the content area in cells.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.textarea.SetWidth(width)
	p.reflow()
}

// refresh re-renders the message lines from state.
func (p *Panel) refresh() {
	p.frame = (p.frame + 1) % len(spinnerFrames)
	p.reflow()
}

// Update handles keys and panel-local mouse events.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	st := GetState(p.sf)

	switch m := msg.(type) {
	case tea.KeyPressMsg:
		if st.ShowSettings {
			return p.updateSettings(m)
		}
		switch m.String() {
		case "enter":
			return p.submit()
		case "ctrl+p":
			p.cycleModel(st)
			return nil
		case "ctrl+t":
			p.switchTab(st)
			return nil
		case "ctrl+o":
			p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{ToggleSettingsEffect{}}})
			return nil
		case "ctrl+y":
			return p.copyLastReply()
		case "pgup":
			p.scrollBy(-p.viewportHeight())
			return nil
		case "pgdown":
			p.scrollBy(p.viewportHeight())
			return nil
		}
		var cmd tea.Cmd
		p.textarea, cmd = p.textarea.Update(msg)
		return cmd

	case tea.MouseClickMsg:
		mouse := m.Mouse()
		if mouse.Button != tea.MouseLeft {
			return nil
		}
		switch mouse.Y {
		case 0:
			if mouse.X < p.width/2 {
				p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{SwitchTabEffect{Tab: TabAssistant}}})
			} else {
				p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{SwitchTabEffect{Tab: TabAgent}}})
			}
		case 1:
			p.cycleModel(st)
		}
		return nil

	case tea.MouseWheelMsg:
		switch m.Mouse().Button {
		case tea.MouseWheelUp:
			p.scrollBy(-3)
		case tea.MouseWheelDown:
			p.scrollBy(3)
		}
		return nil
	}

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return cmd
}

func (p *Panel) submit() tea.Cmd {
	prompt := p.textarea.Value()
	ch, ok := p.session.Submit(p.sf, prompt)
	if !ok {
		return nil
	}
	p.textarea.Reset()
	p.follow = true
	if ch == nil {
		return nil
	}
	return WaitForStream(ch)
}

func (p *Panel) cycleModel(st State) {
	next := ai.NextModel(st.SelectedModel)
	p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SelectModelEffect{Model: next.ID},
	}})
}

func (p *Panel) switchTab(st State) {
	tab := TabAgent
	if st.ActiveTab == TabAgent {
		tab = TabAssistant
	}
	p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{SwitchTabEffect{Tab: tab}}})
}

func (p *Panel) copyLastReply() tea.Cmd {
	msg, ok := LastAssistantMessage(p.sf)
	if !ok {
		return nil
	}
	text := msg.Content
	return func() tea.Msg {
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return nil
	}
}

func (p *Panel) updateSettings(m tea.KeyPressMsg) tea.Cmd {
	providers := settingsProviders()
	switch m.String() {
	case "esc", "ctrl+o":
		p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{ToggleSettingsEffect{}}})
		return nil
	case "up":
		if p.settingsCursor > 0 {
			p.settingsCursor--
		}
		return nil
	case "down":
		if p.settingsCursor < len(providers)-1 {
			p.settingsCursor++
		}
		return nil
	case "enter":
		key := strings.TrimSpace(p.textarea.Value())
		p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			SetAPIKeyEffect{Provider: providers[p.settingsCursor], Key: key},
		}})
		p.textarea.Reset()
		return nil
	}
	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(m)
	return cmd
}

func settingsProviders() []ai.ProviderType {
	var out []ai.ProviderType
	for _, pt := range ai.SupportedProviders() {
		if pt != ai.ProviderDryRun {
			out = append(out, pt)
		}
	}
	return out
}

func (p *Panel) viewportHeight() int {
	v := p.height - headerLines - inputHeight - 1 // separator above input
	if v < 1 {
		v = 1
	}
	return v
}

func (p *Panel) maxScroll() int {
	m := len(p.lines) - p.viewportHeight()
	if m < 0 {
		m = 0
	}
	return m
}

func (p *Panel) scrollBy(delta int) {
	p.scrollY += delta
	if p.scrollY < 0 {
		p.scrollY = 0
	}
	if p.scrollY >= p.maxScroll() {
		p.scrollY = p.maxScroll()
		p.follow = true
		return
	}
	p.follow = false
}

// reflow re-renders all messages into wrapped display lines.
func (p *Panel) reflow() {
	if p.width <= 0 {
		return
	}
	st := GetState(p.sf)

	p.lines = p.lines[:0]
	for _, msg := range st.Messages {
		p.lines = append(p.lines, p.renderMessage(msg)...)
		p.lines = append(p.lines, "")
	}
	if p.follow {
		p.scrollY = p.maxScroll()
	}
}

func (p *Panel) renderMessage(msg Message) []string {
	var out []string

	if msg.Role == "user" {
		out = append(out, styles.TextBoldStyle.Render("You:"))
	} else {
		out = append(out, styles.TitleStyle.Render("Assistant:"))
	}

	if msg.Status == StatusStreaming && msg.Content == "" {
		out = append(out, styles.PlaceholderStyle.Render(spinnerFrames[p.frame]+" thinking..."))
		return out
	}

	for _, seg := range SplitSegments(msg.Content) {
		switch seg.Kind {
		case SegmentCode:
			out = append(out, renderCodeSegment(seg, p.width)...)
		case SegmentIncompleteCode:
			out = append(out, styles.PlaceholderStyle.Render("(code block streaming...)"))
		default:
			for _, line := range strings.Split(seg.Text, "\n") {
				for _, wrapped := range wrapToWidth(line, p.width) {
					out = append(out, styleInlineCode(wrapped))
				}
			}
		}
	}
	return out
}

func renderCodeSegment(seg Segment, width int) []string {
	highlighted := highlightCode(seg.Text, seg.Language)
	if width > 0 {
		highlighted = ansi.Wrap(highlighted, width, "")
	}
	return strings.Split(highlighted, "\n")
}

// styleInlineCode styles `code` spans inside a text line.
func styleInlineCode(line string) string {
	if !strings.Contains(line, "`") {
		return styles.TextStyle.Render(line)
	}
	var sb strings.Builder
	parts := strings.Split(line, "`")
	for i, part := range parts {
		if i%2 == 1 && i != len(parts)-1 {
			sb.WriteString(styles.CodeStyle.Render(part))
		} else {
			if i%2 == 1 {
				// Unpaired trailing backtick, keep it literal.
				sb.WriteString(styles.TextStyle.Render("`" + part))
			} else {
				sb.WriteString(styles.TextStyle.Render(part))
			}
		}
	}
	return sb.String()
}

// View renders the tab header, model line, body, and input.
func (p *Panel) View() string {
	st := GetState(p.sf)

	lines := make([]string, 0, p.height)
	lines = append(lines, p.renderTabs(st))
	lines = append(lines, p.renderModelLine(st))
	lines = append(lines, strings.Repeat("─", maxInt(p.width, 1)))

	if st.ShowSettings {
		lines = append(lines, p.renderSettings(st)...)
	} else {
		viewport := p.viewportHeight()
		end := p.scrollY + viewport
		if end > len(p.lines) {
			end = len(p.lines)
		}
		for i := p.scrollY; i < end; i++ {
			lines = append(lines, p.lines[i])
		}
		for len(lines) < headerLines+viewport {
			lines = append(lines, "")
		}
	}

	lines = append(lines, strings.Repeat("─", maxInt(p.width, 1)))
	lines = append(lines, strings.Split(p.textarea.View(), "\n")...)

	if len(lines) > p.height && p.height > 0 {
		lines = lines[:p.height]
	}
	return strings.Join(lines, "\n")
}

func (p *Panel) renderTabs(st State) string {
	assistantTab := styles.TabInactiveStyle.Render("Assistant")
	agentTab := styles.TabInactiveStyle.Render("Agent")
	if st.ActiveTab == TabAgent {
		agentTab = styles.TabActiveStyle.Render("Agent")
	} else {
		assistantTab = styles.TabActiveStyle.Render("Assistant")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, assistantTab, " ", agentTab)
}

func (p *Panel) renderModelLine(st State) string {
	name := string(st.SelectedModel)
	if info, ok := ai.LookupModel(st.SelectedModel); ok {
		name = info.Name
	}
	line := "Model: " + name
	if st.IsLoading {
		line += "  " + spinnerFrames[p.frame]
	}
	return styles.TextMutedStyle.Render(line)
}

func (p *Panel) renderSettings(st State) []string {
	providers := settingsProviders()

	out := []string{styles.TextBoldStyle.Render("Provider API keys"), ""}
	for i, pt := range providers {
		label := string(pt)
		value := "not set"
		if key := st.APIKeys[pt]; key != "" {
			value = maskKey(key)
		}
		line := fmt.Sprintf("%-10s %s", label, value)
		if i == p.settingsCursor {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = styles.TextStyle.Render(line)
		}
		out = append(out, line)
	}
	out = append(out, "",
		styles.FooterStyle.Render("Up/Down select | Enter save input as key | Esc close"))
	return out
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func wrapToWidth(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var parts []string
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += rw
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	if len(parts) == 0 {
		return []string{""}
	}
	return parts
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
