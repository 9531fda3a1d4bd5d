package sidebar

import (
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"margin/pkg/surface"
	"margin/pkg/ui/styles"
)

const (
	chromeBorderSize = 1
	chromePaddingH   = 1
)

// Controller reconciles one sidebar's state into a rendered box. It mounts
// the active panel, tears it down on switch or hide, forwards input to it,
// and owns the resize-drag lifecycle for its inner edge.
type Controller struct {
	id  string
	reg *Registry

	panel    Panel
	panelID  string
	lastSize [2]int

	dragging       bool
	dragStartX     int
	dragStartWidth int
}

func newController(id string, reg *Registry) *Controller {
	return &Controller{id: id, reg: reg}
}

// ID returns the sidebar id this controller reconciles.
func (c *Controller) ID() string { return c.id }

// State reads the sidebar's current state slice.
func (c *Controller) State(sf *surface.Surface) State {
	field, ok := c.reg.Field(c.id)
	if !ok {
		return State{}
	}
	return surface.Get(sf, field)
}

// onUpdate is the surface listener keeping the mounted panel in step with
// the state slice after every transaction.
func (c *Controller) onUpdate(sf *surface.Surface, _ surface.Update) {
	c.sync(sf)
}

// sync mounts, switches, or unmounts the panel to match the active panel id.
// Switching always destroys the old instance and creates a fresh one.
func (c *Controller) sync(sf *surface.Surface) {
	st := c.State(sf)

	wantID := ""
	if st.Visible {
		wantID = st.ActivePanelID
	}

	if wantID != c.panelID {
		c.unmount()
		if wantID != "" {
			spec, ok := c.reg.Panel(wantID)
			if !ok {
				slog.Debug("sidebar_panel_missing", "sidebar", c.id, "panel", wantID)
			} else {
				c.panel = spec.Create(sf)
				c.panelID = wantID
				slog.Debug("sidebar_panel_mounted", "sidebar", c.id, "panel", wantID)
			}
		}
	}

	if c.panel != nil {
		if spec, ok := c.reg.Panel(c.panelID); ok && spec.Update != nil {
			spec.Update(sf, c.panel)
		}
	}
}

func (c *Controller) unmount() {
	if c.panel == nil {
		return
	}
	if spec, ok := c.reg.Panel(c.panelID); ok && spec.Destroy != nil {
		spec.Destroy(c.panel)
	}
	slog.Debug("sidebar_panel_unmounted", "sidebar", c.id, "panel", c.panelID)
	c.panel = nil
	c.panelID = ""
}

// MountedPanelID returns the id of the currently mounted panel, "" if none.
func (c *Controller) MountedPanelID() string { return c.panelID }

// Forward passes an input message to the mounted panel.
func (c *Controller) Forward(msg tea.Msg) tea.Cmd {
	if c.panel == nil {
		return nil
	}
	return c.panel.Update(msg)
}

// StartDrag begins a resize drag from column x. The width at drag start is
// the base every subsequent motion is measured against.
func (c *Controller) StartDrag(sf *surface.Surface, x int) {
	st := c.State(sf)
	c.dragging = true
	c.dragStartX = x
	c.dragStartWidth = st.Options.Width
}

// DragTo applies a drag motion at column x, dispatching the resulting width
// through the options effect so state stays the single source of truth.
func (c *Controller) DragTo(sf *surface.Surface, x int) {
	if !c.dragging {
		return
	}
	st := c.State(sf)
	deltaPx := (x - c.dragStartX) * CellPx
	width := ResizeWidth(c.dragStartWidth, deltaPx, st.Options.Dock)
	if width == st.Options.Width {
		return
	}
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetOptionsEffect{ID: c.id, Patch: OptionsPatch{Width: &width}},
	}})
}

// ContentOrigin returns the top-left terminal cell of the panel body inside
// the given box. Mouse events are translated against it before forwarding.
func (c *Controller) ContentOrigin(sf *surface.Surface, b Box) (int, int) {
	x := b.Region.X + chromePaddingH
	if c.State(sf).Options.Dock == DockRight {
		x += chromeBorderSize
	}
	return x, b.Region.Y + 2 // title + separator
}

// EndDrag releases the resize capture.
func (c *Controller) EndDrag() { c.dragging = false }

// Dragging reports whether a resize drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// View renders the sidebar chrome and mounted panel into the given region.
// An empty string is returned while hidden.
func (c *Controller) View(sf *surface.Surface, r Region) string {
	c.sync(sf)
	st := c.State(sf)
	if !st.Visible || r.W < 2 || r.H < 2 {
		return ""
	}

	contentWidth := r.W - chromeBorderSize - 2*chromePaddingH
	if contentWidth < 1 {
		contentWidth = 1
	}
	bodyHeight := r.H - 2 // title + separator
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	title := c.panelID
	if spec, ok := c.reg.Panel(c.panelID); ok && spec.Title != "" {
		title = spec.Title
	}

	lines := make([]string, 0, r.H)
	lines = append(lines, padStyled(styles.TitleStyle.Render(truncateToWidth(title, contentWidth)), contentWidth))
	lines = append(lines, strings.Repeat("─", contentWidth))

	var body []string
	if c.panel != nil {
		if c.lastSize != [2]int{contentWidth, bodyHeight} {
			c.panel.SetSize(contentWidth, bodyHeight)
			c.lastSize = [2]int{contentWidth, bodyHeight}
		}
		body = strings.Split(c.panel.View(), "\n")
	}
	for i := 0; i < bodyHeight; i++ {
		if i < len(body) {
			lines = append(lines, padStyled(body[i], contentWidth))
		} else {
			lines = append(lines, strings.Repeat(" ", contentWidth))
		}
	}

	content := strings.Join(lines[:min(len(lines), r.H)], "\n")

	box := lipgloss.NewStyle().
		Background(lipgloss.Color(st.Options.Background)).
		Padding(0, chromePaddingH).
		BorderForeground(styles.ColorBorderMuted)
	if st.Options.Dock == DockRight {
		// Handle edge faces the editor.
		box = box.Border(lipgloss.NormalBorder(), false, false, false, true)
	} else {
		box = box.Border(lipgloss.NormalBorder(), false, true, false, false)
	}

	return box.Render(content)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return trimToWidth(text, width)
	}
	return trimToWidth(text, width-3) + "..."
}

func trimToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			break
		}
		sb.WriteRune(r)
		currentWidth += runeWidth
	}
	return sb.String()
}

// padStyled fits a possibly-styled line to exactly width cells: over-wide
// lines are truncated so a panel can never render past its region.
func padStyled(text string, width int) string {
	if width <= 0 {
		return text
	}
	textWidth := lipgloss.Width(text)
	if textWidth > width {
		return ansi.Truncate(text, width, "")
	}
	if textWidth == width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}
