package explorer

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"margin/pkg/sidebar"
	"margin/pkg/surface"
	"margin/pkg/ui/styles"
)

// PanelSpec returns the explorer's registration for the sidebar registry.
func PanelSpec() sidebar.PanelSpec {
	return sidebar.PanelSpec{
		ID:     PanelID,
		Title:  "Explorer",
		Create: func(sf *surface.Surface) sidebar.Panel { return newPanel(sf) },
		Update: func(_ *surface.Surface, p sidebar.Panel) { p.(*Panel).refresh() },
	}
}

type row struct {
	depth    int
	label    string
	path     string
	isDir    bool
	expanded bool
}

// Panel renders the file tree and translates clicks and keys into effects.
type Panel struct {
	sf     *surface.Surface
	width  int
	height int
	scroll int
	cursor int
	rows   []row
}

func newPanel(sf *surface.Surface) *Panel {
	p := &Panel{sf: sf}
	p.refresh()
	return p
}

// SetSize sets the content area in cells.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clampScroll()
}

// refresh rebuilds the visible rows from the current state.
func (p *Panel) refresh() {
	st := GetState(p.sf)
	p.rows = p.rows[:0]

	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			r := row{depth: depth, label: n.Name, path: n.Path, isDir: n.IsDir}
			if n.IsDir {
				r.expanded = st.ExpandedDirs[n.Path]
			}
			p.rows = append(p.rows, r)
			if n.IsDir && r.expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(BuildTree(st.Files), 0)

	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.clampScroll()
}

// Update handles keys and panel-local mouse events.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyPressMsg:
		switch m.String() {
		case "up", "k":
			p.moveCursor(-1)
		case "down", "j":
			p.moveCursor(1)
		case "enter":
			p.activate(p.cursor)
		}
	case tea.MouseClickMsg:
		mouse := m.Mouse()
		if mouse.Button == tea.MouseLeft {
			if idx, ok := p.rowAt(mouse.Y); ok {
				p.cursor = idx
				p.activate(idx)
			}
		}
	case tea.MouseWheelMsg:
		switch m.Mouse().Button {
		case tea.MouseWheelUp:
			p.scroll -= 3
		case tea.MouseWheelDown:
			p.scroll += 3
		}
		p.clampScroll()
	}
	return nil
}

// activate opens the file or toggles the directory at a row index.
func (p *Panel) activate(idx int) {
	if idx < 0 || idx >= len(p.rows) {
		return
	}
	r := p.rows[idx]
	if r.isDir {
		p.sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			ToggleDirEffect{Path: r.path},
		}})
		return
	}
	OpenFile(p.sf, r.path)
}

// rowAt maps a panel-local y to a row index. Line 0 is the project header.
func (p *Panel) rowAt(y int) (int, bool) {
	idx := y - 1 + p.scroll
	if y < 1 || idx < 0 || idx >= len(p.rows) {
		return 0, false
	}
	return idx, true
}

func (p *Panel) moveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < p.scroll {
		p.scroll = p.cursor
	}
	if p.cursor >= p.scroll+p.visibleRows() {
		p.scroll = p.cursor - p.visibleRows() + 1
	}
	p.clampScroll()
}

func (p *Panel) visibleRows() int {
	v := p.height - 1 // project header
	if v < 1 {
		v = 1
	}
	return v
}

func (p *Panel) clampScroll() {
	max := len(p.rows) - p.visibleRows()
	if max < 0 {
		max = 0
	}
	if p.scroll > max {
		p.scroll = max
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// View renders the project header and the visible slice of tree rows.
func (p *Panel) View() string {
	st := GetState(p.sf)

	name := st.ProjectName
	if name == "" {
		name = "workspace"
	}
	lines := []string{styles.TextBoldStyle.Render(name)}

	end := p.scroll + p.visibleRows()
	if end > len(p.rows) {
		end = len(p.rows)
	}
	for i := p.scroll; i < end; i++ {
		lines = append(lines, p.renderRow(p.rows[i], i, st.SelectedFile))
	}
	return strings.Join(lines, "\n")
}

func (p *Panel) renderRow(r row, idx int, selected string) string {
	indent := strings.Repeat("  ", r.depth)

	var marker string
	if r.isDir {
		if r.expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	} else {
		marker = "  "
	}

	line := indent + marker + r.label
	switch {
	case !r.isDir && r.path == selected:
		return styles.SelectedStyle.Render(line)
	case idx == p.cursor:
		return styles.TextBoldStyle.Render(line)
	case r.isDir:
		return styles.DirectoryStyle.Render(line)
	default:
		return styles.TextStyle.Render(line)
	}
}
