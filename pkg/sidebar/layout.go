package sidebar

// Widths carry the layout contract of the original surface: logical pixels,
// rendered at CellPx pixels per terminal column. Keeping the px numbers
// intact means configs and effects stay portable across renderers.
const (
	CellPx = 8

	DefaultWidth = 250
	MinWidth     = 150
	MaxWidth     = 800
)

// Editor floor in columns when push sidebars crowd the surface.
const minEditorCols = 20

// ClampWidth bounds a width to [MinWidth, MaxWidth] px.
func ClampWidth(px int) int {
	if px < MinWidth {
		return MinWidth
	}
	if px > MaxWidth {
		return MaxWidth
	}
	return px
}

// ResizeWidth applies a horizontal drag delta to the width captured at drag
// start. Dragging the inner edge outward grows the sidebar, so the delta is
// added on a left dock and subtracted on a right dock, then clamped.
func ResizeWidth(startPx, deltaPx int, dock Dock) int {
	if dock == DockRight {
		return ClampWidth(startPx - deltaPx)
	}
	return ClampWidth(startPx + deltaPx)
}

// Columns converts a px width to terminal columns, never below 1.
func Columns(px int) int {
	cols := px / CellPx
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Region is a rectangle in terminal cells.
type Region struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) falls inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HandleX returns the column of the resize handle: the sidebar's inner edge.
func (r Region) HandleX(dock Dock) int {
	if dock == DockRight {
		return r.X
	}
	return r.X + r.W - 1
}

// Geometry maps one frame's terminal space to the editor and every visible
// sidebar. Push sidebars consume columns from their dock edge; overlay
// sidebars float over the editor without shrinking it.
type Geometry struct {
	Editor Region
	Boxes  []Box
}

// Box is one visible sidebar's placement for a frame.
type Box struct {
	ID      string
	Dock    Dock
	Overlay bool
	Region  Region
}

// BoxFor returns the placement of the sidebar with the given id.
func (g Geometry) BoxFor(id string) (Box, bool) {
	for _, b := range g.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// ComputeGeometry lays out the given sidebar states (in registry order)
// inside a width x height cell grid. Hidden sidebars get no box. The editor
// keeps at least minEditorCols columns; push sidebars past that floor are
// shrunk from the last-placed side.
func ComputeGeometry(width, height int, states []State) Geometry {
	left, right := 0, width

	g := Geometry{}
	for _, st := range states {
		if !st.Visible {
			continue
		}
		cols := Columns(st.Options.Width)
		if cols > width {
			cols = width
		}

		box := Box{ID: st.Options.ID, Dock: st.Options.Dock, Overlay: st.Options.Overlay}
		if st.Options.Dock == DockRight {
			if st.Options.Overlay {
				box.Region = Region{X: width - cols, Y: 0, W: cols, H: height}
			} else {
				box.Region = Region{X: right - cols, Y: 0, W: cols, H: height}
				right -= cols
			}
		} else {
			if st.Options.Overlay {
				box.Region = Region{X: 0, Y: 0, W: cols, H: height}
			} else {
				box.Region = Region{X: left, Y: 0, W: cols, H: height}
				left += cols
			}
		}
		g.Boxes = append(g.Boxes, box)
	}

	if right-left < minEditorCols {
		// Give back columns from the push sidebars rather than collapsing
		// the editor entirely.
		deficit := minEditorCols - (right - left)
		for i := len(g.Boxes) - 1; i >= 0 && deficit > 0; i-- {
			b := &g.Boxes[i]
			if b.Overlay {
				continue
			}
			give := b.Region.W - 1
			if give > deficit {
				give = deficit
			}
			if give <= 0 {
				continue
			}
			b.Region.W -= give
			if b.Dock == DockRight {
				b.Region.X += give
				right += give
			} else {
				left -= give
			}
			deficit -= give
		}
	}
	if right < left {
		right = left
	}

	g.Editor = Region{X: left, Y: 0, W: right - left, H: height}
	return g
}
