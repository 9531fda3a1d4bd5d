// Package sidebar implements a multi-instance docking framework for the
// editing surface: each sidebar owns a named state slice (visibility,
// options, active panel) and a view controller that reconciles that state
// into terminal layout. Any number of independently configured sidebars
// share one effect-dispatch channel; effects carry the target sidebar id
// and fold only into the matching instance.
package sidebar

import (
	"log/slog"

	"margin/pkg/surface"
)

// Dock is the edge of the surface a sidebar is anchored to.
type Dock string

const (
	DockLeft  Dock = "left"
	DockRight Dock = "right"
)

// Panel ids assigned when a sidebar is revealed with no active panel.
const (
	DefaultLeftPanelID  = "file-explorer"
	DefaultRightPanelID = "ai-assistant"
)

// Options is the per-instance configuration. Width is expressed in the
// layout's pixel contract (rendered at 8px per terminal column).
type Options struct {
	ID             string
	Dock           Dock
	Width          int
	Background     string
	Overlay        bool
	InitiallyOpen  bool
	InitialPanelID string
}

// DefaultOptions returns the instance defaults merged into every new
// sidebar: 250px wide, overlay, docked left, dark neutral background.
func DefaultOptions(id string) Options {
	return Options{
		ID:         id,
		Dock:       DockLeft,
		Width:      DefaultWidth,
		Background: "235",
		Overlay:    true,
	}
}

// Option mutates Options at construction time.
type Option func(*Options)

// WithDock sets the dock side.
func WithDock(d Dock) Option { return func(o *Options) { o.Dock = d } }

// WithWidth sets the initial width in layout px, clamped to [MinWidth, MaxWidth].
func WithWidth(px int) Option { return func(o *Options) { o.Width = ClampWidth(px) } }

// WithBackground sets the chrome background color.
func WithBackground(c string) Option { return func(o *Options) { o.Background = c } }

// WithOverlay selects overlay (floating) vs push (flex sibling) layout.
func WithOverlay(overlay bool) Option { return func(o *Options) { o.Overlay = overlay } }

// WithInitiallyOpen makes the sidebar visible at creation.
func WithInitiallyOpen(open bool) Option { return func(o *Options) { o.InitiallyOpen = open } }

// WithInitialPanel sets the panel activated on first reveal instead of the
// dock-side default.
func WithInitialPanel(panelID string) Option { return func(o *Options) { o.InitialPanelID = panelID } }

// State is one sidebar instance's slice value.
type State struct {
	Visible       bool
	Options       Options
	ActivePanelID string
}

// OptionsPatch is a partial options override carried by SetOptionsEffect.
// Nil fields leave the current value untouched.
type OptionsPatch struct {
	Width      *int
	Dock       *Dock
	Overlay    *bool
	Background *string
}

// ToggleEffect shows or hides the sidebar with the matching id.
type ToggleEffect struct {
	ID      string
	Visible bool
}

// SetOptionsEffect merges a partial options override into the matching
// sidebar. Live resize routes through this effect so programmatic and
// drag-driven width changes share one source of truth.
type SetOptionsEffect struct {
	ID    string
	Patch OptionsPatch
}

// SetActivePanelEffect selects the mounted panel ("" for none). While the
// sidebar is hidden the id is stored but nothing mounts until reveal.
type SetActivePanelEffect struct {
	ID      string
	PanelID string
}

// defaultPanelID resolves the panel auto-activated on first reveal.
func defaultPanelID(o Options) string {
	if o.InitialPanelID != "" {
		return o.InitialPanelID
	}
	if o.Dock == DockRight {
		return DefaultRightPanelID
	}
	return DefaultLeftPanelID
}

func newStateField(id string, initial Options) *surface.Field[State] {
	return surface.NewField("sidebar/"+id,
		func() State {
			st := State{Visible: initial.InitiallyOpen, Options: initial}
			if initial.InitiallyOpen {
				// Open at creation counts as the first reveal.
				st.ActivePanelID = defaultPanelID(initial)
			}
			return st
		},
		func(st State, tx surface.Transaction) State {
			for _, e := range tx.Effects {
				switch eff := e.(type) {
				case ToggleEffect:
					if eff.ID == id {
						st.Visible = eff.Visible
					}
				case SetOptionsEffect:
					if eff.ID == id {
						st.Options = mergeOptions(st.Options, eff.Patch)
					}
				case SetActivePanelEffect:
					if eff.ID == id {
						st.ActivePanelID = eff.PanelID
					}
				}
			}
			return st
		})
}

func mergeOptions(o Options, p OptionsPatch) Options {
	if p.Width != nil {
		o.Width = ClampWidth(*p.Width)
	}
	if p.Dock != nil {
		o.Dock = *p.Dock
	}
	if p.Overlay != nil {
		o.Overlay = *p.Overlay
	}
	if p.Background != nil {
		o.Background = *p.Background
	}
	return o
}

// New builds the extension fragment for one named sidebar: its state slice,
// its view controller, and a listener that auto-activates a default panel on
// first reveal. Calling New again with the same id returns the existing
// fragment unchanged; later option changes must go through SetOptionsEffect.
func New(reg *Registry, id string, opts ...Option) surface.Extension {
	if ext, ok := reg.extension(id); ok {
		slog.Debug("sidebar_already_registered", "id", id)
		return ext
	}

	merged := DefaultOptions(id)
	for _, opt := range opts {
		opt(&merged)
	}
	merged.ID = id
	merged.Width = ClampWidth(merged.Width)

	field := newStateField(id, merged)
	ctrl := newController(id, reg)

	ext := surface.Extension{
		Fields: []surface.AnyField{field},
		Listeners: []surface.UpdateListener{
			ctrl.onUpdate,
			autoActivateListener(id, field),
		},
	}
	reg.install(id, field, ctrl, ext)
	slog.Debug("sidebar_registered", "id", id, "dock", merged.Dock, "overlay", merged.Overlay)
	return ext
}

// autoActivateListener assigns the dock-side default panel when a toggle
// reveals a sidebar that has no active panel. A sidebar reopened with a
// previously selected panel keeps it.
func autoActivateListener(id string, field *surface.Field[State]) surface.UpdateListener {
	return func(sf *surface.Surface, u surface.Update) {
		revealed := false
		for _, e := range u.Tx.Effects {
			if t, ok := e.(ToggleEffect); ok && t.ID == id && t.Visible {
				revealed = true
				break
			}
		}
		if !revealed {
			return
		}
		st := surface.Value(u.New, field)
		if st.ActivePanelID != "" {
			return
		}
		sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			SetActivePanelEffect{ID: id, PanelID: defaultPanelID(st.Options)},
		}})
	}
}

// Toggle flips the visibility of the sidebar with the given id. It returns
// false when no sidebar is registered under the id; keybindings routinely
// fire before initialization completes, so this is a caller signal, not an
// error.
func Toggle(sf *surface.Surface, reg *Registry, id string) bool {
	field, ok := reg.Field(id)
	if !ok {
		slog.Debug("sidebar_toggle_unknown_id", "id", id)
		return false
	}
	st := surface.Get(sf, field)
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		ToggleEffect{ID: id, Visible: !st.Visible},
	}})
	return true
}
