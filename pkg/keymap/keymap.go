// Package keymap routes global key chords to sidebar toggles. Bindings are
// registered per sidebar id and matched ahead of any other key handling by
// the program loop.
package keymap

import (
	"log/slog"
	"runtime"
	"strings"

	tea "charm.land/bubbletea/v2"

	"margin/pkg/sidebar"
	"margin/pkg/surface"
)

// Binding maps a key chord to a sidebar toggle. Either set Chord for a
// platform-independent binding, or Mac/Win for per-platform variants.
type Binding struct {
	Chord string
	Mac   string
	Win   string

	SidebarID string
}

// Router is the chord dispatch table. Like the sidebar registry it is an
// explicit value handed to whoever needs it.
type Router struct {
	reg      *sidebar.Registry
	bindings map[string]string // normalized chord -> sidebar id
	goos     string
}

// NewRouter creates a router toggling sidebars in the given registry.
func NewRouter(reg *sidebar.Registry) *Router {
	return &Router{
		reg:      reg,
		bindings: make(map[string]string),
		goos:     runtime.GOOS,
	}
}

// Bind installs a binding, replacing any previous binding for the same
// chord. Bindings with no chord for the current platform are ignored.
func (r *Router) Bind(b Binding) {
	chord := r.resolve(b)
	if chord == "" {
		return
	}
	r.bindings[chord] = b.SidebarID
	slog.Debug("keymap_bound", "chord", chord, "sidebar", b.SidebarID)
}

// Remove drops the binding for a chord.
func (r *Router) Remove(chord string) {
	delete(r.bindings, normalizeChord(chord))
}

// Bound returns the sidebar id a chord toggles, if any.
func (r *Router) Bound(chord string) (string, bool) {
	id, ok := r.bindings[normalizeChord(chord)]
	return id, ok
}

// Handle matches a key press against the table and toggles the bound
// sidebar. It returns true when the key was consumed; unknown chords and
// chords bound to ids that are not registered yet fall through.
func (r *Router) Handle(sf *surface.Surface, msg tea.KeyPressMsg) bool {
	id, ok := r.bindings[normalizeChord(msg.String())]
	if !ok {
		return false
	}
	return sidebar.Toggle(sf, r.reg, id)
}

// resolve picks the chord for the running platform.
func (r *Router) resolve(b Binding) string {
	if b.Chord != "" {
		return normalizeChord(b.Chord)
	}
	if r.goos == "darwin" {
		return normalizeChord(b.Mac)
	}
	return normalizeChord(b.Win)
}

// normalizeChord maps common chord spellings onto the form key messages
// stringify to: lowercase, "cmd" as "super", "opt" as "alt".
func normalizeChord(chord string) string {
	chord = strings.ToLower(strings.TrimSpace(chord))
	if chord == "" {
		return ""
	}
	parts := strings.Split(chord, "+")
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "cmd", "command":
			parts[i] = "super"
		case "opt", "option":
			parts[i] = "alt"
		case "control":
			parts[i] = "ctrl"
		default:
			parts[i] = strings.TrimSpace(p)
		}
	}
	return strings.Join(parts, "+")
}
