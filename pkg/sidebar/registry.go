package sidebar

import (
	"fmt"
	"log/slog"
	"sort"

	tea "charm.land/bubbletea/v2"

	"margin/pkg/surface"
)

// Panel is one mounted sidebar content view. Panels are created when their
// id becomes active and destroyed when it stops being active; they hold no
// state that cannot be rebuilt from the surface.
type Panel interface {
	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// PanelSpec describes a mountable panel type.
type PanelSpec struct {
	ID    string
	Title string

	// Create builds a fresh panel instance for a sidebar.
	Create func(sf *surface.Surface) Panel
	// Update is invoked after every transaction while the panel is mounted,
	// and once right after mounting. Optional.
	Update func(sf *surface.Surface, p Panel)
	// Destroy releases the instance on unmount or panel switch. Optional.
	Destroy func(p Panel)
}

type registryEntry struct {
	field *surface.Field[State]
	ctrl  *Controller
	ext   surface.Extension
}

// Registry is the explicit wiring context shared by all sidebars: panel
// specs, per-id state fields, and view controllers. Callers construct one
// per program and pass it where needed; there is no package-level instance.
type Registry struct {
	panels  map[string]PanelSpec
	entries map[string]*registryEntry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		panels:  make(map[string]PanelSpec),
		entries: make(map[string]*registryEntry),
	}
}

// RegisterPanel adds a panel type. Ids must be unique; re-registering an
// existing id is an error so two features cannot silently shadow each other.
func (r *Registry) RegisterPanel(spec PanelSpec) error {
	if spec.ID == "" {
		return fmt.Errorf("panel id cannot be empty")
	}
	if spec.Create == nil {
		return fmt.Errorf("panel %q has no create function", spec.ID)
	}
	if _, exists := r.panels[spec.ID]; exists {
		return fmt.Errorf("panel %q already registered", spec.ID)
	}
	r.panels[spec.ID] = spec
	slog.Debug("panel_registered", "id", spec.ID)
	return nil
}

// UnregisterPanel removes a panel type. Sidebars currently showing it
// unmount on their next reconcile.
func (r *Registry) UnregisterPanel(id string) {
	delete(r.panels, id)
}

// Panel looks up a panel spec by id.
func (r *Registry) Panel(id string) (PanelSpec, bool) {
	spec, ok := r.panels[id]
	return spec, ok
}

// PanelIDs returns the registered panel ids, sorted.
func (r *Registry) PanelIDs() []string {
	ids := make([]string, 0, len(r.panels))
	for id := range r.panels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Field returns the state field for a sidebar id.
func (r *Registry) Field(id string) (*surface.Field[State], bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.field, true
}

// Controller returns the view controller for a sidebar id.
func (r *Registry) Controller(id string) (*Controller, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

// Controllers returns every sidebar's controller in creation order. Layout
// uses this ordering, so it is deterministic across frames.
func (r *Registry) Controllers() []*Controller {
	ctrls := make([]*Controller, 0, len(r.order))
	for _, id := range r.order {
		ctrls = append(ctrls, r.entries[id].ctrl)
	}
	return ctrls
}

// States reads every sidebar's current state in creation order.
func (r *Registry) States(sf *surface.Surface) []State {
	states := make([]State, 0, len(r.order))
	for _, id := range r.order {
		states = append(states, surface.Get(sf, r.entries[id].field))
	}
	return states
}

// Dispose unmounts every panel and clears the registry. After Dispose the
// registry is empty and can be reused; the surface keeps its slices but no
// controller reacts to them anymore.
func (r *Registry) Dispose() {
	for _, id := range r.order {
		r.entries[id].ctrl.unmount()
	}
	r.panels = make(map[string]PanelSpec)
	r.entries = make(map[string]*registryEntry)
	r.order = nil
	slog.Debug("sidebar_registry_disposed")
}

func (r *Registry) extension(id string) (surface.Extension, bool) {
	e, ok := r.entries[id]
	if !ok {
		return surface.Extension{}, false
	}
	return e.ext, true
}

func (r *Registry) install(id string, field *surface.Field[State], ctrl *Controller, ext surface.Extension) {
	r.entries[id] = &registryEntry{field: field, ctrl: ctrl, ext: ext}
	r.order = append(r.order, id)
}
