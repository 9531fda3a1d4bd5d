package sidebar

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"margin/pkg/surface"
)

type fakePanel struct {
	id        string
	width     int
	height    int
	refreshed int
}

func (p *fakePanel) SetSize(w, h int) { p.width, p.height = w, h }

func (p *fakePanel) Update(tea.Msg) tea.Cmd { return nil }

func (p *fakePanel) View() string { return p.id }

func registerFakePanel(t *testing.T, reg *Registry, id string) *int {
	t.Helper()
	destroyed := 0
	err := reg.RegisterPanel(PanelSpec{
		ID:      id,
		Title:   id,
		Create:  func(_ *surface.Surface) Panel { return &fakePanel{id: id} },
		Update:  func(_ *surface.Surface, p Panel) { p.(*fakePanel).refreshed++ },
		Destroy: func(_ Panel) { destroyed++ },
	})
	if err != nil {
		t.Fatalf("register panel %q: %v", id, err)
	}
	return &destroyed
}

func newTestSidebar(t *testing.T, id string, opts ...Option) (*surface.Surface, *Registry) {
	t.Helper()
	sf := surface.New("")
	reg := NewRegistry()
	sf.Use(New(reg, id, opts...))
	return sf, reg
}

func TestTogglePairRestoresHidden(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	field, _ := reg.Field("main")

	if !Toggle(sf, reg, "main") {
		t.Fatal("expected toggle of known id to return true")
	}
	if !surface.Get(sf, field).Visible {
		t.Fatal("expected sidebar visible after first toggle")
	}

	Toggle(sf, reg, "main")
	if surface.Get(sf, field).Visible {
		t.Fatal("expected sidebar hidden after second toggle")
	}
}

func TestToggleUnknownIDReturnsFalse(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	if Toggle(sf, reg, "nope") {
		t.Fatal("expected toggle of unknown id to return false")
	}
}

func TestDefaultPanelAssignedOnceOnReveal(t *testing.T) {
	sf, reg := newTestSidebar(t, "right", WithDock(DockRight))
	field, _ := reg.Field("right")

	Toggle(sf, reg, "right")
	if got := surface.Get(sf, field).ActivePanelID; got != DefaultRightPanelID {
		t.Fatalf("expected dock default %q on first reveal, got %q", DefaultRightPanelID, got)
	}

	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetActivePanelEffect{ID: "right", PanelID: "custom"},
	}})

	// Reopening must keep the explicit selection, not reapply the default.
	Toggle(sf, reg, "right")
	Toggle(sf, reg, "right")
	if got := surface.Get(sf, field).ActivePanelID; got != "custom" {
		t.Fatalf("expected panel selection preserved across reopen, got %q", got)
	}
}

func TestInitialPanelOverridesDockDefault(t *testing.T) {
	sf, reg := newTestSidebar(t, "main", WithInitialPanel("outline"))
	field, _ := reg.Field("main")

	Toggle(sf, reg, "main")
	if got := surface.Get(sf, field).ActivePanelID; got != "outline" {
		t.Fatalf("expected initial panel %q, got %q", "outline", got)
	}
}

func TestInitiallyOpenActivatesDefaultPanel(t *testing.T) {
	sf, reg := newTestSidebar(t, "main", WithInitiallyOpen(true))
	field, _ := reg.Field("main")

	st := surface.Get(sf, field)
	if !st.Visible {
		t.Fatal("expected sidebar visible at creation")
	}
	if st.ActivePanelID != DefaultLeftPanelID {
		t.Fatalf("expected left dock default %q, got %q", DefaultLeftPanelID, st.ActivePanelID)
	}
}

func TestNewIsIdempotentPerID(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	Toggle(sf, reg, "main")

	// Re-creating with conflicting options must not reset state or options.
	sf.Use(New(reg, "main", WithDock(DockRight), WithWidth(700)))

	field, _ := reg.Field("main")
	st := surface.Get(sf, field)
	if !st.Visible {
		t.Fatal("expected visibility preserved across duplicate New")
	}
	if st.Options.Dock != DockLeft || st.Options.Width != DefaultWidth {
		t.Fatalf("expected first-writer options to win, got %+v", st.Options)
	}
	if len(reg.Controllers()) != 1 {
		t.Fatalf("expected one controller, got %d", len(reg.Controllers()))
	}
}

func TestEffectsTargetOnlyMatchingInstance(t *testing.T) {
	sf := surface.New("")
	reg := NewRegistry()
	sf.Use(New(reg, "left"), New(reg, "right", WithDock(DockRight)))

	Toggle(sf, reg, "left")

	leftField, _ := reg.Field("left")
	rightField, _ := reg.Field("right")
	if !surface.Get(sf, leftField).Visible {
		t.Fatal("expected left sidebar visible")
	}
	if surface.Get(sf, rightField).Visible {
		t.Fatal("expected right sidebar untouched by left toggle")
	}
}

func TestSetOptionsMergesPartialPatch(t *testing.T) {
	sf, reg := newTestSidebar(t, "main", WithBackground("52"))
	field, _ := reg.Field("main")

	w := 400
	overlay := false
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetOptionsEffect{ID: "main", Patch: OptionsPatch{Width: &w, Overlay: &overlay}},
	}})

	st := surface.Get(sf, field)
	if st.Options.Width != 400 {
		t.Fatalf("expected width 400, got %d", st.Options.Width)
	}
	if st.Options.Overlay {
		t.Fatal("expected overlay disabled")
	}
	if st.Options.Background != "52" {
		t.Fatalf("expected untouched background preserved, got %q", st.Options.Background)
	}
}

func TestSetOptionsClampsWidth(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	field, _ := reg.Field("main")

	for _, tc := range []struct{ in, want int }{
		{50, MinWidth},
		{300, 300},
		{2000, MaxWidth},
	} {
		w := tc.in
		sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
			SetOptionsEffect{ID: "main", Patch: OptionsPatch{Width: &w}},
		}})
		if got := surface.Get(sf, field).Options.Width; got != tc.want {
			t.Fatalf("width %d: expected clamp to %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestSetActivePanelWhileHiddenStoresWithoutMounting(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	registerFakePanel(t, reg, "notes")

	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetActivePanelEffect{ID: "main", PanelID: "notes"},
	}})

	ctrl, _ := reg.Controller("main")
	field, _ := reg.Field("main")
	if got := surface.Get(sf, field).ActivePanelID; got != "notes" {
		t.Fatalf("expected stored panel id, got %q", got)
	}
	if ctrl.MountedPanelID() != "" {
		t.Fatalf("expected nothing mounted while hidden, got %q", ctrl.MountedPanelID())
	}

	Toggle(sf, reg, "main")
	if ctrl.MountedPanelID() != "notes" {
		t.Fatalf("expected panel mounted on reveal, got %q", ctrl.MountedPanelID())
	}
}

func TestPanelSwitchDestroysAndRecreates(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	destroyedA := registerFakePanel(t, reg, "a")
	destroyedB := registerFakePanel(t, reg, "b")

	Toggle(sf, reg, "main")
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetActivePanelEffect{ID: "main", PanelID: "a"},
	}})
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetActivePanelEffect{ID: "main", PanelID: "b"},
	}})

	if *destroyedA != 1 {
		t.Fatalf("expected panel a destroyed on switch, destroy count %d", *destroyedA)
	}

	Toggle(sf, reg, "main")
	if *destroyedB != 1 {
		t.Fatalf("expected panel b destroyed on hide, destroy count %d", *destroyedB)
	}

	ctrl, _ := reg.Controller("main")
	if ctrl.MountedPanelID() != "" {
		t.Fatalf("expected nothing mounted after hide, got %q", ctrl.MountedPanelID())
	}
}

func TestRegisterPanelRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	registerFakePanel(t, reg, "a")
	err := reg.RegisterPanel(PanelSpec{
		ID:     "a",
		Create: func(_ *surface.Surface) Panel { return &fakePanel{id: "a"} },
	})
	if err == nil {
		t.Fatal("expected duplicate panel registration to fail")
	}
}

func TestDisposeUnmountsPanels(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	destroyed := registerFakePanel(t, reg, "a")

	Toggle(sf, reg, "main")
	sf.Dispatch(surface.Transaction{Effects: []surface.Effect{
		SetActivePanelEffect{ID: "main", PanelID: "a"},
	}})

	reg.Dispose()
	if *destroyed != 1 {
		t.Fatalf("expected mounted panel destroyed on dispose, destroy count %d", *destroyed)
	}
	if _, ok := reg.Field("main"); ok {
		t.Fatal("expected registry empty after dispose")
	}
}

func TestDragResizeDispatchesWidth(t *testing.T) {
	sf, reg := newTestSidebar(t, "main")
	ctrl, _ := reg.Controller("main")
	field, _ := reg.Field("main")

	ctrl.StartDrag(sf, 30)
	ctrl.DragTo(sf, 35) // 5 cells = 40 px outward on a left dock

	if got := surface.Get(sf, field).Options.Width; got != DefaultWidth+5*CellPx {
		t.Fatalf("expected width %d after drag, got %d", DefaultWidth+5*CellPx, got)
	}

	ctrl.EndDrag()
	ctrl.DragTo(sf, 60)
	if got := surface.Get(sf, field).Options.Width; got != DefaultWidth+5*CellPx {
		t.Fatalf("expected no resize after release, got %d", got)
	}
}

func TestViewClampsOverwidePanelLines(t *testing.T) {
	sf := surface.New("")
	reg := NewRegistry()
	err := reg.RegisterPanel(PanelSpec{
		ID:     "wide",
		Title:  "Wide",
		Create: func(_ *surface.Surface) Panel { return &fakePanel{id: strings.Repeat("x", 120)} },
	})
	if err != nil {
		t.Fatalf("register panel: %v", err)
	}
	sf.Use(New(reg, "main", WithInitialPanel("wide")))
	Toggle(sf, reg, "main")

	ctrl, _ := reg.Controller("main")
	r := Region{X: 0, Y: 0, W: 31, H: 10}
	out := ctrl.View(sf, r)

	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > r.W {
			t.Fatalf("line %d rendered %d cells wide, exceeds region width %d", i, w, r.W)
		}
	}
}
