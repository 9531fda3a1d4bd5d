package surface

import (
	"testing"
)

type incEffect struct{ n int }

func counterField(name string) *Field[int] {
	return NewField(name,
		func() int { return 0 },
		func(v int, tx Transaction) int {
			for _, e := range tx.Effects {
				if inc, ok := e.(incEffect); ok {
					v += inc.n
				}
			}
			return v
		})
}

func TestDispatchFoldsEffectsInOrder(t *testing.T) {
	s := New("")
	f := counterField("counter")
	s.Use(Extension{Fields: []AnyField{f}})

	s.Dispatch(Transaction{Effects: []Effect{incEffect{1}, incEffect{2}, incEffect{3}}})

	if got := Get(s, f); got != 6 {
		t.Fatalf("expected 6 after folding batch, got %d", got)
	}
}

func TestUseIsIdempotentPerField(t *testing.T) {
	s := New("")
	f := counterField("counter")
	s.Use(Extension{Fields: []AnyField{f}})
	s.Dispatch(Transaction{Effects: []Effect{incEffect{5}}})

	// Installing again must not reset the slice.
	s.Use(Extension{Fields: []AnyField{f}})

	if got := Get(s, f); got != 5 {
		t.Fatalf("expected value preserved across re-install, got %d", got)
	}
}

func TestListenerSeesBeforeAndAfter(t *testing.T) {
	s := New("")
	f := counterField("counter")

	var oldVal, newVal int
	s.Use(Extension{
		Fields: []AnyField{f},
		Listeners: []UpdateListener{func(_ *Surface, u Update) {
			oldVal = Value(u.Old, f)
			newVal = Value(u.New, f)
		}},
	})

	s.Dispatch(Transaction{Effects: []Effect{incEffect{7}}})

	if oldVal != 0 || newVal != 7 {
		t.Fatalf("expected old=0 new=7, got old=%d new=%d", oldVal, newVal)
	}
}

func TestReentrantDispatchIsQueued(t *testing.T) {
	s := New("")
	f := counterField("counter")

	var seen []int
	s.Use(Extension{
		Fields: []AnyField{f},
		Listeners: []UpdateListener{func(sf *Surface, u Update) {
			seen = append(seen, Value(u.New, f))
			if Value(u.New, f) == 1 {
				// Follow-up dispatch from inside the listener must run
				// after the current transaction completes.
				sf.Dispatch(Transaction{Effects: []Effect{incEffect{10}}})
			}
		}},
	})

	s.Dispatch(Transaction{Effects: []Effect{incEffect{1}}})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 11 {
		t.Fatalf("expected updates [1 11], got %v", seen)
	}
}

func TestDocumentChangeIsAtomicWithEffects(t *testing.T) {
	s := New("old content")
	f := counterField("counter")

	var docInListener string
	var valInListener int
	s.Use(Extension{
		Fields: []AnyField{f},
		Listeners: []UpdateListener{func(_ *Surface, u Update) {
			docInListener = u.New.Doc()
			valInListener = Value(u.New, f)
		}},
	})

	s.Dispatch(Transaction{
		Effects: []Effect{incEffect{1}},
		Changes: &Change{From: 0, To: s.DocLen(), Insert: "new content"},
	})

	if s.Doc() != "new content" {
		t.Fatalf("expected document replaced, got %q", s.Doc())
	}
	if docInListener != "new content" || valInListener != 1 {
		t.Fatalf("listener saw doc=%q val=%d; effect and change not atomic", docInListener, valInListener)
	}
}

func TestApplyChangeClampsRange(t *testing.T) {
	got := applyChange("abc", Change{From: -5, To: 100, Insert: "x"})
	if got != "x" {
		t.Fatalf("expected clamped full replace, got %q", got)
	}

	got = applyChange("abc", Change{From: 2, To: 1, Insert: "Z"})
	if got != "abZc" {
		t.Fatalf("expected inverted range treated as insert at from, got %q", got)
	}
}

func TestGetUninstalledFieldReturnsZero(t *testing.T) {
	s := New("")
	f := counterField("missing")
	if got := Get(s, f); got != 0 {
		t.Fatalf("expected zero value for uninstalled field, got %d", got)
	}
}
