// Package surface hosts the editing surface this project extends: a document
// plus a transactional store of named state slices. Extensions register
// slices and update listeners; all mutation flows through Dispatch, which
// folds a batch of effects into every slice, applies an optional document
// change, and notifies listeners with before/after snapshots.
package surface

// Effect is one typed, immutable state-transition payload. Concrete effect
// types live with the slice that consumes them; reducers type-switch on the
// values they recognize and ignore the rest.
type Effect any

// Change replaces the byte range [From, To) of the document with Insert.
type Change struct {
	From   int
	To     int
	Insert string
}

// Transaction is the unit of mutation: a batch of effects folded in order,
// plus an optional atomic document change.
type Transaction struct {
	Effects []Effect
	Changes *Change
}

// Field is a typed handle for one named state slice.
type Field[T any] struct {
	name   string
	create func() T
	update func(T, Transaction) T
}

// NewField defines a state slice. The update reducer receives the whole
// transaction and must return the new value without mutating the old one.
func NewField[T any](name string, create func() T, update func(T, Transaction) T) *Field[T] {
	return &Field[T]{name: name, create: create, update: update}
}

// Name returns the slice name the field was registered under.
func (f *Field[T]) Name() string { return f.name }

func (f *Field[T]) createAny() any { return f.create() }

func (f *Field[T]) updateAny(value any, tx Transaction) any {
	return f.update(value.(T), tx)
}

// AnyField is the type-erased view of a Field used during installation.
type AnyField interface {
	Name() string
	createAny() any
	updateAny(any, Transaction) any
}

// Snapshot is an immutable view of the surface taken around a dispatch.
type Snapshot struct {
	doc    string
	values map[string]any
}

// Doc returns the document text at the time of the snapshot.
func (s Snapshot) Doc() string { return s.doc }

// Value reads a slice value out of a snapshot. The zero value is returned
// for fields that were not installed when the snapshot was taken.
func Value[T any](s Snapshot, f *Field[T]) T {
	if v, ok := s.values[f.name]; ok {
		return v.(T)
	}
	var zero T
	return zero
}

// Update describes one completed transaction to a listener.
type Update struct {
	Old Snapshot
	New Snapshot
	Tx  Transaction
}

// DocChanged reports whether the transaction replaced document content.
func (u Update) DocChanged() bool { return u.Tx.Changes != nil }

// UpdateListener observes every dispatched transaction after it has been
// folded. Listeners run synchronously, in registration order, and may
// dispatch follow-up transactions; those are queued and run to completion
// before Dispatch returns to the outermost caller.
type UpdateListener func(*Surface, Update)

// Extension bundles the pieces a feature installs into a surface.
type Extension struct {
	Fields    []AnyField
	Listeners []UpdateListener
}

type slot struct {
	field AnyField
	value any
}

// Surface is the host editing widget boundary: document text and the slice
// store. It is a single-goroutine object; all calls must come from the
// program's update loop.
type Surface struct {
	doc         string
	slots       map[string]*slot
	order       []string
	listeners   []UpdateListener
	dispatching bool
	queue       []Transaction
}

// New creates an empty surface with the given initial document.
func New(doc string) *Surface {
	return &Surface{
		doc:   doc,
		slots: make(map[string]*slot),
	}
}

// Use installs extensions. Installing a field whose name is already present
// is a no-op, so extensions may be composed idempotently.
func (s *Surface) Use(exts ...Extension) {
	for _, ext := range exts {
		for _, f := range ext.Fields {
			if _, exists := s.slots[f.Name()]; exists {
				continue
			}
			s.slots[f.Name()] = &slot{field: f, value: f.createAny()}
			s.order = append(s.order, f.Name())
		}
		s.listeners = append(s.listeners, ext.Listeners...)
	}
}

// Doc returns the current document text.
func (s *Surface) Doc() string { return s.doc }

// DocLen returns the document length in bytes.
func (s *Surface) DocLen() int { return len(s.doc) }

// Get reads the current value of an installed slice. The zero value is
// returned when the field is not installed.
func Get[T any](s *Surface, f *Field[T]) T {
	if sl, ok := s.slots[f.name]; ok {
		return sl.value.(T)
	}
	var zero T
	return zero
}

// Has reports whether a field with the given name is installed.
func (s *Surface) Has(name string) bool {
	_, ok := s.slots[name]
	return ok
}

// Dispatch folds a transaction into every installed slice (in installation
// order), applies the document change, then notifies listeners. A dispatch
// issued from inside a listener is queued and processed after the current
// transaction finishes, preserving run-to-completion ordering.
func (s *Surface) Dispatch(tx Transaction) {
	s.queue = append(s.queue, tx)
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next)
	}
}

func (s *Surface) apply(tx Transaction) {
	old := s.snapshot()

	for _, name := range s.order {
		sl := s.slots[name]
		sl.value = sl.field.updateAny(sl.value, tx)
	}
	if tx.Changes != nil {
		s.doc = applyChange(s.doc, *tx.Changes)
	}

	update := Update{Old: old, New: s.snapshot(), Tx: tx}
	for _, l := range s.listeners {
		l(s, update)
	}
}

func (s *Surface) snapshot() Snapshot {
	values := make(map[string]any, len(s.slots))
	for name, sl := range s.slots {
		values[name] = sl.value
	}
	return Snapshot{doc: s.doc, values: values}
}

func applyChange(doc string, c Change) string {
	from, to := c.From, c.To
	if from < 0 {
		from = 0
	}
	if from > len(doc) {
		from = len(doc)
	}
	if to < from {
		to = from
	}
	if to > len(doc) {
		to = len(doc)
	}
	return doc[:from] + c.Insert + doc[to:]
}
