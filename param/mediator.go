// Package param implements the hierarchical reactive parameter store that
// drives dynamically changing rendering properties.
//
// Each view node owns one Mediator; mediators chain to their parent so that
// parameter lookup and expression variables resolve through the view
// hierarchy the same way encodings do. Parameter values live in exactly one
// mediator. Propagation is synchronous: a setter stores the value and invokes
// the listeners registered for that name before returning.
//
// Expressions are HCL expression text compiled once per source string per
// mediator and evaluated against the current parameter values of the
// mediators each free variable was bound to at compile time.
package param

import (
	"reflect"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/internal/cache"
)

// exprCacheCapacity bounds the per-mediator compiled-expression cache.
// Specs reuse a small set of expression strings, so the cache rarely fills;
// the bound only guards against pathological generated specs.
const exprCacheCapacity = 128

// Setter stores a new value for a parameter. Setting a value identical to
// the stored one is a silent no-op; otherwise every listener registered for
// the parameter runs synchronously, in registration order, before Setter
// returns.
type Setter func(value any)

// Spec declares a parameter: a static initial value or an expression,
// never both.
type Spec struct {
	// Name is the parameter name, unique within its mediator.
	Name string

	// Value is the static initial value.
	Value any

	// Expr is HCL expression text evaluated against ancestor parameters.
	Expr string
}

// listener is a registered change callback. The pointer identity of the
// entry is what Subscription removal matches on, so two subscriptions of
// the same function remain distinct.
type listener struct {
	fn func()
}

// Mediator is one node in the parameter tree. It exclusively owns its
// parameter values, setters and listener registry; the parent reference is
// used only for lookup and never mutated after construction.
type Mediator struct {
	parent    *Mediator
	values    map[string]any
	setters   map[string]Setter
	listeners map[string][]*listener
	exprs     *cache.Cache[string, *Expression]
}

// New creates a root mediator.
func New() *Mediator {
	return NewChild(nil)
}

// NewChild creates a mediator whose lookups ascend to parent.
// A nil parent creates a root.
func NewChild(parent *Mediator) *Mediator {
	return &Mediator{
		parent:    parent,
		values:    make(map[string]any),
		setters:   make(map[string]Setter),
		listeners: make(map[string][]*listener),
		exprs:     cache.New[string, *Expression](exprCacheCapacity),
	}
}

// RegisterParam registers a parameter from its spec and returns its setter.
//
// A static value allocates a real setter. An expression compiles it, seeds
// the parameter with its initial evaluation, re-applies the setter whenever
// any upstream dependency changes, and returns a no-op setter: expression-
// backed parameters cannot be set externally.
func (m *Mediator) RegisterParam(spec Spec) (Setter, error) {
	if spec.Value != nil && spec.Expr != "" {
		return nil, gv.Configf("registerParam", spec.Name, "value and expr are mutually exclusive")
	}

	if spec.Expr == "" {
		return m.AllocateSetter(spec.Name, spec.Value)
	}

	expr, err := m.CreateExpression(spec.Expr)
	if err != nil {
		return nil, err
	}
	initial, err := expr.Value()
	if err != nil {
		return nil, err
	}
	setter, err := m.AllocateSetter(spec.Name, initial)
	if err != nil {
		return nil, err
	}
	expr.AddListener(func() {
		v, err := expr.Value()
		if err != nil {
			gv.Logger().Warn("parameter expression failed", "param", spec.Name, "err", err)
			return
		}
		setter(v)
	})
	return func(any) {}, nil
}

// AllocateSetter allocates the setter for name, seeded with initial.
// A second allocation for the same name fails: a parameter has at most one
// setter per mediator.
func (m *Mediator) AllocateSetter(name string, initial any) (Setter, error) {
	if _, exists := m.setters[name]; exists {
		return nil, gv.Configf("allocateSetter", name, "setter already allocated")
	}

	m.values[name] = initial
	setter := Setter(func(value any) {
		if identical(m.values[name], value) {
			return
		}
		m.values[name] = value
		m.notify(name)
	})
	m.setters[name] = setter
	return setter, nil
}

// GetValue reads a parameter from this mediator's own storage.
func (m *Mediator) GetValue(name string) any {
	return m.values[name]
}

// Has reports whether this mediator itself owns name.
func (m *Mediator) Has(name string) bool {
	_, found := m.values[name]
	return found
}

// FindValue ascends the parent chain and returns the value from the nearest
// mediator (including this one) that owns name. ok is false when no
// ancestor does.
func (m *Mediator) FindValue(name string) (any, bool) {
	if owner := m.findOwner(name); owner != nil {
		return owner.values[name], true
	}
	return nil, false
}

// findOwner returns the nearest mediator on the parent chain owning name.
func (m *Mediator) findOwner(name string) *Mediator {
	for node := m; node != nil; node = node.parent {
		if _, found := node.values[name]; found {
			return node
		}
	}
	return nil
}

// Subscribe registers fn to run whenever the named parameter's value
// actually changes. The returned Subscription removes exactly this entry,
// leaving subscriptions added by other consumers untouched.
func (m *Mediator) Subscribe(name string, fn func()) *Subscription {
	l := &listener{fn: fn}
	m.listeners[name] = append(m.listeners[name], l)
	return &Subscription{mediator: m, name: name, entry: l}
}

// notify runs the listeners for name in registration order. The slice is
// snapshotted so a listener unsubscribing itself does not skip its
// neighbors.
func (m *Mediator) notify(name string) {
	registered := m.listeners[name]
	if len(registered) == 0 {
		return
	}
	snapshot := make([]*listener, len(registered))
	copy(snapshot, registered)
	for _, l := range snapshot {
		l.fn()
	}
}

// Subscription is a disposable handle to a registered listener.
type Subscription struct {
	mediator *Mediator
	name     string
	entry    *listener
}

// Unsubscribe removes the listener this subscription added. It is
// idempotent and removes nothing else.
func (s *Subscription) Unsubscribe() {
	if s.entry == nil {
		return
	}
	entries := s.mediator.listeners[s.name]
	for i, l := range entries {
		if l == s.entry {
			s.mediator.listeners[s.name] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	s.entry = nil
}

// identical reports whether a stored value and a new value are the same for
// change-detection purposes. Comparable values compare with ==; values of
// uncomparable types (slices, maps) are always treated as changed.
func identical(old, new any) bool {
	if old == nil && new == nil {
		return true
	}
	if old == nil || new == nil {
		return false
	}
	if !reflect.TypeOf(old).Comparable() || !reflect.TypeOf(new).Comparable() {
		return false
	}
	return old == new
}
