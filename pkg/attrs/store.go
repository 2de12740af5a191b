package attrs

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/go-drift/dtkit/pkg/errors"
)

// Value is an attribute value that may be absent.
type Value struct {
	V       string
	Present bool
}

// Absent is the value of an attribute that is not set.
var Absent = Value{}

// Present returns a set value.
func Present(v string) Value {
	return Value{V: v, Present: true}
}

func (v Value) String() string {
	if !v.Present {
		return "<absent>"
	}
	return v.V
}

// Snapshot is an immutable view of the attributes and their derived values
// at one store generation.
type Snapshot struct {
	schema  *Schema
	gen     uint64
	raw     map[string]Value
	derived map[string]any
	order   []string
}

// Generation returns the store generation the snapshot was taken at.
func (s Snapshot) Generation() uint64 { return s.gen }

// Raw returns the attribute value as set.
func (s Snapshot) Raw(name string) Value { return s.raw[name] }

// Names returns the present attribute names in insertion order.
func (s Snapshot) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Value returns the derived value of name, or nil if name is neither
// declared nor present.
func (s Snapshot) Value(name string) any { return s.derived[name] }

// Bool returns the derived boolean value of name.
func (s Snapshot) Bool(name string) bool {
	b, _ := s.derived[name].(bool)
	return b
}

// String returns the derived string value of name. Undeclared attributes
// yield their raw value.
func (s Snapshot) String(name string) string {
	v, _ := s.derived[name].(string)
	return v
}

// Int returns the derived integer value of name.
func (s Snapshot) Int(name string) int {
	n, _ := s.derived[name].(int)
	return n
}

// Duration returns the derived duration value of name.
func (s Snapshot) Duration(name string) time.Duration {
	d, _ := s.derived[name].(time.Duration)
	return d
}

// Diff returns the names whose derived value differs between prev and next,
// declared attributes first in schema order, then undeclared ones.
func Diff(prev, next Snapshot) []string {
	schema := next.schema
	if schema == nil {
		schema = prev.schema
	}
	var changed []string
	seen := make(map[string]bool)
	for _, name := range schema.Names() {
		seen[name] = true
		if prev.derived[name] != next.derived[name] {
			changed = append(changed, name)
		}
	}
	for _, snap := range []Snapshot{prev, next} {
		for _, name := range snap.order {
			if seen[name] {
				continue
			}
			seen[name] = true
			if prev.raw[name] != next.raw[name] {
				changed = append(changed, name)
			}
		}
	}
	return changed
}

// Store holds one instance's attributes.
type Store struct {
	schema    *Schema
	attrs     *orderedmap.OrderedMap[string, string]
	errs      errors.Handler
	component string
	gen       uint64
	cached    *Snapshot
}

// NewStore creates an empty store. Parse failures are reported to h as
// diagnostics tagged with component.
func NewStore(schema *Schema, h errors.Handler, component string) *Store {
	if schema == nil {
		schema = NewSchema()
	}
	return &Store{
		schema:    schema,
		attrs:     orderedmap.New[string, string](),
		errs:      h,
		component: component,
	}
}

// Schema returns the store's schema.
func (s *Store) Schema() *Schema { return s.schema }

// Generation counts the changes applied so far.
func (s *Store) Generation() uint64 { return s.gen }

// Get returns the current raw value of name.
func (s *Store) Get(name string) Value {
	v, ok := s.attrs.Get(name)
	if !ok {
		return Absent
	}
	return Present(v)
}

// Set stores v under name and reports whether the held value changed.
// Setting the value already held, including absent over absent, is a no-op.
func (s *Store) Set(name string, v Value) bool {
	if s.Get(name) == v {
		return false
	}
	if v.Present {
		s.attrs.Set(name, v.V)
	} else {
		s.attrs.Delete(name)
	}
	s.gen++
	s.cached = nil

	if decl, ok := s.schema.Lookup(name); ok {
		if _, err := decl.parse(v); err != nil {
			errors.ReportDiagnostic(s.errs, &errors.Diagnostic{
				Code:      errors.CodeInvalidAttribute,
				Op:        "attrs.Store.Set",
				Component: s.component,
				Message:   "falling back to default",
				Err:       err,
			})
		}
	}
	return true
}

// State returns the derived state for the current attributes. It has no
// side effects and returns equal snapshots until the next change.
func (s *Store) State() Snapshot {
	if s.cached != nil {
		return *s.cached
	}
	snap := Snapshot{
		schema:  s.schema,
		gen:     s.gen,
		raw:     make(map[string]Value, s.attrs.Len()),
		derived: make(map[string]any, s.attrs.Len()+len(s.schema.decls)),
		order:   make([]string, 0, s.attrs.Len()),
	}
	for pair := s.attrs.Oldest(); pair != nil; pair = pair.Next() {
		snap.raw[pair.Key] = Present(pair.Value)
		snap.order = append(snap.order, pair.Key)
		if !s.schema.Observed(pair.Key) {
			snap.derived[pair.Key] = pair.Value
		}
	}
	for _, decl := range s.schema.decls {
		v, _ := decl.parse(snap.raw[decl.Name])
		snap.derived[decl.Name] = v
	}
	s.cached = &snap
	return snap
}
