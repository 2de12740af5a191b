// Package attrs holds a component's observed attributes and projects them
// into typed derived state.
//
// Attributes are strings or absent; absent is distinct from the empty
// string. Each component declares a [Schema] describing how its attributes
// parse. Values that fail to parse fall back to the declared default and are
// reported as non-fatal diagnostics.
package attrs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-drift/dtkit/pkg/errors"
)

// Kind is the type an attribute parses into.
type Kind int

const (
	// KindBool is true when the attribute is present, whatever its value.
	KindBool Kind = iota
	// KindFlag is true unless the attribute is present with the value
	// "false"; absent yields the declared default.
	KindFlag
	// KindString is the raw value, or the default when absent.
	KindString
	// KindEnum is one of a fixed set of lowercase values.
	KindEnum
	// KindInt is a base-10 integer.
	KindInt
	// KindMillis is a non-negative count of milliseconds.
	KindMillis
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFlag:
		return "flag"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindInt:
		return "int"
	case KindMillis:
		return "milliseconds"
	default:
		return "unknown"
	}
}

// Decl declares one observed attribute.
type Decl struct {
	Name    string
	Kind    Kind
	Default any
	Allowed []string
}

// Bool declares a presence attribute such as checked or disabled.
func Bool(name string) Decl {
	return Decl{Name: name, Kind: KindBool, Default: false}
}

// Flag declares an attribute that is on by default and turned off by the
// literal value "false".
func Flag(name string, def bool) Decl {
	return Decl{Name: name, Kind: KindFlag, Default: def}
}

// String declares a free-form string attribute.
func String(name, def string) Decl {
	return Decl{Name: name, Kind: KindString, Default: def}
}

// Enum declares an attribute restricted to allowed. def must be one of them.
func Enum(name, def string, allowed ...string) Decl {
	return Decl{Name: name, Kind: KindEnum, Default: def, Allowed: allowed}
}

// Int declares an integer attribute.
func Int(name string, def int) Decl {
	return Decl{Name: name, Kind: KindInt, Default: def}
}

// Millis declares a duration attribute written in milliseconds.
func Millis(name string, def time.Duration) Decl {
	return Decl{Name: name, Kind: KindMillis, Default: def}
}

// want describes the accepted values for error messages.
func (d Decl) want() string {
	switch d.Kind {
	case KindEnum:
		return "one of " + strings.Join(d.Allowed, ", ")
	case KindMillis:
		return "non-negative milliseconds"
	default:
		return d.Kind.String()
	}
}

// parse projects raw into the declared type. On failure it returns the
// default together with a non-nil error.
func (d Decl) parse(raw Value) (any, error) {
	switch d.Kind {
	case KindBool:
		return raw.Present, nil
	case KindFlag:
		if !raw.Present {
			return d.Default, nil
		}
		return !strings.EqualFold(strings.TrimSpace(raw.V), "false"), nil
	case KindString:
		if !raw.Present {
			return d.Default, nil
		}
		return raw.V, nil
	}

	v := strings.TrimSpace(raw.V)
	if !raw.Present || v == "" {
		return d.Default, nil
	}

	switch d.Kind {
	case KindEnum:
		v = strings.ToLower(v)
		if slices.Contains(d.Allowed, v) {
			return v, nil
		}
	case KindInt:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	case KindMillis:
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond, nil
		}
	default:
		return d.Default, fmt.Errorf("attrs: unknown kind %d", d.Kind)
	}
	return d.Default, &errors.AttributeError{Name: d.Name, Value: raw.V, Want: d.want()}
}

// Schema is an ordered set of attribute declarations.
type Schema struct {
	decls []Decl
	index map[string]int
}

// NewSchema builds a schema. Later declarations with a repeated name
// replace earlier ones.
func NewSchema(decls ...Decl) *Schema {
	s := &Schema{index: make(map[string]int, len(decls))}
	for _, d := range decls {
		if i, ok := s.index[d.Name]; ok {
			s.decls[i] = d
			continue
		}
		s.index[d.Name] = len(s.decls)
		s.decls = append(s.decls, d)
	}
	return s
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (Decl, bool) {
	if s == nil {
		return Decl{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Decl{}, false
	}
	return s.decls[i], true
}

// Names returns the declared attribute names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.decls))
	for i, d := range s.decls {
		names[i] = d.Name
	}
	return names
}

// Observed reports whether name is declared.
func (s *Schema) Observed(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}
