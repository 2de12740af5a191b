package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
)

// Finder locates nodes in the document.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *dom.Node) []*dom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*dom.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*dom.Node { return r.nodes }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.nodes) }

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool { return len(r.nodes) > 0 }

// Instance returns the component instance whose host is the first match, or
// nil if the match is not a host node.
func (r FinderResult) Instance() *core.Instance {
	inst, _ := r.First().Owner().(*core.Instance)
	return inst
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Node) []*dom.Node {
	if root == nil {
		return nil
	}
	return root.FindAll(f.fn)
}

func (f *predicateFinder) Description() string { return f.desc }

// ByKey returns a finder that matches nodes carrying the logical key.
func ByKey(key string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Key() == key },
		desc: fmt.Sprintf("ByKey(%q)", key),
	}
}

// ByTag returns a finder that matches nodes with the element name.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Tag() == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByClass returns a finder that matches nodes with the class.
func ByClass(class string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.HasClass(class) },
		desc: fmt.Sprintf("ByClass(%q)", class),
	}
}

// ByAttribute returns a finder that matches nodes where name is set to
// value.
func ByAttribute(name, value string) Finder {
	return &predicateFinder{
		fn: func(n *dom.Node) bool {
			v, ok := n.Attribute(name)
			return ok && v == value
		},
		desc: fmt.Sprintf("ByAttribute(%s=%q)", name, value),
	}
}

// ByText returns a finder that matches nodes whose own text equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Text() == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches nodes whose own text
// contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(n *dom.Node) bool {
			return n.Text() != "" && strings.Contains(n.Text(), substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*dom.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *dom.Node) []*dom.Node {
	var results []*dom.Node
	seen := make(map[*dom.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}
