// Package dom provides the small DOM-like tree the runtime renders into:
// element nodes with ordered attributes, logical keys, text, and event
// listeners dispatched with capture, target and bubble phases.
package dom

import (
	"slices"
	"strings"
)

// Attr is a single attribute on a node.
type Attr struct {
	Name  string
	Value string
}

// Node is an element in the tree.
type Node struct {
	tag       string
	key       string
	attrs     []Attr
	text      string
	children  []*Node
	parent    *Node
	listeners []*listener
	owner     any
}

// Option configures a node built with El.
type Option func(n *Node)

// El builds an element node. Nil children are skipped, so conditional
// subtrees can be written inline.
func El(tag string, opts ...Option) *Node {
	n := &Node{tag: tag}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Key sets the node's logical key: a stable name for the control that
// survives re-renders even though the node itself is recreated.
func Key(key string) Option {
	return func(n *Node) { n.key = key }
}

// Class adds class names. Empty names are ignored.
func Class(names ...string) Option {
	return func(n *Node) {
		for _, name := range names {
			n.AddClass(name)
		}
	}
}

// Attribute sets an attribute.
func Attribute(name, value string) Option {
	return func(n *Node) { n.SetAttribute(name, value) }
}

// AttributeIf sets an attribute when cond holds.
func AttributeIf(cond bool, name, value string) Option {
	if !cond {
		return nil
	}
	return Attribute(name, value)
}

// Text sets the node's text content.
func Text(text string) Option {
	return func(n *Node) { n.text = text }
}

// Children appends child nodes, skipping nil ones.
func Children(children ...*Node) Option {
	return func(n *Node) {
		for _, c := range children {
			if c != nil {
				n.AppendChild(c)
			}
		}
	}
}

// If returns child when cond holds and nil otherwise.
func If(cond bool, child *Node) *Node {
	if !cond {
		return nil
	}
	return child
}

// Tag returns the element name.
func (n *Node) Tag() string { return n.tag }

// Key returns the logical key, or "" if none was set.
func (n *Node) Key() string { return n.key }

// Parent returns the parent node, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Text returns the node's own text content.
func (n *Node) Text() string { return n.text }

// SetText replaces the node's own text content.
func (n *Node) SetText(text string) { n.text = text }

// Owner returns the value attached with SetOwner, typically the component
// instance hosted at this node.
func (n *Node) Owner() any { return n.owner }

// SetOwner attaches an owner value to the node.
func (n *Node) SetOwner(owner any) { n.owner = owner }

// Attribute returns the value of name and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether name is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Attributes returns a copy of the attribute list in insertion order.
func (n *Node) Attributes() []Attr { return slices.Clone(n.attrs) }

// SetAttribute sets name to value, keeping its position if already present.
func (n *Node) SetAttribute(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// RemoveAttribute deletes name. It reports whether it was present.
func (n *Node) RemoveAttribute(name string) bool {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = slices.Delete(n.attrs, i, i+1)
			return true
		}
	}
	return false
}

// Classes returns the class list.
func (n *Node) Classes() []string {
	v, _ := n.Attribute("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.Classes(), name)
}

// AddClass appends name to the class list if missing.
func (n *Node) AddClass(name string) {
	name = strings.TrimSpace(name)
	if name == "" || n.HasClass(name) {
		return
	}
	classes := append(n.Classes(), name)
	n.SetAttribute("class", strings.Join(classes, " "))
}

// RemoveClass removes name from the class list.
func (n *Node) RemoveClass(name string) {
	classes := slices.DeleteFunc(n.Classes(), func(c string) bool { return c == name })
	if len(classes) == 0 {
		n.RemoveAttribute("class")
		return
	}
	n.SetAttribute("class", strings.Join(classes, " "))
}

// AppendChild adds child as the last child, detaching it from any
// previous parent.
func (n *Node) AppendChild(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child. It reports whether child was a child of n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = slices.Delete(n.children, i, i+1)
			child.parent = nil
			return true
		}
	}
	return false
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren detaches all current children and appends the given ones.
func (n *Node) ReplaceChildren(children ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first in pre-order. Returning
// false from visit skips the node's descendants.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(visit)
	}
}

// FindKey returns the first node under n (inclusive) with the given key.
func (n *Node) FindKey(key string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.key == key {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node under n (inclusive) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Clone returns a deep copy of n without listeners, owner or parent.
func (n *Node) Clone() *Node {
	c := &Node{tag: n.tag, key: n.key, text: n.text, attrs: slices.Clone(n.attrs)}
	for _, child := range n.children {
		c.AppendChild(child.Clone())
	}
	return c
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
