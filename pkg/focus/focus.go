// Package focus tracks keyboard focus within one runtime's document.
package focus

import "github.com/go-drift/dtkit/pkg/dom"

// CanReceiveFocus reports whether n may take focus. Disabled nodes and nodes
// marked aria-disabled="true" are skipped.
func CanReceiveFocus(n *dom.Node) bool {
	if n == nil || n.HasAttribute("disabled") {
		return false
	}
	v, _ := n.Attribute("aria-disabled")
	return v != "true"
}

// Scope is an ordered group of focus candidates: the nodes under Root that
// match. Scopes are evaluated on demand, so they follow re-rendered subtrees.
type Scope struct {
	Root  *dom.Node
	Match func(*dom.Node) bool
}

// Nodes returns the scope's candidates in document order.
func (s Scope) Nodes() []*dom.Node {
	if s.Root == nil {
		return nil
	}
	match := s.Match
	if match == nil {
		match = func(*dom.Node) bool { return true }
	}
	return s.Root.FindAll(match)
}

// Manager tracks the primary focus. It dispatches blur on the node losing
// focus and focus on the node gaining it; both events bubble.
type Manager struct {
	document *dom.Node
	primary  *dom.Node
}

// NewManager creates a manager for the document rooted at document.
func NewManager(document *dom.Node) *Manager {
	return &Manager{document: document}
}

// Focused returns the focused node, or nil if nothing is focused or the
// focused node has left the document.
func (m *Manager) Focused() *dom.Node {
	if m.primary == nil {
		return nil
	}
	if m.document != nil && !m.document.Contains(m.primary) {
		m.primary = nil
	}
	return m.primary
}

// HasFocus reports whether n or one of its descendants is focused.
func (m *Manager) HasFocus(n *dom.Node) bool {
	focused := m.Focused()
	return n != nil && focused != nil && n.Contains(focused)
}

// RequestFocus moves focus to n. It reports whether n now has focus.
func (m *Manager) RequestFocus(n *dom.Node) bool {
	if !CanReceiveFocus(n) {
		return false
	}
	m.setPrimaryFocus(n)
	return true
}

// Retarget hands focus to n without dispatching events. Renders use it when
// they replace the focused node with its keyed successor.
func (m *Manager) Retarget(n *dom.Node) bool {
	if !CanReceiveFocus(n) {
		return false
	}
	m.primary = n
	return true
}

// Unfocus clears focus if n holds it.
func (m *Manager) Unfocus(n *dom.Node) {
	if m.Focused() == n {
		m.setPrimaryFocus(nil)
	}
}

// Blur clears focus.
func (m *Manager) Blur() {
	m.setPrimaryFocus(nil)
}

// MoveFocus moves focus by delta positions within s, wrapping around and
// skipping nodes that cannot take focus. With nothing in s focused, +1 lands
// on the first candidate and -1 on the last.
func (m *Manager) MoveFocus(s Scope, delta int) bool {
	nodes := s.Nodes()
	count := len(nodes)
	if count == 0 || delta == 0 {
		return false
	}

	current := -1
	focused := m.Focused()
	for i, n := range nodes {
		if n == focused {
			current = i
			break
		}
	}
	if current < 0 && delta < 0 {
		current = count
	}

	for step := 1; step <= count; step++ {
		candidate := nodes[wrapIndex(current+delta*step, count)]
		if CanReceiveFocus(candidate) {
			m.setPrimaryFocus(candidate)
			return true
		}
	}
	return false
}

// FocusFirst focuses the first focusable node in s.
func (m *Manager) FocusFirst(s Scope) bool {
	for _, n := range s.Nodes() {
		if m.RequestFocus(n) {
			return true
		}
	}
	return false
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

func (m *Manager) setPrimaryFocus(n *dom.Node) {
	prev := m.Focused()
	if prev == n {
		return
	}
	m.primary = n
	if prev != nil {
		prev.Dispatch(dom.NewEvent(dom.EventBlur))
	}
	if n != nil {
		n.Dispatch(dom.NewEvent(dom.EventFocus))
	}
}
