// Package listeners manages the event bindings a component holds on its
// rendered subtree.
//
// Renders replace the subtree wholesale, so bindings are tracked by the
// logical key of the node they target rather than by node identity. After
// each render, Rebind moves every binding onto the node that now carries its
// key and leaves bindings on unchanged nodes alone. At most one binding
// exists per Spec at any time.
package listeners

import (
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
)

// Target selects where a binding is attached.
type Target int

const (
	// TargetKey binds to the node carrying Spec.Key in the rendered subtree.
	TargetKey Target = iota
	// TargetHost binds to the component's host node.
	TargetHost
	// TargetDocument binds to the document root.
	TargetDocument
)

// Spec describes one logical binding.
type Spec struct {
	Target  Target
	Key     string
	Event   string
	Handler dom.Handler
	Capture bool
}

// OnKey binds handler to events of type event on the node with the given key.
func OnKey(key, event string, handler dom.Handler) Spec {
	return Spec{Target: TargetKey, Key: key, Event: event, Handler: handler}
}

// OnHost binds handler to events on the host node.
func OnHost(event string, handler dom.Handler) Spec {
	return Spec{Target: TargetHost, Event: event, Handler: handler}
}

// OnDocument binds handler to events on the document root.
func OnDocument(event string, handler dom.Handler) Spec {
	return Spec{Target: TargetDocument, Event: event, Handler: handler}
}

type binding struct {
	node *dom.Node
	id   dom.ListenerID
}

// Lifecycle owns one instance's bindings.
type Lifecycle struct {
	errs      errors.Handler
	component string

	specs    []Spec
	bindings []*binding
	host     *dom.Node
	document *dom.Node
	mounted  bool
	created  int
}

// New creates an empty lifecycle. Handler panics are recovered and reported
// to h tagged with component.
func New(h errors.Handler, component string) *Lifecycle {
	return &Lifecycle{errs: h, component: component}
}

// BindOnMount records specs and attaches host and document bindings. Keyed
// bindings attach on the first Rebind. Calling it again before UnbindAll is a
// no-op.
func (l *Lifecycle) BindOnMount(host, document *dom.Node, specs ...Spec) {
	if l.mounted {
		return
	}
	l.mounted = true
	l.host = host
	l.document = document
	l.specs = append(l.specs[:0], specs...)
	l.bindings = make([]*binding, len(l.specs))
	for i, spec := range l.specs {
		switch spec.Target {
		case TargetHost:
			l.attach(i, host)
		case TargetDocument:
			l.attach(i, document)
		}
	}
}

// Rebind reconciles keyed bindings against the subtree under root. It is
// idempotent: calling it again without a render changes nothing.
func (l *Lifecycle) Rebind(root *dom.Node) {
	if !l.mounted || root == nil {
		return
	}
	for i, spec := range l.specs {
		if spec.Target != TargetKey {
			continue
		}
		node := root.FindKey(spec.Key)
		current := l.bindings[i]
		if current != nil && current.node == node {
			continue
		}
		l.detach(i)
		if node != nil {
			l.attach(i, node)
		}
	}
}

// UnbindAll removes every binding. Further calls are no-ops.
func (l *Lifecycle) UnbindAll() {
	if !l.mounted {
		return
	}
	for i := range l.bindings {
		l.detach(i)
	}
	l.mounted = false
	l.specs = nil
	l.bindings = nil
	l.host = nil
	l.document = nil
}

// ActiveCount returns the number of bindings currently attached.
func (l *Lifecycle) ActiveCount() int {
	count := 0
	for _, b := range l.bindings {
		if b != nil {
			count++
		}
	}
	return count
}

// Created returns the number of bindings attached over the lifecycle's life.
func (l *Lifecycle) Created() int { return l.created }

// Mounted reports whether BindOnMount has run without a matching UnbindAll.
func (l *Lifecycle) Mounted() bool { return l.mounted }

func (l *Lifecycle) attach(i int, node *dom.Node) {
	if node == nil {
		return
	}
	spec := l.specs[i]
	handler := spec.Handler
	wrapped := func(ev *dom.Event) {
		errors.Guard(l.errs, "listeners."+spec.Event, l.component, func() {
			handler(ev)
		})
	}
	id := node.AddEventListener(spec.Event, wrapped, spec.Capture)
	l.bindings[i] = &binding{node: node, id: id}
	l.created++
}

func (l *Lifecycle) detach(i int) {
	b := l.bindings[i]
	if b == nil {
		return
	}
	b.node.RemoveEventListener(b.id)
	l.bindings[i] = nil
}
