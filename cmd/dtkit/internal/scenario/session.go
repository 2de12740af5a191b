// Package scenario holds the scripted component walkthroughs behind
// "dtkit demo". Each scenario drives real components on a fake clock and
// records the events they emit.
package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/widgets"
)

// Entry is one recorded component event.
type Entry struct {
	// At is the fake-clock offset from the start of the session.
	At        time.Duration
	Component string
	Event     string
	Detail    any
}

func (e Entry) String() string {
	s := fmt.Sprintf("+%-7s %-16s %s", e.At, e.Component, e.Event)
	if e.Detail != nil {
		s += fmt.Sprintf(" %+v", e.Detail)
	}
	return s
}

// Session is a tester that records every component event reaching the
// document root.
type Session struct {
	*dttest.Tester
	start   time.Time
	entries []Entry
}

// NewSession creates a session. Call Close when done.
func NewSession(opts dttest.Options) *Session {
	s := &Session{Tester: dttest.NewTester(opts)}
	s.start = s.Clock().Now()
	root := s.Document()
	for _, typ := range widgets.EventTypes {
		root.AddEventListener(typ, s.record, false)
	}
	return s
}

func (s *Session) record(ev *dom.Event) {
	e, ok := ev.Detail.(*core.Event)
	if !ok {
		return
	}
	s.entries = append(s.entries, Entry{
		At:        s.Clock().Now().Sub(s.start),
		Component: e.Source.Tag(),
		Event:     e.Type,
		Detail:    e.Detail,
	})
}

// Entries returns the recorded events in dispatch order.
func (s *Session) Entries() []Entry { return s.entries }

// Events returns just the recorded event types.
func (s *Session) Events() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Event
	}
	return out
}

// Markup renders the document body.
func (s *Session) Markup() (string, error) {
	var b strings.Builder
	if err := dom.Render(&b, s.Body()); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Close tears the runtime down.
func (s *Session) Close() { s.Cleanup() }
