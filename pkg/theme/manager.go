// Package theme manages the runtime's light/dark theme.
//
// The selected theme is read once from a key-value store when the manager is
// created and written back on every change. It is reflected on the document
// root as the data-theme attribute.
package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/storage"
)

// DefaultKey is the storage key holding the selected theme.
const DefaultKey = "design-toolkit-theme"

// Brightness is a theme variant.
type Brightness string

const (
	BrightnessLight Brightness = "light"
	BrightnessDark  Brightness = "dark"
)

// ParseBrightness parses "light" or "dark", ignoring case and surrounding
// space.
func ParseBrightness(s string) (Brightness, error) {
	switch b := Brightness(strings.ToLower(strings.TrimSpace(s))); b {
	case BrightnessLight, BrightnessDark:
		return b, nil
	}
	return "", fmt.Errorf("theme: unknown theme %q (want light or dark)", s)
}

// Opposite returns the other variant.
func (b Brightness) Opposite() Brightness {
	if b == BrightnessDark {
		return BrightnessLight
	}
	return BrightnessDark
}

// Options configures a Manager.
type Options struct {
	// Store persists the selection. Nil keeps it in memory only.
	Store storage.KV
	// Key is the storage key. Empty means DefaultKey.
	Key string
	// Default applies when the store holds nothing usable; it stands in for
	// the system preference. Empty means light.
	Default Brightness

	Errors errors.Handler
	Logger *logging.Logger
}

// Manager holds the current theme for one runtime.
type Manager struct {
	store  storage.KV
	key    string
	errs   errors.Handler
	log    *logging.Logger
	mode   Brightness
	root   *dom.Node
	subs   map[int]func(Brightness)
	order  []int
	nextID int
}

// NewManager reads the stored theme and returns a manager using it.
func NewManager(ctx context.Context, opts Options) *Manager {
	m := &Manager{
		store: opts.Store,
		key:   opts.Key,
		errs:  opts.Errors,
		log:   opts.Logger,
		mode:  opts.Default,
		subs:  make(map[int]func(Brightness)),
	}
	if m.key == "" {
		m.key = DefaultKey
	}
	if m.mode == "" {
		m.mode = BrightnessLight
	}
	if m.store == nil {
		return m
	}

	stored, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		errors.Report(m.errs, &errors.RuntimeError{Op: "theme.NewManager", Kind: errors.KindStorage, Err: err})
		return m
	}
	if !ok {
		return m
	}
	b, err := ParseBrightness(stored)
	if err != nil {
		errors.ReportDiagnostic(m.errs, &errors.Diagnostic{
			Code:    errors.CodeInvalidAttribute,
			Op:      "theme.NewManager",
			Message: "ignoring stored theme",
			Err:     err,
		})
		return m
	}
	m.mode = b
	return m
}

// Current returns the active theme.
func (m *Manager) Current() Brightness { return m.mode }

// Key returns the storage key.
func (m *Manager) Key() string { return m.key }

// Attach reflects the theme on root as data-theme.
func (m *Manager) Attach(root *dom.Node) {
	m.root = root
	m.apply()
}

func (m *Manager) apply() {
	if m.root != nil {
		m.root.SetAttribute("data-theme", string(m.mode))
	}
}

// Set switches to b, persists it and notifies subscribers. The switch takes
// effect even when persisting fails; the storage error is returned.
func (m *Manager) Set(ctx context.Context, b Brightness) error {
	if _, err := ParseBrightness(string(b)); err != nil {
		return err
	}
	changed := b != m.mode
	m.mode = b
	m.apply()

	var saveErr error
	if m.store != nil {
		if err := m.store.Set(ctx, m.key, string(b)); err != nil {
			rtErr := &errors.RuntimeError{Op: "theme.Manager.Set", Kind: errors.KindStorage, Err: err}
			errors.Report(m.errs, rtErr)
			saveErr = rtErr
		}
	}
	if changed {
		m.log.Zerolog().Debug().Str("theme", string(b)).Msg("theme changed")
		for _, id := range m.order {
			if fn, ok := m.subs[id]; ok {
				errors.Guard(m.errs, "theme.subscriber", "", func() { fn(b) })
			}
		}
	}
	return saveErr
}

// Toggle switches to the opposite theme.
func (m *Manager) Toggle(ctx context.Context) (Brightness, error) {
	next := m.mode.Opposite()
	return next, m.Set(ctx, next)
}

// Subscribe registers fn to run after each theme change. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Brightness)) (unsubscribe func()) {
	m.nextID++
	id := m.nextID
	m.subs[id] = fn
	m.order = append(m.order, id)
	return func() {
		delete(m.subs, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}
