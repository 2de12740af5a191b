package scenario

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-drift/dtkit/pkg/dom"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/widgets"
)

// Scenario is a named walkthrough.
type Scenario struct {
	Name        string
	Description string
	Run         func(s *Session) error
}

var registry = map[string]Scenario{}

func register(sc Scenario) { registry[sc.Name] = sc }

// Names returns the scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, bool) {
	sc, ok := registry[name]
	return sc, ok
}

// Result is the outcome of one scenario run.
type Result struct {
	Name    string
	Entries []Entry
	Markup  string
	// Problems lists runtime errors, panics and diagnostics reported during
	// the run.
	Problems []string
}

// Run executes sc in a fresh session.
func Run(sc Scenario, opts dttest.Options) (*Result, error) {
	s := NewSession(opts)
	defer s.Close()
	if err := sc.Run(s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	markup, err := s.Markup()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	res := &Result{Name: sc.Name, Entries: s.Entries(), Markup: markup}
	for _, e := range s.Errors().Errors() {
		res.Problems = append(res.Problems, e.Error())
	}
	for _, p := range s.Errors().Panics() {
		res.Problems = append(res.Problems, p.Error())
	}
	for _, d := range s.Errors().Diagnostics() {
		res.Problems = append(res.Problems, d.String())
	}
	return res, nil
}

func init() {
	register(Scenario{
		Name:        "checkbox",
		Description: "toggle twice, then toggle out of the indeterminate state",
		Run:         runCheckbox,
	})
	register(Scenario{
		Name:        "dropdown",
		Description: "open A, open B (closes A), Escape closes B",
		Run:         runDropdown,
	})
	register(Scenario{
		Name:        "modal",
		Description: "stack two modals and close them with Escape",
		Run:         runModal,
	})
	register(Scenario{
		Name:        "toast",
		Description: "show a toast and let it dismiss itself",
		Run:         runToast,
	})
	register(Scenario{
		Name:        "tooltip",
		Description: "hover the trigger, wait for the bubble, leave",
		Run:         runTooltip,
	})
}

func runCheckbox(s *Session) error {
	cb := widgets.NewCheckbox(s.Runtime())
	cb.SetLabel("Enable notifications")
	if err := s.Mount(cb); err != nil {
		return err
	}
	if err := s.Click(dttest.ByKey("container")); err != nil {
		return err
	}
	if err := s.PressKeyOn(dttest.ByTag(cb.Tag()), widgets.KeySpace); err != nil {
		return err
	}
	cb.SetIndeterminate(true)
	s.Pump()
	cb.Toggle()
	s.Pump()
	return nil
}

func runDropdown(s *Session) error {
	items := []widgets.MenuItem{
		{Text: "Edit", Action: "edit"},
		{Text: "Delete", Action: "delete", Variant: "danger"},
	}
	a := widgets.NewDropdown(s.Runtime(), items...)
	a.SetTriggerText("A")
	b := widgets.NewDropdown(s.Runtime(), items...)
	b.SetTriggerText("B")
	for _, d := range []*widgets.Dropdown{a, b} {
		if err := s.Mount(d); err != nil {
			return err
		}
	}
	a.Open()
	s.Pump()
	b.Open()
	s.Pump()
	if a.IsOpen() {
		return fmt.Errorf("opening B left A open")
	}
	s.PressKey(widgets.KeyEscape)
	if n := s.Runtime().Overlays().Len(); n != 0 {
		return fmt.Errorf("%d overlays still open after Escape", n)
	}
	return nil
}

func runModal(s *Session) error {
	first := widgets.NewModal(s.Runtime())
	first.SetTitle("Settings")
	first.SetContent(dom.El("p", dom.Text("General preferences")))
	second := widgets.NewModal(s.Runtime())
	second.SetTitle("Confirm")
	second.SetSize("sm")
	for _, m := range []*widgets.Modal{first, second} {
		if err := s.Mount(m); err != nil {
			return err
		}
	}
	first.Open()
	second.Open()
	s.Pump()
	s.PressKey(widgets.KeyEscape)
	if !first.IsOpen() || second.IsOpen() {
		return fmt.Errorf("escape did not close only the topmost modal")
	}
	s.PressKey(widgets.KeyEscape)
	return nil
}

func runToast(s *Session) error {
	if _, err := widgets.ShowToast(s.Runtime(), "Saved", "success"); err != nil {
		return err
	}
	s.Pump()
	timing := s.Runtime().Timing()
	s.Advance(timing.ToastDuration)
	s.Advance(timing.ToastRemovalDelay)
	return nil
}

func runTooltip(s *Session) error {
	tip := widgets.NewTooltip(s.Runtime(), "Copy to clipboard", dom.El("span", dom.Text("Copy")))
	if err := s.Mount(tip); err != nil {
		return err
	}
	if err := s.Hover(dttest.ByKey("trigger")); err != nil {
		return err
	}
	s.Advance(tip.Delay())
	if err := s.Unhover(dttest.ByKey("trigger")); err != nil {
		return err
	}
	s.Advance(s.Runtime().Timing().TooltipHideDelay + 50*time.Millisecond)
	return nil
}
