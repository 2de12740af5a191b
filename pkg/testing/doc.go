// Package testing provides a component testing harness for dtkit.
//
// # Quick Start
//
// Create a tester, mount a component, and make assertions:
//
//	func TestMyComponent(t *testing.T) {
//	    tester := dttest.NewTesterWithT(t)
//	    cb := widgets.NewCheckbox(tester.Runtime())
//	    tester.Mount(cb)
//
//	    tester.Click(dttest.ByKey("box"))
//	    assert.True(t, cb.Checked())
//	}
//
// Mutations render at the next microtask checkpoint. Every interaction
// helper pumps the loop afterwards, and Pump does so explicitly.
//
// # Timers
//
// The runtime runs on a fake clock. Advance fires timers in deadline order:
//
//	tester.Advance(5 * time.Second)
//
// # Snapshot Testing
//
// Capture and compare rendered markup:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/checkbox.snapshot.html")
//
// Update snapshots with:
//
//	DTKIT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import dttest "github.com/go-drift/dtkit/pkg/testing"
package testing
