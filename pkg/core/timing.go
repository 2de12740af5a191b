package core

import "time"

// Off requests an explicit zero for a Timing field, where zero itself means
// the default: a toast duration of Off never auto-dismisses and a tooltip
// show delay of Off shows at once.
const Off time.Duration = -1

// Timing holds the delays transient components use. A zero field means the
// default; a negative one (Off) means no delay.
type Timing struct {
	// ToastDuration is how long a toast stays up when its duration attribute
	// is absent.
	ToastDuration time.Duration
	// ToastRemovalDelay separates a toast's dismissal from its removal from
	// the document, leaving room for an exit transition.
	ToastRemovalDelay time.Duration
	// TooltipShowDelay applies when a tooltip's delay attribute is absent.
	TooltipShowDelay time.Duration
	// TooltipHideDelay is the delay before a tooltip hides.
	TooltipHideDelay time.Duration
}

// DefaultTiming returns the stock component timing.
func DefaultTiming() Timing {
	return Timing{
		ToastDuration:     5000 * time.Millisecond,
		ToastRemovalDelay: 300 * time.Millisecond,
		TooltipShowDelay:  500 * time.Millisecond,
		TooltipHideDelay:  100 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	return Timing{
		ToastDuration:     resolve(t.ToastDuration, def.ToastDuration),
		ToastRemovalDelay: resolve(t.ToastRemovalDelay, def.ToastRemovalDelay),
		TooltipShowDelay:  resolve(t.TooltipShowDelay, def.TooltipShowDelay),
		TooltipHideDelay:  resolve(t.TooltipHideDelay, def.TooltipHideDelay),
	}
}

func resolve(d, def time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d == 0:
		return def
	}
	return d
}
