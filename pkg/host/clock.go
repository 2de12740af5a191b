package host

import "time"

// Clock provides time for the loop. The default implementation uses system
// time. Tests inject a fake clock to control timer deadlines deterministically.
type Clock interface {
	Now() time.Time
}

// SettableClock is a Clock whose time the caller can move. Loop.Advance
// steps such a clock from deadline to deadline.
type SettableClock interface {
	Clock
	Set(t time.Time)
}

// SystemClock uses system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
