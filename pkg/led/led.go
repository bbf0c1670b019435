// Package led drives the status LED. A pattern is a cyclic sequence of
// phase durations, even indices ON and odd indices OFF; the indicator
// free-runs through the phases and the adapter picks which pattern is
// active from the link flags.
package led

import "time"

// Pattern is a cyclic blink cadence. Even indices are ON time, odd
// indices are OFF time.
type Pattern []time.Duration

var (
	// NotMounted: fast blink while there is no USB session.
	NotMounted = Pattern{250 * time.Millisecond, 250 * time.Millisecond}

	// Waiting: slow blink while mounted but the keyboard has not yet
	// announced itself.
	Waiting = Pattern{time.Second, time.Second}

	// Healthy: heartbeat.
	Healthy = Pattern{
		100 * time.Millisecond, 300 * time.Millisecond,
		100 * time.Millisecond, time.Second,
	}

	// Suspended: very slow blink while the bus is suspended and no
	// remote wakeup is armed.
	Suspended = Pattern{2500 * time.Millisecond, 2500 * time.Millisecond}
)

// Flags is the link state the pattern selection runs on.
type Flags struct {
	Mounted          bool
	SuspendedBus     bool
	WantRemoteWakeup bool
	KeyboardSeen     bool
}

// Select picks the pattern for the given flags, highest priority first.
func Select(f Flags) Pattern {
	switch {
	case !f.Mounted:
		return NotMounted
	case f.SuspendedBus && !f.WantRemoteWakeup:
		return Suspended
	case f.KeyboardSeen:
		return Healthy
	default:
		return Waiting
	}
}

// same reports whether two patterns are the same table, by identity.
func same(a, b Pattern) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// Indicator is the blink state machine. Write drives the physical LED.
type Indicator struct {
	Write func(on bool)

	pattern Pattern
	idx     int
	start   time.Time
	state   bool
}

// SetPattern switches to a new pattern, resetting the phase to the start
// with the LED on. Re-selecting the active pattern is a no-op so the
// cadence is not disturbed.
func (i *Indicator) SetPattern(p Pattern, now time.Time) {
	if same(i.pattern, p) {
		return
	}
	i.pattern = p
	i.idx = 0
	i.start = now
	i.state = true
	i.Write(i.state)
}

// State returns the current LED level.
func (i *Indicator) State() bool {
	return i.state
}

// Tick advances the pattern if the current phase has elapsed, toggling
// the LED on each phase boundary. Phase start times accumulate exactly so
// the cadence never drifts.
func (i *Indicator) Tick(now time.Time) {
	if i.pattern == nil {
		return
	}

	interval := i.pattern[i.idx]
	if now.Sub(i.start) < interval {
		return
	}

	i.start = i.start.Add(interval)
	i.idx++
	if i.idx >= len(i.pattern) {
		i.idx = 0
	}

	i.state = !i.state
	i.Write(i.state)
}
