// Package health supervises the attached keyboard: it tracks the time of
// the last received byte, escalates from warning to declaring the keyboard
// dead, and power-cycles it to recover.
package health

import (
	"sync"
	"time"
)

// Deadcheck thresholds and the post-power-off settle time.
const (
	DefaultWarnAfter    = 5 * time.Second
	DefaultDeclareAfter = 10 * time.Second
	DefaultSettle       = 4 * time.Second
)

// Power commands the keyboard power MOSFET. The core only tracks its last
// commanded value; it never reads the pin back.
type Power interface {
	Set(on bool)
}

// State is the shared liveness record. The reader goroutine touches the
// last-seen timestamp on every received byte; everything else runs on the
// main loop. All access goes through the mutex since the two executions
// run on different cores.
type State struct {
	mu       sync.Mutex
	lastSeen time.Time
	everSeen bool
	powered  bool
	warned   bool
}

// Touch records that a byte arrived (or pretends one did) at now.
func (s *State) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// SinceLast returns the elapsed time between the last touch and now.
func (s *State) SinceLast(now time.Time) time.Duration {
	s.mu.Lock()
	d := now.Sub(s.lastSeen)
	s.mu.Unlock()
	return d
}

// MarkSeen records that the keyboard has announced itself. Until this
// happens the deadcheck never escalates to a reboot.
func (s *State) MarkSeen() {
	s.mu.Lock()
	s.everSeen = true
	s.mu.Unlock()
}

// ClearSeen forgets the keyboard; called when it is powered off.
func (s *State) ClearSeen() {
	s.mu.Lock()
	s.everSeen = false
	s.mu.Unlock()
}

// Seen reports whether the keyboard has ever announced itself.
func (s *State) Seen() bool {
	s.mu.Lock()
	v := s.everSeen
	s.mu.Unlock()
	return v
}

// SetPowered records the last commanded power state.
func (s *State) SetPowered(on bool) {
	s.mu.Lock()
	s.powered = on
	s.mu.Unlock()
}

// Powered returns the last commanded power state.
func (s *State) Powered() bool {
	s.mu.Lock()
	v := s.powered
	s.mu.Unlock()
	return v
}

func (s *State) setWarned(v bool) {
	s.mu.Lock()
	s.warned = v
	s.mu.Unlock()
}

func (s *State) warnedOnce() bool {
	s.mu.Lock()
	v := s.warned
	s.warned = true
	s.mu.Unlock()
	return v
}

// Rebooter performs the keyboard power-cycle. Reboot blocks the calling
// loop for the settle duration on purpose: nothing else may safely run
// mid-power-cycle.
type Rebooter struct {
	State  *State
	Power  Power
	Settle time.Duration
	Now    func() time.Time
	Sleep  func(time.Duration)

	// Drain empties all byte queues and arms the zombie flags so each
	// report channel owes the host one neutral report once it resumes.
	Drain func()
}

// SetPower commands the keyboard power rail and keeps the recorded state
// in sync. Powering off also forgets the keyboard, since a powered-off
// keyboard cannot ping.
func (r *Rebooter) SetPower(on bool) {
	r.State.SetPowered(on)
	if !on {
		r.State.ClearSeen()
	}
	r.Power.Set(on)
}

// Reboot power-cycles the keyboard and resets all queue and report state.
// The last-seen timestamp is reset so the deadcheck gives the keyboard a
// full interval to announce itself after power returns.
func (r *Rebooter) Reboot() {
	r.SetPower(false)
	r.Sleep(r.Settle)
	r.Drain()
	r.State.Touch(r.Now())
	r.SetPower(true)
}

// Monitor is the deadcheck. Check is invoked once per main loop iteration
// with the current time.
type Monitor struct {
	State        *State
	WarnAfter    time.Duration
	DeclareAfter time.Duration
	Reboot       func()
	Logf         func(format string, args ...interface{})
}

func (m *Monitor) logf(format string, args ...interface{}) {
	if m.Logf != nil {
		m.Logf(format, args...)
	}
}

// Check compares the time since the last received byte against the warn
// and declare thresholds. A keyboard that has never been seen, or that is
// deliberately powered off, is never declared dead; the elapsed time is
// reset instead so the check stays quiet for another interval.
func (m *Monitor) Check(now time.Time) {
	if m.State.SinceLast(now) < m.WarnAfter {
		m.State.setWarned(false)
		return
	}

	if !m.State.Seen() || !m.State.Powered() {
		m.State.Touch(now)
		m.logf("INFO: waiting for keyboard.\n")
		return
	}

	if m.State.SinceLast(now) < m.DeclareAfter {
		if !m.State.warnedOnce() {
			m.logf("WARNING: keyboard failed to ping.\n")
		}
		return
	}

	m.logf("ERROR: keyboard appears dead, rebooting...\n")
	m.Reboot()
	m.State.setWarned(false)
}
