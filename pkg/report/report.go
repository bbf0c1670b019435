// Package report turns queued NABU codes into USB HID reports. The
// keyboard sequencer walks multi-report action sequences one report per
// tick and tracks sticky modifiers; the joystick emitter sends one gamepad
// report per queued sample. Neither blocks: if the HID interface is not
// ready the tick is simply skipped and emission resumes later.
package report

import (
	"github.com/thorpej/nabu-keyboard-usb/pkg/keymap"
	"github.com/thorpej/nabu-keyboard-usb/pkg/protocol"
	"github.com/thorpej/nabu-keyboard-usb/pkg/queue"
)

// Channel identifies one of the three logical HID report channels.
type Channel uint8

const (
	ChannelKeyboard Channel = iota
	ChannelJoy0
	ChannelJoy1
)

// Output is the narrow capability surface the sequencers need from the
// USB device stack.
type Output interface {
	// Ready reports whether the channel can accept a report right now.
	Ready(ch Channel) bool
	// SendKeyboard sends a keyboard report: modifier bitmask plus one
	// keycode (KeyNone for an all-up report).
	SendKeyboard(modifiers, key byte)
	// SendJoystick sends a gamepad report for stick 0 or 1.
	SendJoystick(which int, hat, buttons byte)
}

// Keyboard is the keyboard report sequencer.
type Keyboard struct {
	Queue *queue.Queue
	Out   Output

	// Control is handed any dequeued link-control code. It returns true
	// when recovery consumed the tick and the whole report pass must stop.
	Control func(c byte) bool

	// Debugf, if set, receives chatty per-tick diagnostics.
	Debugf func(format string, args ...interface{})

	next      []keymap.Action // remaining actions of an in-flight sequence
	modifiers keymap.Action   // sticky modifier bits
	zombie    bool
}

func (k *Keyboard) debugf(format string, args ...interface{}) {
	if k.Debugf != nil {
		k.Debugf(format, args...)
	}
}

// HasData reports, without locking, whether a tick would have anything to
// do. A stale answer only costs one report interval.
func (k *Keyboard) HasData() bool {
	return k.next != nil || !k.Queue.EmptyUnlocked() || k.zombie
}

// MarkZombie arms the forced key-up owed to the host after a keyboard
// reboot. Any in-flight sequence is allowed to finish first.
func (k *Keyboard) MarkZombie() {
	k.zombie = true
}

// Modifiers returns the current sticky modifier bits.
func (k *Keyboard) Modifiers() keymap.Action {
	return k.modifiers
}

// SendNoKey emits a report with no keycode, keeping the sticky modifiers.
// Used to recover from a multi-keypress, where the keyboard cannot tell us
// which keys are involved.
func (k *Keyboard) SendNoKey() {
	k.send(0)
}

// send emits one keyboard report with the sticky modifiers OR'd in.
func (k *Keyboard) send(code keymap.Action) {
	merged := code | k.modifiers
	k.Out.SendKeyboard(merged.ModifierByte(), merged.Key())
}

// stickyModifier applies a pure-modifier down/up event to the sticky set
// and collapses the action to an empty keycode so the host sees the
// updated modifier state.
func (k *Keyboard) stickyModifier(code keymap.Action) keymap.Action {
	switch {
	case code&keymap.Down != 0:
		k.debugf("DEBUG: setting sticky modifier 0x%04x\n", code.Mods())
		k.modifiers |= code.Mods()
	case code&keymap.Up != 0:
		k.debugf("DEBUG: clearing sticky modifier 0x%04x\n", code.Mods())
		k.modifiers &^= code.Mods()
	default:
		// Nonsensical.
		return code
	}
	return 0
}

// Tick emits at most one keyboard report. It returns true when a
// link-control code triggered recovery, in which case the caller must not
// process any further channels this tick.
func (k *Keyboard) Tick() bool {
	if !k.Out.Ready(ChannelKeyboard) {
		return false
	}

	if k.next != nil {
		code := k.next[0]
		k.next = k.next[1:]
		if code == 0 || code&keymap.EndSeq != 0 || len(k.next) == 0 {
			// Last code in the sequence.
			k.next = nil
		}
		k.debugf("DEBUG: next in sequence: 0x%04x\n", code)
		k.send(code)
		return false
	}

	if k.zombie {
		// Any outstanding sequence has completed; do one more key-up in
		// case the host still has state latched from before the reboot.
		k.debugf("DEBUG: clearing zombie state.\n")
		k.zombie = false
		k.modifiers = 0
		k.send(0)
		return false
	}

	c, ok := k.Queue.Get()
	if !ok {
		return false
	}

	if protocol.IsLinkControl(c) {
		return k.Control != nil && k.Control(c)
	}

	seq := keymap.Sequences[c][:]
	code := seq[0]
	if code == 0 {
		// The reader should have filtered this already.
		k.debugf("DEBUG: ignoring 0x%02x\n", c)
		return false
	}

	switch {
	case code&keymap.Down != 0:
		if code.Key() == keymap.KeyNone {
			code = k.stickyModifier(code)
		}
	case code&keymap.Up != 0:
		if code.Key() == keymap.KeyNone {
			code = k.stickyModifier(code)
		} else {
			// Key-up of an ordinary key is just "no key pressed".
			code = 0
		}
	default:
		// First report of a printable sequence.
		if code&keymap.EndSeq == 0 {
			k.next = seq[1:]
		}
	}
	k.send(code)
	return false
}

// Joystick emits gamepad reports for one stick.
type Joystick struct {
	Queue *queue.Queue
	Out   Output
	Which int

	zombie bool
}

// HasData reports, without locking, whether a tick would have anything
// to do.
func (j *Joystick) HasData() bool {
	return !j.Queue.EmptyUnlocked() || j.zombie
}

// MarkZombie arms the forced neutral report owed after a reboot.
func (j *Joystick) MarkZombie() {
	j.zombie = true
}

// Tick emits at most one gamepad report: the owed neutral report if the
// stick is a zombie, otherwise the next queued sample.
func (j *Joystick) Tick() {
	if !j.Out.Ready(ChannelJoy0 + Channel(j.Which)) {
		return
	}

	if j.zombie {
		j.zombie = false
		j.Out.SendJoystick(j.Which, keymap.HatCentered, 0)
		return
	}

	c, ok := j.Queue.Get()
	if !ok {
		return
	}

	var buttons byte
	if c&keymap.JoyFire != 0 {
		buttons = keymap.ButtonFire
	}
	j.Out.SendJoystick(j.Which, keymap.DirToHat[c&keymap.JoyDirMask], buttons)
}
