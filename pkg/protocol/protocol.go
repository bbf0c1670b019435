// Package protocol implements the receive side of the NABU keyboard wire
// protocol. The keyboard is a one-way, fixed-baud serial stream of single
// bytes: ASCII-ish keystrokes, special-key down/up events, joystick
// select/data pairs, and link-control codes (errors, pings, reset).
//
// The physical layer is RS422 8N1 @ 6992 baud. (Yes, it's weird: the rate
// is derived from the 3.58MHz NTSC colorburst clock inside the keyboard.)
package protocol

import (
	"time"

	"github.com/thorpej/nabu-keyboard-usb/pkg/health"
	"github.com/thorpej/nabu-keyboard-usb/pkg/keymap"
	"github.com/thorpej/nabu-keyboard-usb/pkg/queue"
)

// BaudRate is the keyboard's fixed serial rate.
const BaudRate = 6992

// Raw code assignments above the ASCII range.
const (
	CodeJoy0 byte = 0x80 // joystick 0 data follows
	CodeJoy1 byte = 0x81 // joystick 1 data follows

	CodeErrFirst byte = 0x90
	CodeErrLast  byte = 0x95

	CodeJoyDataFirst byte = 0xa0
	CodeJoyDataLast  byte = 0xbf
)

// Link-control codes within the error range.
const (
	CodeErrMultiKey byte = 0x90 // multiple keys pressed
	CodeErrRAM      byte = 0x91 // faulty keyboard RAM
	CodeErrROM      byte = 0x92 // faulty keyboard ROM
	CodeErrISR      byte = 0x93 // illegal ISR (?)
	CodeErrPing     byte = 0x94 // periodic no-load ping
	CodeErrReset    byte = 0x95 // keyboard power-up/reset
)

// IsJoySelect reports whether c announces which joystick's data follows.
func IsJoySelect(c byte) bool {
	return c == CodeJoy0 || c == CodeJoy1
}

// IsJoyData reports whether c is a joystick direction/fire bitmask.
func IsJoyData(c byte) bool {
	return c >= CodeJoyDataFirst && c <= CodeJoyDataLast
}

// IsLinkControl reports whether c is an error, ping, or reset code.
func IsLinkControl(c byte) bool {
	return c >= CodeErrFirst && c <= CodeErrLast
}

// ByteSource is the serial receive side. machine.UART satisfies it;
// ReadByte returns an error when no byte is buffered yet.
type ByteSource interface {
	ReadByte() (byte, error)
}

// Decoder pulls raw bytes off the serial link and demultiplexes them into
// the keyboard and joystick queues. It runs on its own goroutine; the only
// state it shares with the report loop is the queues and the health
// last-seen timestamp.
type Decoder struct {
	Source   ByteSource
	Keyboard *queue.Queue
	Joy      [2]*queue.Queue
	Health   *health.State
	Now      func() time.Time

	// Trace, if set, receives every received byte. Debug display hook;
	// it must not block.
	Trace func(c byte)

	// joyInstance is the stick announced by a select code, or -1 when no
	// data byte is expected. Reset defensively on any out-of-sequence byte.
	joyInstance int
}

// Run reads bytes until the process ends. It never returns.
func (d *Decoder) Run() {
	d.joyInstance = -1
	for {
		d.poll()
	}
}

// poll handles at most one buffered byte. An empty UART sleeps instead of
// spinning: the scheduler is cooperative, so the read loop must yield or
// the report loop starves. A byte takes ~1.4ms on the wire at this baud
// rate, so a millisecond of sleep can never fall behind it.
func (d *Decoder) poll() {
	c, err := d.Source.ReadByte()
	if err != nil {
		time.Sleep(time.Millisecond)
		return
	}
	d.handle(c)
}

// handle classifies one received byte. Every byte counts as proof of life,
// even ones that end up discarded, so the deadcheck trusts idle pings.
func (d *Decoder) handle(c byte) {
	d.Health.Touch(d.Now())
	if d.Trace != nil {
		d.Trace(c)
	}

	if IsJoySelect(c) {
		d.joyInstance = int(c & 1)
		// A joystick data byte is expected next.
		return
	}

	if IsJoyData(c) {
		if d.joyInstance < 0 {
			// Data with no preceding select; discard.
			return
		}
		d.Joy[d.joyInstance].TryEnqueue(c)
		d.joyInstance = -1
		return
	}

	if d.joyInstance >= 0 {
		// Select with no following data; abandon it.
		d.joyInstance = -1
	}

	// The rest is ostensibly keyboard data, but don't bother to enqueue
	// it if no action will ever be taken.
	if keymap.Mapped(c) || IsLinkControl(c) {
		d.Keyboard.TryEnqueue(c)
	}
}
