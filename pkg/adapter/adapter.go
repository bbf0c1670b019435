// Package adapter wires the decoder, report sequencers, health monitor,
// and status LED into the two execution loops of the firmware: the serial
// reader goroutine and the cooperative main loop. It owns the link flags
// (mounted, suspended, remote wakeup) and the link-control dispatch.
package adapter

import (
	"fmt"
	"sync"
	"time"

	"github.com/thorpej/nabu-keyboard-usb/pkg/health"
	"github.com/thorpej/nabu-keyboard-usb/pkg/led"
	"github.com/thorpej/nabu-keyboard-usb/pkg/protocol"
	"github.com/thorpej/nabu-keyboard-usb/pkg/queue"
	"github.com/thorpej/nabu-keyboard-usb/pkg/report"
)

// DefaultReportInterval is the pacing of HID report emission.
const DefaultReportInterval = 10 * time.Millisecond

// USB extends the report output with the bus-state surface the adapter
// needs from the device stack.
type USB interface {
	report.Output
	Suspended() bool
	RemoteWakeup()
}

// Options collects the external collaborators and tunables.
type Options struct {
	Source protocol.ByteSource
	Out    USB
	Power  health.Power

	// WriteLED drives the physical status LED.
	WriteLED func(on bool)

	Now   func() time.Time
	Sleep func(time.Duration)
	Logf  func(format string, args ...interface{})
	Debug bool

	// Zero values select the defaults from the health package.
	WarnAfter      time.Duration
	DeclareAfter   time.Duration
	Settle         time.Duration
	ReportInterval time.Duration
}

// Adapter is the protocol-translation core.
type Adapter struct {
	out   USB
	logf  func(format string, args ...interface{})
	debug bool

	kbdQueue queue.Queue
	joyQueue [2]queue.Queue

	health   health.State
	monitor  health.Monitor
	rebooter health.Rebooter

	decoder   protocol.Decoder
	keyboard  report.Keyboard
	joystick  [2]report.Joystick
	indicator led.Indicator

	mounted          bool
	suspendedBus     bool
	wantRemoteWakeup bool

	reportInterval time.Duration
	lastReport     time.Time

	// Last received wire code, recorded on the reader goroutine and read
	// from the main loop for the debug display.
	codeMu   sync.Mutex
	lastCode byte
	haveCode bool
}

// New builds the core around the supplied collaborators.
func New(opts Options) *Adapter {
	if opts.WarnAfter == 0 {
		opts.WarnAfter = health.DefaultWarnAfter
	}
	if opts.DeclareAfter == 0 {
		opts.DeclareAfter = health.DefaultDeclareAfter
	}
	if opts.Settle == 0 {
		opts.Settle = health.DefaultSettle
	}
	if opts.ReportInterval == 0 {
		opts.ReportInterval = DefaultReportInterval
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...interface{}) {}
	}

	a := &Adapter{
		out:            opts.Out,
		logf:           opts.Logf,
		debug:          opts.Debug,
		reportInterval: opts.ReportInterval,
	}

	a.rebooter = health.Rebooter{
		State:  &a.health,
		Power:  opts.Power,
		Settle: opts.Settle,
		Now:    opts.Now,
		Sleep:  opts.Sleep,
		Drain:  a.drainForReboot,
	}

	a.monitor = health.Monitor{
		State:        &a.health,
		WarnAfter:    opts.WarnAfter,
		DeclareAfter: opts.DeclareAfter,
		Reboot:       a.rebooter.Reboot,
		Logf:         opts.Logf,
	}

	a.decoder = protocol.Decoder{
		Source:   opts.Source,
		Keyboard: &a.kbdQueue,
		Joy:      [2]*queue.Queue{&a.joyQueue[0], &a.joyQueue[1]},
		Health:   &a.health,
		Now:      opts.Now,
		Trace:    a.recordCode,
	}

	a.keyboard = report.Keyboard{
		Queue:   &a.kbdQueue,
		Out:     opts.Out,
		Control: a.handleControl,
		Debugf:  a.debugf,
	}
	for i := range a.joystick {
		a.joystick[i] = report.Joystick{
			Queue: &a.joyQueue[i],
			Out:   opts.Out,
			Which: i,
		}
	}

	a.indicator = led.Indicator{Write: opts.WriteLED}
	a.indicator.SetPattern(led.NotMounted, opts.Now())

	return a
}

func (a *Adapter) debugf(format string, args ...interface{}) {
	if a.debug {
		a.logf(format, args...)
	}
}

// SetDebug toggles the chatty diagnostics at runtime.
func (a *Adapter) SetDebug(on bool) {
	a.debug = on
}

// DebugEnabled reports the current debug flag.
func (a *Adapter) DebugEnabled() bool {
	return a.debug
}

// RunReader runs the serial decode loop. Call on its own goroutine; it
// never returns.
func (a *Adapter) RunReader() {
	a.decoder.Run()
}

// SetPower commands keyboard power. Exposed for startup sequencing and
// the maintenance console.
func (a *Adapter) SetPower(on bool) {
	a.rebooter.SetPower(on)
}

// ForceReboot power-cycles the keyboard immediately.
func (a *Adapter) ForceReboot() {
	a.logf("INFO: reboot requested.\n")
	a.rebooter.Reboot()
}

// drainForReboot empties every queue and arms the zombie flags. Reports
// queued from before the reboot are deliberately discarded; each channel
// instead owes the host exactly one neutral report.
func (a *Adapter) drainForReboot() {
	a.kbdQueue.Drain()
	a.joyQueue[0].Drain()
	a.joyQueue[1].Drain()
	a.keyboard.MarkZombie()
	a.joystick[0].MarkZombie()
	a.joystick[1].MarkZombie()
}

// handleControl interprets a link-control code dequeued by the keyboard
// sequencer. It returns true when recovery consumed the tick.
func (a *Adapter) handleControl(c byte) bool {
	switch c {
	case protocol.CodeErrMultiKey:
		// User mashed several keys at once; not a fault. Tell the host
		// nothing is pressed.
		a.logf("INFO: multi-keypress, sending no-key report.\n")
		a.keyboard.SendNoKey()
		return false

	case protocol.CodeErrRAM:
		a.logf("ERROR: keyboard RAM error, rebooting...\n")
	case protocol.CodeErrROM:
		a.logf("ERROR: keyboard ROM error, rebooting...\n")
	case protocol.CodeErrISR:
		a.logf("ERROR: keyboard ISR error, rebooting...\n")

	case protocol.CodeErrPing:
		a.health.MarkSeen()
		a.debugf("DEBUG: received PING from keyboard.\n")
		return false

	case protocol.CodeErrReset:
		// Keyboard has announced itself!
		a.health.MarkSeen()
		a.logf("INFO: received RESET notification from keyboard.\n")
		return false

	default:
		// This won't ever happen; just ignore.
		return false
	}

	// If we got here, we're rebooting the keyboard.
	a.rebooter.Reboot()
	return true
}

// LoopOnce runs one iteration of the cooperative main loop: status LED,
// deadcheck, then the paced HID report pass.
func (a *Adapter) LoopOnce(now time.Time) {
	a.indicator.SetPattern(led.Select(a.ledFlags()), now)
	a.indicator.Tick(now)
	a.monitor.Check(now)
	a.hidTask(now)
}

func (a *Adapter) ledFlags() led.Flags {
	return led.Flags{
		Mounted:          a.mounted,
		SuspendedBus:     a.suspendedBus,
		WantRemoteWakeup: a.wantRemoteWakeup,
		KeyboardSeen:     a.health.Seen(),
	}
}

// hidTask emits at most one report per channel per report interval. The
// interval start accumulates rather than resnapping to now, so a main
// loop that polls a little slower than the interval cannot stretch the
// report cadence.
func (a *Adapter) hidTask(now time.Time) {
	if a.lastReport.IsZero() {
		a.lastReport = now
	} else if now.Sub(a.lastReport) < a.reportInterval {
		return
	} else {
		a.lastReport = a.lastReport.Add(a.reportInterval)
	}

	// Quick unlocked checks to see if there's any work at all.
	if !a.keyboard.HasData() && !a.joystick[0].HasData() && !a.joystick[1].HasData() {
		return
	}

	if a.out.Suspended() {
		// Link-control codes must still be processed while suspended so
		// the health state stays accurate; a multi-keypress is a normal
		// key event and stays queued for after resume.
		if c, ok := a.kbdQueue.Peek(); ok &&
			protocol.IsLinkControl(c) && c != protocol.CodeErrMultiKey {
			a.kbdQueue.Get()
			a.handleControl(c)
			return
		}
		// There is report data pending; wake the host if it allowed us
		// to. The report itself goes out after resume.
		if a.wantRemoteWakeup {
			a.out.RemoteWakeup()
			a.wantRemoteWakeup = false
		}
		return
	}

	if a.keyboard.Tick() {
		// Recovery ate this tick.
		return
	}
	a.joystick[0].Tick()
	a.joystick[1].Tick()
}

// OnMount is called when the USB device is mounted.
func (a *Adapter) OnMount() {
	a.mounted = true
}

// OnUnmount is called when the USB device is unmounted.
func (a *Adapter) OnUnmount() {
	a.mounted = false
}

// OnSuspend is called when the bus suspends. remoteWakeupAllowed tells us
// whether the host permits a remote wakeup. Without it, the keyboard is
// powered off so pings and errors cannot erroneously wake the host.
func (a *Adapter) OnSuspend(remoteWakeupAllowed bool) {
	a.wantRemoteWakeup = remoteWakeupAllowed
	a.suspendedBus = true
	if !remoteWakeupAllowed {
		a.logf("INFO: powering down keyboard for suspend request.\n")
		a.rebooter.SetPower(false)
	}
}

// OnResume is called when the bus resumes. A keyboard powered down for
// suspend is re-powered.
func (a *Adapter) OnResume() {
	a.suspendedBus = false
	if !a.health.Powered() {
		a.logf("INFO: powering up keyboard for resume request.\n")
		a.rebooter.SetPower(true)
	}
}

func (a *Adapter) recordCode(c byte) {
	a.codeMu.Lock()
	a.lastCode = c
	a.haveCode = true
	a.codeMu.Unlock()
}

// LastCode returns the most recently received wire code, if any byte has
// arrived since power-up.
func (a *Adapter) LastCode() (byte, bool) {
	a.codeMu.Lock()
	c, ok := a.lastCode, a.haveCode
	a.codeMu.Unlock()
	return c, ok
}

// Mounted reports whether a USB session is up.
func (a *Adapter) Mounted() bool {
	return a.mounted
}

// BusSuspended reports whether the USB bus is suspended.
func (a *Adapter) BusSuspended() bool {
	return a.suspendedBus
}

// KeyboardSeen reports whether the keyboard has announced itself.
func (a *Adapter) KeyboardSeen() bool {
	return a.health.Seen()
}

// KeyboardPowered reports the last commanded keyboard power state.
func (a *Adapter) KeyboardPowered() bool {
	return a.health.Powered()
}

// Status summarizes the link state for the maintenance console.
func (a *Adapter) Status() string {
	return fmt.Sprintf("mounted=%v suspended=%v seen=%v powered=%v debug=%v",
		a.mounted, a.suspendedBus, a.health.Seen(), a.health.Powered(),
		a.debug)
}
