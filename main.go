package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/thorpej/nabu-keyboard-usb/pkg/adapter"
	"github.com/thorpej/nabu-keyboard-usb/pkg/composite"
	"github.com/thorpej/nabu-keyboard-usb/pkg/config"
	"github.com/thorpej/nabu-keyboard-usb/pkg/display"
	"github.com/thorpej/nabu-keyboard-usb/pkg/hiddev"
	"github.com/thorpej/nabu-keyboard-usb/pkg/protocol"
	"github.com/thorpej/nabu-keyboard-usb/pkg/storage"
	"github.com/thorpej/nabu-keyboard-usb/serial"
)

// Pin assignments. The keyboard speaks RS422 into a transceiver on UART1;
// PWREN drives the MOSFET that switches the keyboard's power rail. The
// debug strap forces debug logging on when grounded at boot.
const (
	uartTxPin  = machine.GP4
	uartRxPin  = machine.GP5
	powerPin   = machine.GP26
	debugStrap = machine.GP22
)

// power adapts the PWREN pin to the health package.
type power struct {
	pin machine.Pin
}

func (p power) Set(on bool) {
	p.pin.Set(on)
}

func logf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

func main() {
	machine.ConfigureUSBDescriptor(composite.USBDescriptor)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Keyboard stays off until everything is ready to receive.
	pwren := powerPin
	pwren.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pwren.Low()

	strap := debugStrap
	strap.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	uart := machine.UART1
	uart.Configure(machine.UARTConfig{
		BaudRate: protocol.BaudRate,
		TX:       uartTxPin,
		RX:       uartRxPin,
	})

	settings := config.Default()
	store, err := storage.New(machine.Flash, true)
	if err != nil {
		logf("WARNING: flash unavailable, using default settings: %v\n", err)
	} else if err := store.LoadSettings(&settings); err != nil {
		if err != storage.ErrNotFound {
			logf("WARNING: failed to load settings: %v\n", err)
		}
		settings = config.Default()
	}
	settings.Sanitize()

	// Grounding the strap wins over the stored flag.
	debug := settings.Debug() || !strap.Get()

	a := adapter.New(adapter.Options{
		Source:         uart,
		Out:            hiddev.Port(),
		Power:          power{pin: pwren},
		WriteLED:       led.Set,
		Now:            time.Now,
		Sleep:          time.Sleep,
		Logf:           logf,
		Debug:          debug,
		WarnAfter:      settings.WarnAfter(),
		DeclareAfter:   settings.DeclareAfter(),
		Settle:         settings.Settle(),
		ReportInterval: settings.ReportInterval(),
	})

	console := serial.NewConsole(machine.Serial, serial.Commands{
		Status: a.Status,
		Reboot: a.ForceReboot,
		SetDebug: func(on bool) {
			a.SetDebug(on)
		},
		Save: func() error {
			if store == nil {
				return storage.ErrNotFound
			}
			settings.SetDebug(a.DebugEnabled())
			return store.SaveSettings(&settings)
		},
		Wipe: func() error {
			if store == nil {
				return storage.ErrNotFound
			}
			return store.Wipe()
		},
	})

	disp := display.NewManager()

	logf("INFO: NABU keyboard adapter starting.\n")

	go a.RunReader()
	a.SetPower(true)

	usb := hiddev.Port()
	mounted := false
	for {
		now := time.Now()

		if m := usb.Mounted(); m != mounted {
			mounted = m
			if m {
				logf("INFO: USB mounted.\n")
				a.OnMount()
			} else {
				logf("INFO: USB unmounted.\n")
				a.OnUnmount()
			}
		}

		a.LoopOnce(now)
		console.Poll()

		if disp != nil {
			disp.ShowStatus(
				display.USBStatus(a.Mounted(), a.BusSuspended()),
				display.KbdStatus(a.KeyboardSeen(), a.KeyboardPowered()),
			)
			if c, ok := a.LastCode(); ok {
				disp.ShowEvent(display.CodeName(c))
			}
		}

		time.Sleep(time.Millisecond)
	}
}
