// Package hiddev sends the keyboard and joystick reports through the
// TinyGo USB HID subsystem. All three report channels share one HID
// interface, demultiplexed by report ID.
package hiddev

import (
	"machine"
	"machine/usb/hid"

	"github.com/thorpej/nabu-keyboard-usb/pkg/composite"
	"github.com/thorpej/nabu-keyboard-usb/pkg/report"
)

// Device implements report.Output on top of machine/usb/hid.
type Device struct {
	buf     *hid.RingBuffer
	waitTxc bool
}

var device *Device

// init registers the device with the HID subsystem.
func init() {
	if device == nil {
		device = &Device{
			buf: hid.NewRingBuffer(),
		}
		hid.SetHandler(device)
	}
}

// Port returns the device instance.
func Port() *Device {
	return device
}

// TxHandler is called by the USB interrupt when the endpoint is ready to
// transmit. This implements the hidDevicer interface.
func (d *Device) TxHandler() bool {
	d.waitTxc = false
	if b, ok := d.buf.Get(); ok {
		d.waitTxc = true
		hid.SendUSBPacket(b)
		return true
	}
	return false
}

// RxHandler handles output reports from the host. The only one defined is
// the keyboard LED state, which has nowhere to go: the NABU keyboard link
// is receive-only.
func (d *Device) RxHandler(b []byte) bool {
	return false
}

// tx sends a report packet, queuing if the endpoint is busy.
func (d *Device) tx(b []byte) {
	if machine.USBDev.InitEndpointComplete {
		if d.waitTxc {
			d.buf.Put(b)
		} else {
			d.waitTxc = true
			hid.SendUSBPacket(b)
		}
	}
}

// Mounted reports whether USB enumeration has completed.
func (d *Device) Mounted() bool {
	return machine.USBDev.InitEndpointComplete
}

// Ready reports whether the channel can accept a report right now.
func (d *Device) Ready(report.Channel) bool {
	return machine.USBDev.InitEndpointComplete
}

// Suspended reports whether the bus is suspended. The TinyGo rp2040 USB
// stack does not surface suspend events, so this always answers false;
// the suspend handling upstream only engages once it does.
func (d *Device) Suspended() bool {
	return false
}

// RemoteWakeup would signal the host to resume. Not surfaced by the
// TinyGo USB stack either; paired with Suspended above it never fires.
func (d *Device) RemoteWakeup() {
}

// SendKeyboard sends a keyboard report: modifier bitmask plus one keycode.
// Report format (9 bytes):
//
//	Byte 0:   Report ID (1)
//	Byte 1:   Modifier bits
//	Byte 2:   Reserved
//	Byte 3-8: Keycodes (we only ever press one key at a time)
func (d *Device) SendKeyboard(modifiers, key byte) {
	d.tx([]byte{
		composite.ReportIDKeyboard,
		modifiers,
		0,
		key, 0, 0, 0, 0, 0,
	})
}

// SendJoystick sends a joystick report.
// Report format (3 bytes):
//
//	Byte 0: Report ID (2 or 3)
//	Byte 1: Hat (1-8 clockwise from up, 0 centered)
//	Byte 2: Buttons (bit 0 is fire)
func (d *Device) SendJoystick(which int, hat, buttons byte) {
	d.tx([]byte{
		byte(composite.ReportIDJoy0 + which),
		hat,
		buttons,
	})
}
