package display

import (
	"fmt"

	"github.com/thorpej/nabu-keyboard-usb/pkg/protocol"
)

// CodeName returns a short human-readable name for a raw wire code,
// compact enough for one display row.
func CodeName(c byte) string {
	switch {
	case c == protocol.CodeJoy0 || c == protocol.CodeJoy1:
		return fmt.Sprintf("JOY%d sel", c&1)
	case protocol.IsJoyData(c):
		return "JOY " + joyDirs(c)
	case c == protocol.CodeErrMultiKey:
		return "MKEY"
	case c == protocol.CodeErrRAM:
		return "RAM fault"
	case c == protocol.CodeErrROM:
		return "ROM fault"
	case c == protocol.CodeErrISR:
		return "ISR fault"
	case c == protocol.CodeErrPing:
		return "PING"
	case c == protocol.CodeErrReset:
		return "RESET"
	case c >= 0x20 && c < 0x7f:
		return fmt.Sprintf("'%c'", c)
	case c < 0x20:
		return fmt.Sprintf("CTRL %02X", c)
	case c >= 0xe0 && c <= 0xea:
		return fmt.Sprintf("SPCL %02X dn", c)
	case c >= 0xf0 && c <= 0xfa:
		return fmt.Sprintf("SPCL %02X up", c)
	default:
		return fmt.Sprintf("RAW %02X", c)
	}
}

// joyDirs renders the direction and fire bits of a joystick data byte.
func joyDirs(c byte) string {
	buf := make([]byte, 0, 5)
	for _, d := range []struct {
		bit  byte
		name byte
	}{
		{1 << 3, 'U'}, // up
		{1 << 1, 'D'}, // down
		{1 << 0, 'L'}, // left
		{1 << 2, 'R'}, // right
		{1 << 4, 'F'}, // fire
	} {
		if c&d.bit != 0 {
			buf = append(buf, d.name)
		}
	}
	if len(buf) == 0 {
		return "idle"
	}
	return string(buf)
}

// USBStatus renders the USB link state for the status row.
func USBStatus(mounted, suspended bool) string {
	switch {
	case !mounted:
		return "USB: down"
	case suspended:
		return "USB: suspended"
	default:
		return "USB: up"
	}
}

// KbdStatus renders the keyboard state for the status row.
func KbdStatus(seen, powered bool) string {
	switch {
	case !powered:
		return "KBD: off"
	case !seen:
		return "KBD: waiting"
	default:
		return "KBD: ok"
	}
}
