// Package keymap holds the static tables that translate NABU keyboard and
// joystick codes into USB HID terms. The keyboard table maps each raw code
// to a short, zero-terminated sequence of actions; the joystick table maps
// direction bitmasks to hat-switch positions.
package keymap

// Action is one step of a keyboard report sequence. The low byte carries
// the HID usage code; bits 8-11 carry modifier bits aligned with the HID
// modifier byte; the remaining bits flag key-down/key-up events and
// end-of-sequence.
type Action uint16

const (
	ModCtrl  Action = 0x0100 // left control << 8
	ModShift Action = 0x0200 // left shift << 8
	ModAlt   Action = 0x0400 // left alt << 8
	ModMeta  Action = 0x0800 // left GUI << 8

	Down   Action = 0x1000
	Up     Action = 0x2000
	EndSeq Action = 0x4000

	modMask Action = 0x0f00
)

// Key returns the HID usage code carried by the action.
func (a Action) Key() byte {
	return byte(a)
}

// Mods returns only the modifier bits of the action.
func (a Action) Mods() Action {
	return a & modMask
}

// ModifierByte returns the action's modifier bits positioned for the HID
// report modifier byte.
func (a Action) ModifierByte() byte {
	return byte((a & modMask) >> 8)
}

// HID keyboard usage codes (USB HID usage table, page 0x07). Only the
// codes the NABU keyboard can produce are named here.
const (
	KeyNone byte = 0x00

	KeyA byte = 0x04
	KeyB byte = 0x05
	KeyC byte = 0x06
	KeyD byte = 0x07
	KeyE byte = 0x08
	KeyF byte = 0x09
	KeyG byte = 0x0a
	KeyH byte = 0x0b
	KeyI byte = 0x0c
	KeyJ byte = 0x0d
	KeyK byte = 0x0e
	KeyL byte = 0x0f
	KeyM byte = 0x10
	KeyN byte = 0x11
	KeyO byte = 0x12
	KeyP byte = 0x13
	KeyQ byte = 0x14
	KeyR byte = 0x15
	KeyS byte = 0x16
	KeyT byte = 0x17
	KeyU byte = 0x18
	KeyV byte = 0x19
	KeyW byte = 0x1a
	KeyX byte = 0x1b
	KeyY byte = 0x1c
	KeyZ byte = 0x1d

	Key1 byte = 0x1e
	Key2 byte = 0x1f
	Key3 byte = 0x20
	Key4 byte = 0x21
	Key5 byte = 0x22
	Key6 byte = 0x23
	Key7 byte = 0x24
	Key8 byte = 0x25
	Key9 byte = 0x26
	Key0 byte = 0x27

	KeyEnter        byte = 0x28
	KeyEscape       byte = 0x29
	KeyBackspace    byte = 0x2a
	KeyTab          byte = 0x2b
	KeySpace        byte = 0x2c
	KeyMinus        byte = 0x2d
	KeyEqual        byte = 0x2e
	KeyBracketLeft  byte = 0x2f
	KeyBracketRight byte = 0x30
	KeyBackslash    byte = 0x31
	KeySemicolon    byte = 0x33
	KeyApostrophe   byte = 0x34
	KeyComma        byte = 0x36
	KeyPeriod       byte = 0x37
	KeySlash        byte = 0x38

	KeyPause      byte = 0x48
	KeyPageUp     byte = 0x4b
	KeyPageDown   byte = 0x4e
	KeyArrowRight byte = 0x4f
	KeyArrowLeft  byte = 0x50
	KeyArrowDown  byte = 0x51
	KeyArrowUp    byte = 0x52
)

// Sequence is an ordered, zero-terminated run of actions. The unassigned
// entries of the table are all-zero, which conveniently means "no action".
type Sequence [6]Action

// Mapped reports whether the raw code has any keyboard effect at all.
// The reader goroutine uses this to avoid enqueueing dead codes.
func Mapped(c byte) bool {
	return Sequences[c][0] != 0
}
