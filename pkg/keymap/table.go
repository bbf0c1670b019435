package keymap

// k widens a HID usage code for use in sequence expressions.
func k(b byte) Action { return Action(b) }

// Sequences maps every NABU raw code to its HID action sequence.
//
// The HID report protocol wants a separate report for each modifier
// press and release, in order. An 'A' is therefore four reports:
//
//	Shift, Shift + A, Shift, none
//
// Those unwinds are encoded directly in the table; the trailing zero of
// each sequence doubles as the final all-neutral report. Keys for which
// the keyboard sends explicit down/up events carry Down/Up flags and are
// emitted as single reports instead of sequences.
//
// Control keys on the NABU simply lop the upper bits off the keycode, but
// we simplify to C-a, C-c, and so on.
var Sequences = [256]Sequence{
	0x00: {ModCtrl, // C-'@'
		ModCtrl | ModShift,
		ModCtrl | ModShift | k(Key2),
		ModCtrl | ModShift,
		ModCtrl},
	0x01: {ModCtrl, ModCtrl | k(KeyA), ModCtrl},
	0x02: {ModCtrl, ModCtrl | k(KeyB), ModCtrl},
	0x03: {ModCtrl, ModCtrl | k(KeyC), ModCtrl},
	0x04: {ModCtrl, ModCtrl | k(KeyD), ModCtrl},
	0x05: {ModCtrl, ModCtrl | k(KeyE), ModCtrl},
	0x06: {ModCtrl, ModCtrl | k(KeyF), ModCtrl},
	0x07: {ModCtrl, ModCtrl | k(KeyG), ModCtrl},
	0x08: {k(KeyBackspace)},
	0x09: {k(KeyTab)},
	0x0a: {k(KeyEnter)}, // LF
	0x0b: {ModCtrl, ModCtrl | k(KeyK), ModCtrl},
	0x0c: {ModCtrl, ModCtrl | k(KeyL), ModCtrl},
	0x0d: {k(KeyEnter)}, // CR
	0x0e: {ModCtrl, ModCtrl | k(KeyN), ModCtrl},
	0x0f: {ModCtrl, ModCtrl | k(KeyO), ModCtrl},
	0x10: {ModCtrl, ModCtrl | k(KeyP), ModCtrl},
	0x11: {ModCtrl, ModCtrl | k(KeyQ), ModCtrl},
	0x12: {ModCtrl, ModCtrl | k(KeyR), ModCtrl},
	0x13: {ModCtrl, ModCtrl | k(KeyS), ModCtrl},
	0x14: {ModCtrl, ModCtrl | k(KeyT), ModCtrl},
	0x15: {ModCtrl, ModCtrl | k(KeyU), ModCtrl},
	0x16: {ModCtrl, ModCtrl | k(KeyV), ModCtrl},
	0x17: {ModCtrl, ModCtrl | k(KeyW), ModCtrl},
	0x18: {ModCtrl, ModCtrl | k(KeyX), ModCtrl},
	0x19: {ModCtrl, ModCtrl | k(KeyY), ModCtrl},
	0x1a: {ModCtrl, ModCtrl | k(KeyZ), ModCtrl},
	0x1b: {k(KeyEscape)},
	0x1c: {ModCtrl, // C-'<'
		ModCtrl | ModShift,
		ModCtrl | ModShift | k(KeyComma),
		ModCtrl | ModShift,
		ModCtrl},
	0x1d: {ModCtrl, ModCtrl | k(KeyBracketRight), ModCtrl},
	0x1e: {ModCtrl, // C-'^'
		ModCtrl | ModShift,
		ModCtrl | ModShift | k(Key6),
		ModCtrl | ModShift,
		ModCtrl},
	0x1f: {ModCtrl, // C-'_'
		ModCtrl | ModShift,
		ModCtrl | ModShift | k(KeyMinus),
		ModCtrl | ModShift,
		ModCtrl},

	0x20: {k(KeySpace)},
	0x21: {ModShift, ModShift | k(Key1), ModShift},          // !
	0x22: {ModShift, ModShift | k(KeyApostrophe), ModShift}, // "
	0x23: {ModShift, ModShift | k(Key3), ModShift},          // #
	0x24: {ModShift, ModShift | k(Key4), ModShift},          // $
	0x25: {ModShift, ModShift | k(Key5), ModShift},          // %
	0x26: {ModShift, ModShift | k(Key7), ModShift},          // &
	0x27: {k(KeyApostrophe)},
	0x28: {ModShift, ModShift | k(Key9), ModShift},     // (
	0x29: {ModShift, ModShift | k(Key0), ModShift},     // )
	0x2a: {ModShift, ModShift | k(Key8), ModShift},     // *
	0x2b: {ModShift, ModShift | k(KeyEqual), ModShift}, // +
	0x2c: {k(KeyComma)},
	0x2d: {k(KeyMinus)},
	0x2e: {k(KeyPeriod)},
	0x2f: {k(KeySlash)},
	0x30: {k(Key0)},
	0x31: {k(Key1)},
	0x32: {k(Key2)},
	0x33: {k(Key3)},
	0x34: {k(Key4)},
	0x35: {k(Key5)},
	0x36: {k(Key6)},
	0x37: {k(Key7)},
	0x38: {k(Key8)},
	0x39: {k(Key9)},
	0x3a: {ModShift, ModShift | k(KeySemicolon), ModShift}, // :
	0x3b: {k(KeySemicolon)},
	0x3c: {ModShift, ModShift | k(KeyComma), ModShift}, // <
	0x3d: {k(KeyEqual)},
	0x3e: {ModShift, ModShift | k(KeyPeriod), ModShift}, // >
	0x3f: {ModShift, ModShift | k(KeySlash), ModShift},  // ?

	0x40: {ModShift, ModShift | k(Key2), ModShift}, // @
	0x41: {ModShift, ModShift | k(KeyA), ModShift},
	0x42: {ModShift, ModShift | k(KeyB), ModShift},
	0x43: {ModShift, ModShift | k(KeyC), ModShift},
	0x44: {ModShift, ModShift | k(KeyD), ModShift},
	0x45: {ModShift, ModShift | k(KeyE), ModShift},
	0x46: {ModShift, ModShift | k(KeyF), ModShift},
	0x47: {ModShift, ModShift | k(KeyG), ModShift},
	0x48: {ModShift, ModShift | k(KeyH), ModShift},
	0x49: {ModShift, ModShift | k(KeyI), ModShift},
	0x4a: {ModShift, ModShift | k(KeyJ), ModShift},
	0x4b: {ModShift, ModShift | k(KeyK), ModShift},
	0x4c: {ModShift, ModShift | k(KeyL), ModShift},
	0x4d: {ModShift, ModShift | k(KeyM), ModShift},
	0x4e: {ModShift, ModShift | k(KeyN), ModShift},
	0x4f: {ModShift, ModShift | k(KeyO), ModShift},
	0x50: {ModShift, ModShift | k(KeyP), ModShift},
	0x51: {ModShift, ModShift | k(KeyQ), ModShift},
	0x52: {ModShift, ModShift | k(KeyR), ModShift},
	0x53: {ModShift, ModShift | k(KeyS), ModShift},
	0x54: {ModShift, ModShift | k(KeyT), ModShift},
	0x55: {ModShift, ModShift | k(KeyU), ModShift},
	0x56: {ModShift, ModShift | k(KeyV), ModShift},
	0x57: {ModShift, ModShift | k(KeyW), ModShift},
	0x58: {ModShift, ModShift | k(KeyX), ModShift},
	0x59: {ModShift, ModShift | k(KeyY), ModShift},
	0x5a: {ModShift, ModShift | k(KeyZ), ModShift},
	0x5b: {k(KeyBracketLeft)},
	// 0x5c unassigned
	0x5d: {k(KeyBracketRight)},
	0x5e: {ModShift, ModShift | k(Key6), ModShift},     // ^
	0x5f: {ModShift, ModShift | k(KeyMinus), ModShift}, // _

	// 0x60 unassigned
	0x61: {k(KeyA)},
	0x62: {k(KeyB)},
	0x63: {k(KeyC)},
	0x64: {k(KeyD)},
	0x65: {k(KeyE)},
	0x66: {k(KeyF)},
	0x67: {k(KeyG)},
	0x68: {k(KeyH)},
	0x69: {k(KeyI)},
	0x6a: {k(KeyJ)},
	0x6b: {k(KeyK)},
	0x6c: {k(KeyL)},
	0x6d: {k(KeyM)},
	0x6e: {k(KeyN)},
	0x6f: {k(KeyO)},
	0x70: {k(KeyP)},
	0x71: {k(KeyQ)},
	0x72: {k(KeyR)},
	0x73: {k(KeyS)},
	0x74: {k(KeyT)},
	0x75: {k(KeyU)},
	0x76: {k(KeyV)},
	0x77: {k(KeyW)},
	0x78: {k(KeyX)},
	0x79: {k(KeyY)},
	0x7a: {k(KeyZ)},
	0x7b: {ModShift, ModShift | k(KeyBracketLeft), ModShift}, // {
	// 0x7c unassigned
	0x7d: {ModShift, ModShift | k(KeyBracketRight), ModShift}, // }
	// 0x7e unassigned
	0x7f: {k(KeyBackspace)}, // DEL

	// 0x80 - 0xdf are joystick and link-control codes, no keyboard effect.

	0xe0: {Down | k(KeyArrowRight)},
	0xe1: {Down | k(KeyArrowLeft)},
	0xe2: {Down | k(KeyArrowUp)},
	0xe3: {Down | k(KeyArrowDown)},
	0xe4: {Down | k(KeyPageDown)}, // |||>
	0xe5: {Down | k(KeyPageUp)},   // <|||
	// There isn't really a good alternative for \ and |, so we steal the
	// NO and YES keys, respectively. These keys don't self-repeat, so the
	// down sequences end without unwinding to KeyNone (via EndSeq) and
	// the USB host does the key repeat itself.
	0xe6: {EndSeq | k(KeyBackslash)},                     // NO
	0xe7: {ModShift, ModShift | EndSeq | k(KeyBackslash)}, // YES
	0xe8: {Down | ModMeta},                                // SYM
	0xe9: {Down | k(KeyPause)},                            // PAUSE
	0xea: {Down | ModAlt},                                 // TV/NABU
	// 0xeb - 0xef unassigned
	0xf0: {Up | k(KeyArrowRight)},
	0xf1: {Up | k(KeyArrowLeft)},
	0xf2: {Up | k(KeyArrowUp)},
	0xf3: {Up | k(KeyArrowDown)},
	0xf4: {Up | k(KeyPageDown)}, // |||>
	0xf5: {Up | k(KeyPageUp)},   // <|||
	0xf6: {EndSeq},              // NO
	0xf7: {ModShift},            // YES
	0xf8: {Up | ModMeta},        // SYM
	0xf9: {Up | k(KeyPause)},    // PAUSE
	0xfa: {Up | ModAlt},         // TV/NABU
	// 0xfb - 0xff unassigned
}
