package keymap

// Joystick data packets have the format:
//
//	1 0 1 F U R D L
//	      i p i o e
//	      r   g w f
//	      e   h n t
//	          t
const (
	JoyLeft  = 1 << 0
	JoyDown  = 1 << 1
	JoyRight = 1 << 2
	JoyUp    = 1 << 3
	JoyFire  = 1 << 4

	JoyDirMask = JoyLeft | JoyDown | JoyRight | JoyUp
)

// HID hat-switch positions.
const (
	HatCentered  byte = 0
	HatUp        byte = 1
	HatUpRight   byte = 2
	HatRight     byte = 3
	HatDownRight byte = 4
	HatDown      byte = 5
	HatDownLeft  byte = 6
	HatLeft      byte = 7
	HatUpLeft    byte = 8
)

// ButtonFire is the gamepad button reported for the joystick fire button.
const ButtonFire byte = 1 << 0

// DirToHat maps the 4-bit joystick direction field to a hat-switch
// position. HatCentered is conveniently 0, so combinations that are
// physically impossible on a real joystick (opposite directions at once)
// fall through to centered.
var DirToHat = [JoyDirMask + 1]byte{
	JoyUp:              HatUp,
	JoyUp | JoyRight:   HatUpRight,
	JoyRight:           HatRight,
	JoyDown | JoyRight: HatDownRight,
	JoyDown:            HatDown,
	JoyDown | JoyLeft:  HatDownLeft,
	JoyLeft:            HatLeft,
	JoyUp | JoyLeft:    HatUpLeft,
}
