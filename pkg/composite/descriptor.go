// Package composite provides a custom USB composite device descriptor
// that combines CDC (Serial) + HID (Keyboard + two Joysticks)
package composite

import (
	"machine/usb"
	"machine/usb/descriptor"
)

// HID report IDs. One HID interface carries all three report channels.
const (
	ReportIDKeyboard = 1
	ReportIDJoy0     = 2
	ReportIDJoy1     = 3
)

// joystickReport describes one NABU joystick: an 8-way hat plus a fire
// button. Values 1-8 are the compass directions starting at up; 0 is out
// of range and means centered (null state).
func joystickReport(reportID byte) [][]byte {
	return [][]byte{
		descriptor.HIDUsagePageGenericDesktop,
		descriptor.HIDUsageDesktopGamepad,
		descriptor.HIDCollectionApplication,
		descriptor.HIDReportID(int(reportID)),
		// Hat switch (1 byte)
		{0x09, 0x39}, // Usage (Hat Switch)
		descriptor.HIDLogicalMinimum(1),
		descriptor.HIDLogicalMaximum(8),
		descriptor.HIDReportSize(8),
		descriptor.HIDReportCount(1),
		{0x81, 0x42}, // Input (Data,Var,Abs,Null State)
		// Buttons (8 bits, only bit 0 is wired to the fire button)
		descriptor.HIDUsagePageButton,
		descriptor.HIDUsageMinimum(1),
		descriptor.HIDUsageMaximum(8),
		descriptor.HIDLogicalMinimum(0),
		descriptor.HIDLogicalMaximum(1),
		descriptor.HIDReportSize(1),
		descriptor.HIDReportCount(8),
		descriptor.HIDInputDataVarAbs,
		descriptor.HIDCollectionEnd,
	}
}

// CompositeHIDReportDescriptor combines all HID device reports using
// Report IDs. This descriptor is the key to making composite HID work
// with TinyGo.
var CompositeHIDReportDescriptor = descriptor.Append(append(append([][]byte{
	// ===================================================================
	// REPORT ID 1: KEYBOARD (9 bytes total: 1 ID + 8 data)
	// ===================================================================
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDUsageDesktopKeyboard,
	descriptor.HIDCollectionApplication,
	descriptor.HIDReportID(ReportIDKeyboard),
	// Modifier keys (8 bits)
	descriptor.HIDUsagePageKeyboard,
	descriptor.HIDUsageMinimum(224),
	descriptor.HIDUsageMaximum(231),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(1),
	descriptor.HIDReportSize(1),
	descriptor.HIDReportCount(8),
	descriptor.HIDInputDataVarAbs,
	// Reserved byte
	descriptor.HIDReportCount(1),
	descriptor.HIDReportSize(8),
	descriptor.HIDInputConstVarAbs,
	// LED output report (for keyboard LEDs)
	descriptor.HIDReportCount(3),
	descriptor.HIDReportSize(1),
	descriptor.HIDUsagePageLED,
	descriptor.HIDUsageMinimum(1),
	descriptor.HIDUsageMaximum(3),
	descriptor.HIDOutputDataVarAbs,
	descriptor.HIDReportCount(5),
	descriptor.HIDReportSize(1),
	descriptor.HIDOutputConstVarAbs,
	// Keycodes (6 keys)
	descriptor.HIDReportCount(6),
	descriptor.HIDReportSize(8),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(255),
	descriptor.HIDUsagePageKeyboard,
	descriptor.HIDUsageMinimum(0),
	descriptor.HIDUsageMaximum(255),
	descriptor.HIDInputDataAryAbs,
	descriptor.HIDCollectionEnd,
},
	// ===================================================================
	// REPORT IDs 2 and 3: JOYSTICKS (3 bytes total: 1 ID + hat + buttons)
	// ===================================================================
	joystickReport(ReportIDJoy0)...),
	joystickReport(ReportIDJoy1)...))

// USBDescriptor is the complete USB descriptor for our composite device.
// It combines CDC (Serial) + HID (Keyboard/Joystick/Joystick).
var USBDescriptor = descriptor.Descriptor{
	// Device descriptor: USB 2.0 Composite device
	Device: descriptor.DeviceCDC.Bytes(),

	// Configuration descriptor: All interfaces combined
	Configuration: descriptor.Append([][]byte{
		// Configuration header
		descriptor.ConfigurationCDCHID.Bytes(),
		// CDC interfaces
		descriptor.InterfaceAssociationCDC.Bytes(),
		descriptor.InterfaceCDCControl.Bytes(),
		descriptor.ClassSpecificCDCHeader.Bytes(),
		descriptor.ClassSpecificCDCACM.Bytes(),
		descriptor.ClassSpecificCDCUnion.Bytes(),
		descriptor.ClassSpecificCDCCallManagement.Bytes(),
		descriptor.EndpointEP1IN.Bytes(),
		descriptor.InterfaceCDCData.Bytes(),
		descriptor.EndpointEP2OUT.Bytes(),
		descriptor.EndpointEP3IN.Bytes(),
		// HID interface
		descriptor.InterfaceHID.Bytes(),
		// HID class descriptor (patched with the correct report length)
		func() []byte {
			classHID := descriptor.ClassHID.Bytes()
			classHID[7] = byte(len(CompositeHIDReportDescriptor))
			classHID[8] = byte(len(CompositeHIDReportDescriptor) >> 8)
			return classHID
		}(),
		descriptor.EndpointEP4IN.Bytes(),
		descriptor.EndpointEP5OUT.Bytes(),
	}),

	// HID report descriptors by interface number
	HID: map[uint16][]byte{
		usb.HID_INTERFACE: CompositeHIDReportDescriptor,
	},
}
