//go:build !nodebug

// Package display provides SSD1306 OLED support for debug output. It shows
// the USB link state on the yellow rows (0-1) and keyboard activity on the
// blue rows (2-3).
//
// To build without display support (saves ~1KB RAM and flash), use:
//
//	tinygo build -tags=nodebug -target=pico -o firmware.uf2 .
package display

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
)

const (
	// I2C configuration
	i2cAddress = 0x3C
	sclPin     = machine.GPIO1
	sdaPin     = machine.GPIO0

	// Display dimensions
	screenWidth  = 128
	screenHeight = 64
	rowHeight    = 16
	rows         = screenHeight / rowHeight // 4 rows

	// Row assignments
	rowTitle = 0 // Yellow - title
	rowUSB   = 1 // Yellow - USB link state
	rowKbd   = 2 // Blue - keyboard state
	rowEvent = 3 // Blue - last event or error
)

var white = color.RGBA{255, 255, 255, 255}

// Manager handles the SSD1306 display for debug output.
type Manager struct {
	device *ssd1306.Device
	i2c    *machine.I2C
	lines  [rows]string
}

// NewManager creates and initializes the display manager.
// Returns nil if display initialization fails (non-fatal for debug).
func NewManager() *Manager {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400000, // 400kHz fast mode
		SCL:       sclPin,
		SDA:       sdaPin,
	}); err != nil {
		fmt.Printf("I2C config failed: %v\n", err)
		return nil
	}

	// Small delay for bus stabilization
	time.Sleep(10 * time.Millisecond)

	dev := ssd1306.NewI2C(i2c)
	dev.Configure(ssd1306.Config{
		Address: i2cAddress,
		Width:   screenWidth,
		Height:  screenHeight,
	})
	dev.ClearDisplay()

	mgr := &Manager{
		device: &dev,
		i2c:    i2c,
	}
	mgr.lines[rowTitle] = "NABU Keyboard"
	mgr.lines[rowEvent] = "booting..."
	mgr.refresh()

	return mgr
}

// ShowStatus updates the USB and keyboard state rows.
func (m *Manager) ShowStatus(usb, kbd string) {
	if m.lines[rowUSB] == usb && m.lines[rowKbd] == kbd {
		return
	}
	m.lines[rowUSB] = usb
	m.lines[rowKbd] = kbd
	m.refresh()
}

// ShowEvent displays the most recent decoded event on the bottom row.
func (m *Manager) ShowEvent(s string) {
	if m.lines[rowEvent] == s {
		return
	}
	m.lines[rowEvent] = s
	m.refresh()
}

// ShowError displays an error message on the bottom row.
func (m *Manager) ShowError(msg string) {
	m.ShowEvent("ERR " + msg)
}

// refresh redraws all rows.
func (m *Manager) refresh() {
	m.device.ClearBuffer()
	for row, s := range m.lines {
		if s == "" {
			continue
		}
		y := int16(row*rowHeight + 11)
		tinyfont.WriteLine(m.device, &tinyfont.Org01, 0, y, s, white)
	}
	m.device.Display()
}
