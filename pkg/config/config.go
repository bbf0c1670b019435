// Package config defines the persistent device settings. The struct is
// fixed-size for zero-allocation binary serialization.
package config

import (
	"encoding/binary"
	"errors"
	"time"
)

// CurrentVersion is the settings format version.
// Bump this when making breaking changes to the format.
// When firmware boots and finds a different version in flash, settings are wiped.
const CurrentVersion uint16 = 1

// Settings flags.
const (
	// FlagDebug enables the chatty diagnostics on the console.
	FlagDebug uint32 = 1 << 0
)

// Settings holds the tunables that survive a power cycle.
// Total size: 16 bytes
// Layout:
//
//	[0-1]:   Version (uint16)
//	[2-5]:   Flags (uint32)
//	[6-7]:   WarnAfterMs (uint16)
//	[8-9]:   DeclareAfterMs (uint16)
//	[10-11]: SettleMs (uint16)
//	[12-13]: ReportIntervalMs (uint16)
//	[14-15]: Reserved (uint16)
type Settings struct {
	Version          uint16 // Settings format version
	Flags            uint32 // Feature flags
	WarnAfterMs      uint16 // Deadcheck warning threshold
	DeclareAfterMs   uint16 // Deadcheck declare-dead threshold
	SettleMs         uint16 // Power-off settle time during a reboot
	ReportIntervalMs uint16 // HID report pacing
	Reserved         uint16 // Reserved for future use
}

// SettingsSize is the serialized size of Settings. Storage reads exactly
// this many bytes back.
const SettingsSize = 16

var (
	ErrInvalidSize = errors.New("invalid settings size")
)

// Default returns the factory settings.
func Default() Settings {
	return Settings{
		Version:          CurrentVersion,
		WarnAfterMs:      5000,
		DeclareAfterMs:   10000,
		SettleMs:         4000,
		ReportIntervalMs: 10,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler for Settings.
func (s *Settings) MarshalBinary() ([]byte, error) {
	buf := make([]byte, SettingsSize)
	binary.LittleEndian.PutUint16(buf[0:], s.Version)
	binary.LittleEndian.PutUint32(buf[2:], s.Flags)
	binary.LittleEndian.PutUint16(buf[6:], s.WarnAfterMs)
	binary.LittleEndian.PutUint16(buf[8:], s.DeclareAfterMs)
	binary.LittleEndian.PutUint16(buf[10:], s.SettleMs)
	binary.LittleEndian.PutUint16(buf[12:], s.ReportIntervalMs)
	binary.LittleEndian.PutUint16(buf[14:], s.Reserved)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for Settings.
func (s *Settings) UnmarshalBinary(data []byte) error {
	if len(data) < SettingsSize {
		return ErrInvalidSize
	}
	s.Version = binary.LittleEndian.Uint16(data[0:])
	s.Flags = binary.LittleEndian.Uint32(data[2:])
	s.WarnAfterMs = binary.LittleEndian.Uint16(data[6:])
	s.DeclareAfterMs = binary.LittleEndian.Uint16(data[8:])
	s.SettleMs = binary.LittleEndian.Uint16(data[10:])
	s.ReportIntervalMs = binary.LittleEndian.Uint16(data[12:])
	s.Reserved = binary.LittleEndian.Uint16(data[14:])
	return nil
}

// Sanitize replaces nonsense values with the defaults so a corrupt or
// hand-edited settings file cannot wedge the deadcheck.
func (s *Settings) Sanitize() {
	def := Default()
	if s.WarnAfterMs == 0 {
		s.WarnAfterMs = def.WarnAfterMs
	}
	if s.DeclareAfterMs <= s.WarnAfterMs {
		s.DeclareAfterMs = def.DeclareAfterMs
		if s.DeclareAfterMs <= s.WarnAfterMs {
			s.WarnAfterMs = def.WarnAfterMs
		}
	}
	if s.SettleMs == 0 {
		s.SettleMs = def.SettleMs
	}
	if s.ReportIntervalMs == 0 {
		s.ReportIntervalMs = def.ReportIntervalMs
	}
}

// Debug reports whether the debug flag is set.
func (s *Settings) Debug() bool {
	return s.Flags&FlagDebug != 0
}

// SetDebug sets or clears the debug flag.
func (s *Settings) SetDebug(on bool) {
	if on {
		s.Flags |= FlagDebug
	} else {
		s.Flags &^= FlagDebug
	}
}

// WarnAfter returns the warning threshold as a duration.
func (s *Settings) WarnAfter() time.Duration {
	return time.Duration(s.WarnAfterMs) * time.Millisecond
}

// DeclareAfter returns the declare-dead threshold as a duration.
func (s *Settings) DeclareAfter() time.Duration {
	return time.Duration(s.DeclareAfterMs) * time.Millisecond
}

// Settle returns the reboot settle time as a duration.
func (s *Settings) Settle() time.Duration {
	return time.Duration(s.SettleMs) * time.Millisecond
}

// ReportInterval returns the HID report pacing as a duration.
func (s *Settings) ReportInterval() time.Duration {
	return time.Duration(s.ReportIntervalMs) * time.Millisecond
}
