package storage

import (
	"testing"

	"github.com/thorpej/nabu-keyboard-usb/pkg/config"

	"tinygo.org/x/tinyfs"
)

func newTestStorage(t *testing.T) (*Manager, *tinyfs.MemBlockDevice) {
	// Memory-backed block device simulating RP2040 flash:
	// 256 byte pages, 4096 byte blocks, 64 blocks = 256KB.
	blockDev := tinyfs.NewMemoryDevice(256, 4096, 64)

	mgr, err := New(blockDev, true)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	return mgr, blockDev
}

func TestSettingsSaveLoad(t *testing.T) {
	mgr, _ := newTestStorage(t)
	defer mgr.Close()

	original := config.Settings{
		Flags:            config.FlagDebug,
		WarnAfterMs:      3000,
		DeclareAfterMs:   8000,
		SettleMs:         2000,
		ReportIntervalMs: 10,
		Reserved:         0xBEEF, // last field: catches a short read
	}

	if err := mgr.SaveSettings(&original); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	var loaded config.Settings
	if err := mgr.LoadSettings(&loaded); err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if loaded.Version != config.CurrentVersion {
		t.Errorf("Version not set: expected %d, got %d",
			config.CurrentVersion, loaded.Version)
	}
	if loaded.Flags != original.Flags {
		t.Errorf("Flags: expected 0x%x, got 0x%x", original.Flags, loaded.Flags)
	}
	if loaded.WarnAfterMs != original.WarnAfterMs {
		t.Errorf("WarnAfterMs: expected %d, got %d",
			original.WarnAfterMs, loaded.WarnAfterMs)
	}
	if loaded.DeclareAfterMs != original.DeclareAfterMs {
		t.Errorf("DeclareAfterMs: expected %d, got %d",
			original.DeclareAfterMs, loaded.DeclareAfterMs)
	}
	if loaded.Reserved != original.Reserved {
		t.Errorf("Reserved: expected 0x%x, got 0x%x",
			original.Reserved, loaded.Reserved)
	}
}

func TestLoadMissingSettings(t *testing.T) {
	mgr, _ := newTestStorage(t)
	defer mgr.Close()

	var s config.Settings
	if err := mgr.LoadSettings(&s); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	mgr, _ := newTestStorage(t)
	defer mgr.Close()

	first := config.Default()
	if err := mgr.SaveSettings(&first); err != nil {
		t.Fatalf("first SaveSettings failed: %v", err)
	}

	second := config.Default()
	second.SetDebug(true)
	second.WarnAfterMs = 2500
	if err := mgr.SaveSettings(&second); err != nil {
		t.Fatalf("second SaveSettings failed: %v", err)
	}

	var loaded config.Settings
	if err := mgr.LoadSettings(&loaded); err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if !loaded.Debug() || loaded.WarnAfterMs != 2500 {
		t.Errorf("overwrite not visible: %+v", loaded)
	}
}

func TestVersionMismatchWipes(t *testing.T) {
	blockDev := tinyfs.NewMemoryDevice(256, 4096, 64)

	mgr, err := New(blockDev, true)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	// Write settings, then doctor the stored version by writing the raw
	// bytes back with a bumped version field.
	s := config.Default()
	if err := mgr.SaveSettings(&s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	doctored := s
	doctored.Version = config.CurrentVersion + 1
	data, _ := doctored.MarshalBinary()
	if err := mgr.atomicWrite(settingsFile, data); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}
	mgr.Close()

	// Remount: the stale settings must be gone.
	mgr, err = New(blockDev, false)
	if err != nil {
		t.Fatalf("remount failed: %v", err)
	}
	defer mgr.Close()

	var loaded config.Settings
	if err := mgr.LoadSettings(&loaded); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after version wipe, got %v", err)
	}
}

func TestWipe(t *testing.T) {
	mgr, _ := newTestStorage(t)
	defer mgr.Close()

	s := config.Default()
	if err := mgr.SaveSettings(&s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if err := mgr.Wipe(); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}

	var loaded config.Settings
	if err := mgr.LoadSettings(&loaded); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after wipe, got %v", err)
	}
}
