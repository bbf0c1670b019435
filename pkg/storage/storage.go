// Package storage persists the device settings in flash using LittleFS.
// It handles atomic writes, version checking, and cleanup of temporary files.
package storage

import (
	"errors"
	"os"
	"path"
	"strings"

	"github.com/thorpej/nabu-keyboard-usb/pkg/config"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"
)

const (
	configDir    = "/config"
	settingsFile = "/config/settings.bin"
	tempSuffix   = ".tmp"
)

var (
	ErrNotFound    = errors.New("settings not found")
	ErrInvalidData = errors.New("invalid settings data")
)

// Manager handles settings persistence using LittleFS.
type Manager struct {
	fs       *littlefs.LFS
	blockDev tinyfs.BlockDevice
	mounted  bool
}

// New initializes the storage system with the given block device.
// It mounts the filesystem and performs boot-time cleanup.
// If format is true and mount fails, it will format the filesystem.
func New(blockDev tinyfs.BlockDevice, format bool) (*Manager, error) {
	lfs := littlefs.New(blockDev)

	// Conservative settings for RP2040 flash.
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 128,
	})

	err := lfs.Mount()
	if err != nil {
		if !format {
			return nil, err
		}
		if err := lfs.Format(); err != nil {
			return nil, err
		}
		if err := lfs.Mount(); err != nil {
			return nil, err
		}
	}

	m := &Manager{
		fs:       lfs,
		blockDev: blockDev,
		mounted:  true,
	}

	// Remove temp files left over from interrupted writes. Failure here is
	// not fatal; we can still operate.
	m.bootCleanup()

	// A settings file from a different format version is wiped; the device
	// falls back to defaults until the next save.
	if wipe, err := m.checkVersion(); err == nil && wipe {
		m.fs.Remove(settingsFile)
	}

	return m, nil
}

// Close unmounts the filesystem.
func (m *Manager) Close() error {
	if m.mounted {
		m.mounted = false
		return m.fs.Unmount()
	}
	return nil
}

// bootCleanup removes temporary files left over from interrupted writes.
func (m *Manager) bootCleanup() error {
	entries, err := m.readDir(configDir)
	if err != nil {
		// Config dir might not exist yet.
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, tempSuffix) {
			m.fs.Remove(path.Join(configDir, name))
		}
	}
	return nil
}

// readDir reads the directory entries at the given path.
func (m *Manager) readDir(dirPath string) ([]os.FileInfo, error) {
	f, err := m.fs.Open(dirPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !f.IsDir() {
		return nil, errors.New("not a directory")
	}

	return f.Readdir(-1)
}

// checkVersion reads the settings and checks if the version matches.
// Returns true if the settings should be wiped.
func (m *Manager) checkVersion() (bool, error) {
	var s config.Settings
	if err := m.LoadSettings(&s); err != nil {
		if err == ErrNotFound {
			// First boot; nothing to wipe.
			return false, nil
		}
		// Unreadable settings are as good as a mismatch.
		return true, nil
	}
	return s.Version != config.CurrentVersion, nil
}

// LoadSettings loads the settings from flash.
func (m *Manager) LoadSettings(s *config.Settings) error {
	f, err := m.fs.Open(settingsFile)
	if err != nil {
		if os.IsNotExist(err) ||
			strings.Contains(err.Error(), "No directory entry") {
			return ErrNotFound
		}
		return err
	}
	defer f.Close()

	buf := make([]byte, config.SettingsSize)
	n, err := f.Read(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return ErrInvalidData
	}

	return s.UnmarshalBinary(buf)
}

// SaveSettings saves the settings to flash atomically.
func (m *Manager) SaveSettings(s *config.Settings) error {
	if err := m.ensureDirs(); err != nil {
		return err
	}

	s.Version = config.CurrentVersion

	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}

	return m.atomicWrite(settingsFile, data)
}

// Wipe removes the stored settings; the device reverts to defaults on the
// next boot.
func (m *Manager) Wipe() error {
	return m.fs.Remove(settingsFile)
}

// ensureDirs creates the config directory if it doesn't exist.
func (m *Manager) ensureDirs() error {
	if err := m.fs.Mkdir(configDir, 0755); err != nil && !isExist(err) {
		return err
	}
	return nil
}

// isExist checks if an error is "already exists".
// LittleFS errors don't always match os.IsExist, so we check the message too.
func isExist(err error) bool {
	if err == nil {
		return false
	}
	if os.IsExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "already exists")
}

// atomicWrite writes data to a temporary file, syncs it, then renames.
// The original file is never left in a partially written state.
func (m *Manager) atomicWrite(filepath string, data []byte) error {
	tempPath := filepath + tempSuffix

	// Remove temp file if it exists (from an interrupted previous write).
	m.fs.Remove(tempPath)

	f, err := m.fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		m.fs.Remove(tempPath)
		return err
	}

	// Sync ensures the data hits flash before the rename.
	if syncer, ok := f.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			f.Close()
			m.fs.Remove(tempPath)
			return err
		}
	}

	if err := f.Close(); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	// Remove existing file if present (LittleFS rename doesn't replace).
	m.fs.Remove(filepath)

	if err := m.fs.Rename(tempPath, filepath); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	return nil
}
