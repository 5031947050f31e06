//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnableAutostart writes {config}/autostart/{slug}.desktop.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := loginItemFor(appName)
	if err == nil {
		item, err = item.withExec(execPath)
	}
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	dir, err := service.autostartDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, item.desktopFileName()), []byte(item.desktopEntry()), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

// DisableAutostart removes the desktop entry; a missing entry is not an error.
func (service *platformService) DisableAutostart(appName string) error {
	item, err := loginItemFor(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	dir, err := service.autostartDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(filepath.Join(dir, item.desktopFileName())); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) autostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
