//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnableAutostart writes ~/Library/LaunchAgents/io.breathflow.{slug}.plist.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := loginItemFor(appName)
	if err == nil {
		item, err = item.withExec(execPath)
	}
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	plistPath, err := launchAgentPath(item)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(plistPath, []byte(item.launchAgentPlist()), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

// DisableAutostart removes the LaunchAgent; a missing plist is not an error.
func (service *platformService) DisableAutostart(appName string) error {
	item, err := loginItemFor(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	plistPath, err := launchAgentPath(item)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func launchAgentPath(item loginItem) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", item.launchAgentLabel()+".plist"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}
