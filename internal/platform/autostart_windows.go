//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// EnableAutostart sets the {slug} value under the per-user Run key.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := loginItemFor(appName)
	if err == nil {
		item, err = item.withExec(execPath)
	}
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if output, err := exec.Command("reg", item.regAddArgs()...).CombinedOutput(); err != nil {
		return fmt.Errorf("enable autostart: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// DisableAutostart deletes the Run value; a missing value is not an error.
func (service *platformService) DisableAutostart(appName string) error {
	item, err := loginItemFor(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := exec.Command("reg", item.regQueryArgs()...).Run(); err != nil {
		return nil
	}
	if output, err := exec.Command("reg", item.regDeleteArgs()...).CombinedOutput(); err != nil {
		return fmt.Errorf("disable autostart: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
