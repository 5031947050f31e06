package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoginItem is returned when a login item has no name or executable.
var ErrInvalidLoginItem = errors.New("invalid login item")

const (
	loginItemComment  = "Guided breathing sessions"
	launchAgentDomain = "io.breathflow."
	registryRunKey    = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`
)

// loginItem describes the launch-at-login registration for BreathFlow.
// ID is the slug used for file names, labels and registry values.
type loginItem struct {
	Name string
	ID   string
	Exec string
}

func loginItemFor(appName string) (loginItem, error) {
	name := strings.TrimSpace(appName)
	if name == "" {
		return loginItem{}, fmt.Errorf("app name is empty: %w", ErrInvalidLoginItem)
	}
	return loginItem{Name: name, ID: slug(name)}, nil
}

func (item loginItem) withExec(execPath string) (loginItem, error) {
	if strings.TrimSpace(execPath) == "" {
		return loginItem{}, fmt.Errorf("exec path is empty: %w", ErrInvalidLoginItem)
	}
	item.Exec = execPath
	return item, nil
}

func (item loginItem) desktopFileName() string {
	return item.ID + ".desktop"
}

// desktopEntry renders an XDG autostart entry.
func (item loginItem) desktopEntry() string {
	execLine := item.Exec
	if strings.ContainsAny(execLine, " \t") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	entry.WriteString("Type=Application\n")
	fmt.Fprintf(&entry, "Name=%s\n", item.Name)
	fmt.Fprintf(&entry, "Comment=%s\n", loginItemComment)
	fmt.Fprintf(&entry, "Exec=%s\n", execLine)
	fmt.Fprintf(&entry, "Icon=%s\n", item.ID)
	entry.WriteString("Categories=Utility;\n")
	entry.WriteString("X-GNOME-Autostart-enabled=true\n")
	entry.WriteString("Terminal=false\n")
	return entry.String()
}

func (item loginItem) launchAgentLabel() string {
	return launchAgentDomain + item.ID
}

// launchAgentPlist renders a per-user LaunchAgent that starts the tray app
// at login and does not restart it after Quit.
func (item loginItem) launchAgentPlist() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<false/>
	<key>ProcessType</key>
	<string>Interactive</string>
</dict>
</plist>
`, xmlEscape(item.launchAgentLabel()), xmlEscape(item.Exec))
}

func (item loginItem) regAddArgs() []string {
	return []string{"add", registryRunKey, "/v", item.ID, "/t", "REG_SZ", "/d", quoteWindowsPath(item.Exec), "/f"}
}

func (item loginItem) regQueryArgs() []string {
	return []string{"query", registryRunKey, "/v", item.ID}
}

func (item loginItem) regDeleteArgs() []string {
	return []string{"delete", registryRunKey, "/v", item.ID, "/f"}
}

func xmlEscape(value string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	).Replace(value)
}

func quoteWindowsPath(execPath string) string {
	return `"` + strings.Trim(execPath, `"`) + `"`
}
