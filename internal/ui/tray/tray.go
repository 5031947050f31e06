package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"breathflow/internal/core/breath"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnStop        func()
	OnShowSession func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. Call its methods on the fyne thread.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	showItem   *fyne.MenuItem
	statsItem  *fyne.MenuItem
	state      breath.State
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		state:     breath.StateIdle,
		status:    "Ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.statsItem = fyne.NewMenuItem("", nil)
	manager.statsItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start session", invoke(&manager.callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(&manager.callbacks.OnTogglePause))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(&manager.callbacks.OnStop))
	manager.showItem = fyne.NewMenuItem("Show session", invoke(&manager.callbacks.OnShowSession))

	manager.applyState()
	manager.refreshMenu()
	return manager
}

// SetSnapshot updates the status line and menu enablement.
func (manager *Manager) SetSnapshot(snapshot breath.Snapshot) {
	status := FormatStatus(snapshot)
	if status == manager.status && snapshot.State == manager.state {
		return
	}
	manager.status = status
	manager.state = snapshot.State
	manager.applyState()
	manager.refreshMenu()
}

// SetStats updates the streak line.
func (manager *Manager) SetStats(line string) {
	manager.statsItem.Label = line
	manager.refreshMenu()
}

func (manager *Manager) applyState() {
	manager.statusItem.Label = manager.status

	active := manager.state == breath.StateCountdown ||
		manager.state == breath.StateBreathing ||
		manager.state == breath.StatePaused
	manager.startItem.Disabled = active
	manager.stopItem.Disabled = !active
	manager.showItem.Disabled = !active
	manager.pauseItem.Disabled = manager.state != breath.StateBreathing && manager.state != breath.StatePaused

	manager.pauseItem.Label = "Pause"
	if manager.state == breath.StatePaused {
		manager.pauseItem.Label = "Resume"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{manager.statusItem}
	if manager.statsItem.Label != "" {
		items = append(items, manager.statsItem)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		manager.showItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu("BreathFlow", items...))
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
