package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"breathflow/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	exercise  *widget.Select
	duration  *widget.Select
	hint      *widget.Label
	sound     *widget.Check
	journal   *widget.Check
	login     *widget.Check
	reminder  *widget.Check
	smart     *widget.Check
	timeEntry *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("BreathFlow Settings")

	prefs := &Window{
		window:    window,
		settings:  settings,
		onSave:    onSave,
		hint:      widget.NewLabel(""),
		sound:     widget.NewCheck("Sound cues", nil),
		journal:   widget.NewCheck("Save sessions to mindful journal", nil),
		login:     widget.NewCheck("Launch at login", nil),
		timeEntry: widget.NewEntry(),
	}
	prefs.exercise = widget.NewSelect(exerciseOptions(), prefs.updateHint)
	prefs.duration = widget.NewSelect(durationOptions(), nil)
	prefs.smart = widget.NewCheck("Smart reminder (skip if already practiced today)", nil)
	prefs.reminder = widget.NewCheck("Daily reminder", func(checked bool) {
		if checked {
			prefs.smart.Enable()
			prefs.timeEntry.Enable()
			return
		}
		prefs.smart.Disable()
		prefs.timeEntry.Disable()
	})
	prefs.timeEntry.SetPlaceHolder("HH:MM")
	prefs.hint.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		widget.NewLabelWithStyle("Session", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Exercise", prefs.exercise),
			widget.NewFormItem("Duration", prefs.duration),
		),
		prefs.hint,
		prefs.sound,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.reminder,
		container.NewHBox(widget.NewLabel("Remind me at"), prefs.timeEntry),
		prefs.smart,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.journal,
		prefs.login,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(440, 480))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.exercise.SetSelected(exerciseOption(settings.Pattern()))
	prefs.duration.SetSelected(settings.SessionConfig().Duration.DisplayName())
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.journal.SetChecked(settings.JournalEnabled)
	prefs.login.SetChecked(settings.LaunchAtLogin)
	prefs.timeEntry.SetText(settings.Reminder.TimeOfDay())
	prefs.smart.SetChecked(settings.Reminder.Smart)
	prefs.reminder.SetChecked(settings.Reminder.Enabled)
	prefs.reminder.OnChanged(settings.Reminder.Enabled)
}

func (prefs *Window) updateHint(selected string) {
	for _, pattern := range model.Patterns() {
		if exerciseOption(pattern) == selected {
			prefs.hint.SetText(pattern.Description)
			return
		}
	}
	prefs.hint.SetText("")
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	for _, pattern := range model.Patterns() {
		if exerciseOption(pattern) == prefs.exercise.Selected {
			settings.ExerciseID = pattern.ID
		}
	}
	for _, duration := range model.Durations() {
		if duration.DisplayName() == prefs.duration.Selected {
			settings.Duration = duration
		}
	}

	settings.SoundEnabled = prefs.sound.Checked
	settings.JournalEnabled = prefs.journal.Checked
	settings.LaunchAtLogin = prefs.login.Checked
	settings.Reminder.Enabled = prefs.reminder.Checked
	settings.Reminder.Smart = prefs.smart.Checked
	if hour, minute, ok := ParseTimeOfDay(prefs.timeEntry.Text); ok {
		settings.Reminder.Hour = hour
		settings.Reminder.Minute = minute
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// ParseTimeOfDay parses "9:05" or "09:05".
func ParseTimeOfDay(value string) (int, int, bool) {
	hourText, minuteText, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func exerciseOption(pattern model.ExercisePattern) string {
	return fmt.Sprintf("%s (%s)", pattern.DisplayName, pattern.Label())
}

func exerciseOptions() []string {
	options := make([]string, 0, len(model.Patterns()))
	for _, pattern := range model.Patterns() {
		options = append(options, exerciseOption(pattern))
	}
	return options
}

func durationOptions() []string {
	options := make([]string, 0, len(model.Durations()))
	for _, duration := range model.Durations() {
		options = append(options, duration.DisplayName())
	}
	return options
}
