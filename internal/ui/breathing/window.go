// Package breathing implements the session window: countdown, breathing
// circle and completion views.
package breathing

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"breathflow/internal/core/breath"
	"breathflow/internal/storage"
	"breathflow/internal/ui/animation"
)

var (
	inhaleColor = color.NRGBA{R: 111, G: 211, B: 184, A: 255}
	exhaleColor = color.NRGBA{R: 143, G: 174, B: 234, A: 255}
	ringColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 60}
	textColor   = color.NRGBA{R: 240, G: 244, B: 248, A: 255}
	mutedColor  = color.NRGBA{R: 170, G: 180, B: 190, A: 255}
	background  = color.NRGBA{R: 18, G: 28, B: 38, A: 255}
)

// Callbacks defines session window actions.
type Callbacks struct {
	OnTogglePause func()
	OnStop        func()
	OnDone        func()
	// OnVisibility reports whether the window is hidden while a session runs.
	OnVisibility func(hidden bool)
}

// Window manages the session UI. Sink methods may be called from any
// goroutine; they marshal onto the fyne thread.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	engine    *animation.Engine
	cancel    context.CancelFunc

	countdownView  *fyne.Container
	breathingView  *fyne.Container
	completionView *fyne.Container

	countdownValue *canvas.Text
	patternLabel   *canvas.Text

	ring        *canvas.Circle
	fill        *canvas.Circle
	circle      *circleLayout
	phaseLabel  *canvas.Text
	secondsText *canvas.Text
	breathsText *canvas.Text
	resumeHint  *canvas.Text
	pauseButton *widget.Button

	summaryText *canvas.Text
	streakText  *canvas.Text
	totalText   *canvas.Text
}

var _ breath.SessionEventSink = (*Window)(nil)

// New creates the session window. Call on the fyne thread.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("BreathFlow")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	session := &Window{window: window, callbacks: callbacks}
	session.buildCountdown()
	session.buildBreathing()
	session.buildCompletion()

	root := container.NewStack(
		canvas.NewRectangle(background),
		session.countdownView,
		session.breathingView,
		session.completionView,
	)
	window.SetContent(root)
	window.Resize(fyne.NewSize(420, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
		if session.callbacks.OnVisibility != nil {
			session.callbacks.OnVisibility(true)
		}
	})

	session.showView(session.countdownView)
	return session
}

// Attach binds a running controller: the circle animates from its snapshots.
func (session *Window) Attach(snapshot func() breath.Snapshot, patternLabel string) {
	session.detach()
	session.patternLabel.Text = patternLabel
	session.patternLabel.Refresh()

	session.engine = animation.New(animation.DefaultConfig(), snapshot, func(frame animation.Frame) {
		fyne.Do(func() { session.renderFrame(frame) })
	})
	ctx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	session.engine.Start(ctx)
}

// Show raises the window.
func (session *Window) Show() {
	session.window.Show()
	session.window.RequestFocus()
	if session.callbacks.OnVisibility != nil {
		session.callbacks.OnVisibility(false)
	}
}

// Close stops the animation and hides the window.
func (session *Window) Close() {
	session.detach()
	session.window.Hide()
}

// SetStats fills the completion view once the recorder has saved.
func (session *Window) SetStats(stats storage.UserStats) {
	fyne.Do(func() {
		session.streakText.Text = streakLine(stats)
		session.totalText.Text = "Total time: " + stats.FormatTotal()
		session.streakText.Refresh()
		session.totalText.Refresh()
	})
}

// OnCountdownTick shows the countdown view.
func (session *Window) OnCountdownTick(secondsLeft int) {
	fyne.Do(func() {
		session.countdownValue.Text = fmt.Sprintf("%d", secondsLeft)
		session.countdownValue.Refresh()
		session.showView(session.countdownView)
	})
}

// OnPhaseStart switches to the breathing view for the new phase.
func (session *Window) OnPhaseStart(start breath.PhaseStart) {
	fyne.Do(func() {
		session.phaseLabel.Text = start.Phase.Title()
		session.breathsText.Text = fmt.Sprintf("%d breaths left", start.BreathsRemaining)
		session.fill.FillColor = phaseColor(start.Phase)
		session.resumeHint.Hide()
		session.pauseButton.SetText("Pause")
		session.phaseLabel.Refresh()
		session.breathsText.Refresh()
		session.fill.Refresh()
		session.showView(session.breathingView)
	})
}

// OnPhaseTick updates the seconds label.
func (session *Window) OnPhaseTick(tick breath.PhaseTick) {
	fyne.Do(func() {
		session.secondsText.Text = fmt.Sprintf("%d", tick.SecondsRemaining)
		session.secondsText.Refresh()
	})
}

// OnPause shows the paused state and resume hint.
func (session *Window) OnPause() {
	fyne.Do(func() {
		session.phaseLabel.Text = "Paused"
		session.secondsText.Text = ""
		session.pauseButton.SetText("Resume")
		session.resumeHint.Show()
		session.phaseLabel.Refresh()
		session.secondsText.Refresh()
	})
}

func (session *Window) OnResume() {}

// OnSessionCompleted shows the completion view; stats follow via SetStats.
func (session *Window) OnSessionCompleted(summary breath.Summary) {
	fyne.Do(func() {
		session.summaryText.Text = summaryLine(summary)
		session.streakText.Text = ""
		session.totalText.Text = ""
		session.summaryText.Refresh()
		session.showView(session.completionView)
		session.window.Show()
	})
}

// OnSessionCancelled closes the window.
func (session *Window) OnSessionCancelled() {
	fyne.Do(session.Close)
}

func (session *Window) buildCountdown() {
	title := newText("Get Ready", textColor, 26, true)
	session.countdownValue = newText("3", inhaleColor, 96, true)
	hint := newText("First breath: Inhale", mutedColor, 16, false)
	session.patternLabel = newText("", mutedColor, 14, false)

	session.countdownView = container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(title),
		container.NewCenter(session.countdownValue),
		container.NewCenter(hint),
		layout.NewSpacer(),
		container.NewCenter(session.patternLabel),
	)
}

func (session *Window) buildBreathing() {
	session.ring = canvas.NewCircle(color.Transparent)
	session.ring.StrokeColor = ringColor
	session.ring.StrokeWidth = 2
	session.fill = canvas.NewCircle(inhaleColor)
	session.circle = &circleLayout{scale: float32(animation.DefaultConfig().MinScale)}

	session.phaseLabel = newText("Inhale", textColor, 28, true)
	session.secondsText = newText("", textColor, 48, true)
	session.breathsText = newText("", mutedColor, 16, false)
	session.resumeHint = newText("When you resume, it will start on inhale", mutedColor, 13, false)
	session.resumeHint.Hide()

	session.pauseButton = widget.NewButton("Pause", invoke(&session.callbacks.OnTogglePause))
	stopButton := widget.NewButton("Stop", invoke(&session.callbacks.OnStop))

	circle := container.New(session.circle, session.ring, session.fill,
		container.NewCenter(container.NewVBox(
			container.NewCenter(session.phaseLabel),
			container.NewCenter(session.secondsText),
		)),
	)

	session.breathingView = container.NewBorder(
		nil,
		container.NewVBox(
			container.NewCenter(session.breathsText),
			container.NewCenter(session.resumeHint),
			container.NewHBox(layout.NewSpacer(), session.pauseButton, stopButton, layout.NewSpacer()),
		),
		nil, nil,
		circle,
	)
}

func (session *Window) buildCompletion() {
	title := newText("Session Complete", textColor, 28, true)
	session.summaryText = newText("", mutedColor, 16, false)
	session.streakText = newText("", inhaleColor, 18, true)
	session.totalText = newText("", textColor, 16, false)
	done := widget.NewButton("Done", func() {
		session.Close()
		if session.callbacks.OnDone != nil {
			session.callbacks.OnDone()
		}
	})

	session.completionView = container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(title),
		container.NewCenter(session.summaryText),
		container.NewCenter(session.streakText),
		container.NewCenter(session.totalText),
		layout.NewSpacer(),
		container.NewCenter(done),
	)
}

func (session *Window) renderFrame(frame animation.Frame) {
	session.circle.scale = float32(frame.Scale)
	session.fill.FillColor = phaseColor(frame.Phase)
	if frame.State == breath.StateBreathing {
		session.secondsText.Text = fmt.Sprintf("%d", frame.Seconds)
		session.secondsText.Refresh()
	}
	session.breathingView.Refresh()
}

func (session *Window) showView(view *fyne.Container) {
	for _, candidate := range []*fyne.Container{session.countdownView, session.breathingView, session.completionView} {
		if candidate == view {
			candidate.Show()
			continue
		}
		candidate.Hide()
	}
}

func (session *Window) detach() {
	if session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
	if session.engine != nil {
		session.engine.Stop()
		session.engine = nil
	}
}

func summaryLine(summary breath.Summary) string {
	return fmt.Sprintf("%s · %d min · %d breaths", summary.PatternName, summary.TotalSeconds/60, summary.TotalBreaths)
}

func streakLine(stats storage.UserStats) string {
	if stats.CurrentStreak == 1 {
		return "Streak: 1 day"
	}
	return fmt.Sprintf("Streak: %d days", stats.CurrentStreak)
}

func phaseColor(phase breath.Phase) color.Color {
	if phase == breath.PhaseExhale {
		return exhaleColor
	}
	return inhaleColor
}

func newText(text string, fill color.Color, size float32, bold bool) *canvas.Text {
	label := canvas.NewText(text, fill)
	label.Alignment = fyne.TextAlignCenter
	label.TextSize = size
	label.TextStyle = fyne.TextStyle{Bold: bold}
	return label
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

// circleLayout centers a full-size ring, a fill circle scaled by scale and
// the label stack on top.
type circleLayout struct {
	scale float32
}

func (circle *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	side *= 0.9

	ring := objects[0]
	ring.Resize(fyne.NewSize(side, side))
	ring.Move(fyne.NewPos((size.Width-side)/2, (size.Height-side)/2))

	inner := side * circle.scale
	fill := objects[1]
	fill.Resize(fyne.NewSize(inner, inner))
	fill.Move(fyne.NewPos((size.Width-inner)/2, (size.Height-inner)/2))

	labels := objects[2]
	labels.Resize(size)
	labels.Move(fyne.NewPos(0, 0))
}

func (circle *circleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	labels := objects[2].MinSize()
	side := labels.Width
	if labels.Height > side {
		side = labels.Height
	}
	if side < 240 {
		side = 240
	}
	return fyne.NewSize(side, side)
}
