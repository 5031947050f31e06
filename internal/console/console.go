// Package console renders a breathing session as terminal lines.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"breathflow/internal/core/breath"
	"breathflow/internal/storage"
)

const barWidth = 24

var (
	inhaleColor = lipgloss.AdaptiveColor{Light: "#2E7D6B", Dark: "#6FD3B8"}
	exhaleColor = lipgloss.AdaptiveColor{Light: "#3D5A99", Dark: "#8FAEEA"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#707070", Dark: "#9A9A9A"}
)

// Sink prints session events to a writer. Tick lines rewrite themselves with
// a carriage return.
type Sink struct {
	mu     sync.Mutex
	out    io.Writer
	onLine bool

	title  lipgloss.Style
	inhale lipgloss.Style
	exhale lipgloss.Style
	muted  lipgloss.Style
	box    lipgloss.Style
}

var _ breath.SessionEventSink = (*Sink)(nil)

// New creates a Sink. Colors follow the color profile of out.
func New(out io.Writer) *Sink {
	renderer := lipgloss.NewRenderer(out)
	return &Sink{
		out:    out,
		title:  renderer.NewStyle().Bold(true),
		inhale: renderer.NewStyle().Foreground(inhaleColor).Bold(true),
		exhale: renderer.NewStyle().Foreground(exhaleColor).Bold(true),
		muted:  renderer.NewStyle().Foreground(mutedColor),
		box: renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inhaleColor).
			Padding(0, 2),
	}
}

// OnCountdownTick prints the countdown.
func (sink *Sink) OnCountdownTick(secondsLeft int) {
	sink.line(fmt.Sprintf("%s %d", sink.title.Render("Get ready"), secondsLeft))
	if secondsLeft == 1 {
		sink.line(sink.muted.Render("First breath: Inhale"))
	}
}

// OnPhaseStart prints the phase banner.
func (sink *Sink) OnPhaseStart(start breath.PhaseStart) {
	breathNumber := start.TotalBreaths - start.BreathsRemaining + 1
	sink.line(fmt.Sprintf("%s %s",
		sink.phaseStyle(start.Phase).Render(fmt.Sprintf("%-7s", start.Phase.Title())),
		sink.muted.Render(fmt.Sprintf("breath %d/%d · %d left", breathNumber, start.TotalBreaths, start.BreathsRemaining)),
	))
}

// OnPhaseTick redraws the progress bar in place.
func (sink *Sink) OnPhaseTick(tick breath.PhaseTick) {
	fill := tick.Phase.DisplayFill(tick.Fill)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	_, _ = fmt.Fprintf(sink.out, "\r  %s %2ds", sink.phaseStyle(tick.Phase).Render(Bar(fill, barWidth)), tick.SecondsRemaining)
	sink.onLine = true
}

func (sink *Sink) OnPause() {
	sink.line(sink.title.Render("Paused") + " " + sink.muted.Render("When you resume, it will start on inhale"))
}

func (sink *Sink) OnResume() {
	sink.line(sink.title.Render("Resumed"))
}

// OnSessionCompleted prints the summary.
func (sink *Sink) OnSessionCompleted(summary breath.Summary) {
	body := fmt.Sprintf("%s\n%s · %d min · %d breaths",
		sink.title.Render("Session Complete"),
		summary.PatternName,
		summary.TotalSeconds/60,
		summary.TotalBreaths,
	)
	sink.line(sink.box.Render(body))
}

func (sink *Sink) OnSessionCancelled() {
	sink.line(sink.muted.Render("Session stopped."))
}

// Stats prints the streak and total after a recorded completion.
func (sink *Sink) Stats(stats storage.UserStats) {
	noun := "days"
	if stats.CurrentStreak == 1 {
		noun = "day"
	}
	sink.line(fmt.Sprintf("%s %d %s   %s %s",
		sink.muted.Render("Streak"), stats.CurrentStreak, noun,
		sink.muted.Render("Total"), stats.FormatTotal(),
	))
}

// Bar renders fill in [0, 1] as a fixed-width bar.
func Bar(fill float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fill < 0 || fill != fill {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	filled := int(fill*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (sink *Sink) phaseStyle(phase breath.Phase) lipgloss.Style {
	if phase == breath.PhaseExhale {
		return sink.exhale
	}
	return sink.inhale
}

func (sink *Sink) line(text string) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.onLine {
		_, _ = fmt.Fprintln(sink.out)
		sink.onLine = false
	}
	_, _ = fmt.Fprintln(sink.out, text)
}
