package breath

import "time"

// State represents the current session mode.
type State string

const (
	StateIdle      State = "idle"
	StateCountdown State = "countdown"
	StateBreathing State = "breathing"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// IsTerminal reports whether no further events can follow.
func (state State) IsTerminal() bool {
	return state == StateCompleted || state == StateCancelled
}

// Phase is one timed half of a breath cycle.
type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseExhale Phase = "exhale"
)

// Title returns the phase name for display.
func (phase Phase) Title() string {
	switch phase {
	case PhaseInhale:
		return "Inhale"
	case PhaseExhale:
		return "Exhale"
	default:
		return ""
	}
}

// DisplayFill maps a clock fill fraction to the visual fill: inhale fills
// up, exhale empties.
func (phase Phase) DisplayFill(fill float64) float64 {
	if phase == PhaseExhale {
		return 1 - fill
	}
	return fill
}

// PhaseStart is delivered when a phase begins.
type PhaseStart struct {
	Phase            Phase
	DurationSeconds  float64
	BreathsRemaining int
	TotalBreaths     int
}

// PhaseTick is delivered once per driver tick while breathing.
type PhaseTick struct {
	Phase            Phase
	Fill             float64
	SecondsRemaining int
}

// Summary describes a completed session.
type Summary struct {
	PatternID    string
	PatternName  string
	TotalSeconds int
	TotalBreaths int
	StartedAt    time.Time
	EndedAt      time.Time
}

// SessionEventSink receives controller notifications on the scheduler loop.
// Implementations must not block; mutations they trigger on the controller
// run on a later loop turn.
type SessionEventSink interface {
	OnCountdownTick(secondsLeft int)
	OnPhaseStart(start PhaseStart)
	OnPhaseTick(tick PhaseTick)
	OnPause()
	OnResume()
	OnSessionCompleted(summary Summary)
	OnSessionCancelled()
}

// EventType defines the type of session event.
type EventType string

const (
	EventCountdownTick EventType = "countdown_tick"
	EventPhaseStart    EventType = "phase_start"
	EventPhaseTick     EventType = "phase_tick"
	EventPause         EventType = "pause"
	EventResume        EventType = "resume"
	EventCompleted     EventType = "completed"
	EventCancelled     EventType = "cancelled"
)

// Event is the channel form of a sink callback.
type Event struct {
	Type             EventType
	Phase            Phase
	CountdownValue   int
	DurationSeconds  float64
	Fill             float64
	SecondsRemaining int
	BreathsRemaining int
	TotalBreaths     int
	Summary          *Summary
}
