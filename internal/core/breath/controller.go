// Package breath implements the guided-breathing session state machine.
//
// A Controller is confined to its scheduler's loop: Start, Pause, Resume and
// Cancel must be called from loop callbacks (or via Loop.Do). Snapshot may be
// called from any goroutine.
package breath

import (
	"errors"
	"sync"
	"time"

	"breathflow/internal/core/model"
	"breathflow/internal/core/scheduler"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotRunning is returned when a control does not apply to the current state.
	ErrNotRunning = errors.New("session not in a controllable state")
)

// Snapshot is a point-in-time copy of the session run state.
type Snapshot struct {
	State                 State
	Phase                 Phase
	CountdownValue        int
	BreathsRemaining      int
	TotalBreaths          int
	PhaseFill             float64
	PhaseSecondsRemaining int
	PhaseDuration         float64
	IsPaused              bool
}

// Progress returns the completed share of breaths.
func (snapshot Snapshot) Progress() float64 {
	return model.BreathProgress(snapshot.TotalBreaths, snapshot.BreathsRemaining)
}

// Controller drives one breathing session from countdown to completion.
// A controller is single use; create a new one per session.
type Controller struct {
	mu        sync.Mutex
	config    model.SessionConfig
	plan      model.SessionPlan
	scheduler scheduler.Scheduler
	sink      SessionEventSink

	state            State
	countdown        int
	phase            Phase
	clock            *PhaseClock
	lastElapsed      float64
	breathsRemaining int
	phaseFill        float64
	phaseSeconds     int
	stopDriver       scheduler.Cancel
	startedAt        time.Time

	outbox      []func(SessionEventSink)
	dispatching bool
}

// New validates config and creates an idle controller. No timer starts
// until Start is called.
func New(config model.SessionConfig, sched scheduler.Scheduler, sink SessionEventSink) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.WithDefaults()
	plan, err := model.ComputePlan(config.Pattern, config.Duration.TotalSeconds())
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	return &Controller{
		config:           config,
		plan:             plan,
		scheduler:        sched,
		sink:             sink,
		state:            StateIdle,
		phase:            PhaseInhale,
		breathsRemaining: plan.TotalBreaths,
	}, nil
}

// Plan returns the session plan.
func (controller *Controller) Plan() model.SessionPlan {
	return controller.plan
}

// State returns the current state.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// Start begins the countdown.
func (controller *Controller) Start() error {
	controller.mu.Lock()
	if controller.state != StateIdle {
		controller.mu.Unlock()
		return ErrAlreadyStarted
	}
	controller.state = StateCountdown
	controller.countdown = controller.config.CountdownTicks
	value := controller.countdown
	controller.queueLocked(func(sink SessionEventSink) { sink.OnCountdownTick(value) })
	controller.replaceDriverLocked(controller.countdownTick)
	controller.mu.Unlock()

	controller.flush()
	return nil
}

// Pause stops the active phase. Only valid while breathing.
func (controller *Controller) Pause() error {
	controller.mu.Lock()
	if controller.dispatching {
		controller.mu.Unlock()
		controller.scheduler.Post(func() { _ = controller.Pause() })
		return nil
	}
	if controller.state != StateBreathing {
		controller.mu.Unlock()
		return ErrNotRunning
	}
	controller.stopDriverLocked()
	controller.clock = nil
	controller.phaseFill = 0
	controller.state = StatePaused
	controller.queueLocked(func(sink SessionEventSink) { sink.OnPause() })
	controller.mu.Unlock()

	controller.flush()
	return nil
}

// Resume restarts breathing on an inhale. The breath count is kept.
func (controller *Controller) Resume() error {
	controller.mu.Lock()
	if controller.dispatching {
		controller.mu.Unlock()
		controller.scheduler.Post(func() { _ = controller.Resume() })
		return nil
	}
	if controller.state != StatePaused {
		controller.mu.Unlock()
		return ErrNotRunning
	}
	controller.state = StateBreathing
	controller.queueLocked(func(sink SessionEventSink) { sink.OnResume() })
	controller.enterPhaseLocked(PhaseInhale, controller.scheduler.Now())
	controller.mu.Unlock()

	controller.flush()
	return nil
}

// TogglePause pauses a running session or resumes a paused one.
func (controller *Controller) TogglePause() error {
	if controller.State() == StatePaused {
		return controller.Resume()
	}
	return controller.Pause()
}

// Cancel ends the session without completing it. Cancelling an idle
// controller disposes of it silently; cancelling a finished one is a no-op.
func (controller *Controller) Cancel() {
	controller.mu.Lock()
	if controller.dispatching {
		controller.mu.Unlock()
		controller.scheduler.Post(controller.Cancel)
		return
	}
	switch controller.state {
	case StateCompleted, StateCancelled:
		controller.mu.Unlock()
		return
	case StateIdle:
		controller.state = StateCancelled
		controller.mu.Unlock()
		return
	}
	controller.stopDriverLocked()
	controller.clock = nil
	controller.state = StateCancelled
	controller.queueLocked(func(sink SessionEventSink) { sink.OnSessionCancelled() })
	controller.mu.Unlock()

	controller.flush()
}

// Snapshot returns the current run state with the fill recomputed for now.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	fill := controller.phaseFill
	if controller.state == StateBreathing && controller.clock != nil {
		now := controller.scheduler.Now()
		if controller.clock.Elapsed(now) >= controller.lastElapsed {
			fill = controller.phase.DisplayFill(controller.clock.Fill(now))
		}
	}
	duration := 0.0
	if controller.clock != nil {
		duration = controller.clock.Duration()
	}

	return Snapshot{
		State:                 controller.state,
		Phase:                 controller.phase,
		CountdownValue:        controller.countdown,
		BreathsRemaining:      controller.breathsRemaining,
		TotalBreaths:          controller.plan.TotalBreaths,
		PhaseFill:             fill,
		PhaseSecondsRemaining: controller.phaseSeconds,
		PhaseDuration:         duration,
		IsPaused:              controller.state == StatePaused,
	}
}

func (controller *Controller) countdownTick(now time.Time) {
	controller.mu.Lock()
	if controller.state != StateCountdown {
		controller.mu.Unlock()
		return
	}
	if controller.countdown > 1 {
		controller.countdown--
		value := controller.countdown
		controller.queueLocked(func(sink SessionEventSink) { sink.OnCountdownTick(value) })
	} else {
		controller.stopDriverLocked()
		controller.beginBreathingLocked(now)
	}
	controller.mu.Unlock()

	controller.flush()
}

func (controller *Controller) phaseTick(now time.Time) {
	controller.mu.Lock()
	if controller.state != StateBreathing || controller.clock == nil {
		controller.mu.Unlock()
		return
	}

	clock := controller.clock
	if clock.Elapsed(now) < controller.lastElapsed {
		clock.rebase(now, controller.lastElapsed)
	}
	controller.lastElapsed = clock.Elapsed(now)

	fill := clock.Fill(now)
	controller.phaseFill = controller.phase.DisplayFill(fill)
	controller.phaseSeconds = clock.Remaining(now)
	tick := PhaseTick{
		Phase:            controller.phase,
		Fill:             fill,
		SecondsRemaining: controller.phaseSeconds,
	}
	controller.queueLocked(func(sink SessionEventSink) { sink.OnPhaseTick(tick) })

	if clock.IsComplete(now) {
		controller.advanceLocked(now)
	}
	controller.mu.Unlock()

	controller.flush()
}

func (controller *Controller) beginBreathingLocked(now time.Time) {
	controller.startedAt = now
	controller.breathsRemaining = controller.plan.TotalBreaths
	controller.state = StateBreathing
	if controller.plan.IsDegenerate() {
		controller.completeLocked(now)
		return
	}
	controller.enterPhaseLocked(PhaseInhale, now)
}

func (controller *Controller) advanceLocked(now time.Time) {
	if controller.phase == PhaseInhale {
		controller.enterPhaseLocked(PhaseExhale, now)
		return
	}
	controller.breathsRemaining--
	if controller.breathsRemaining <= 0 {
		controller.breathsRemaining = 0
		controller.completeLocked(now)
		return
	}
	controller.enterPhaseLocked(PhaseInhale, now)
}

// enterPhaseLocked is the only place a phase clock and phase driver are created.
func (controller *Controller) enterPhaseLocked(phase Phase, now time.Time) {
	controller.stopDriverLocked()

	duration := controller.config.Pattern.InhaleSeconds
	if phase == PhaseExhale {
		duration = controller.config.Pattern.ExhaleSeconds
	}
	controller.phase = phase
	controller.clock = StartPhaseClock(duration, now)
	controller.lastElapsed = 0
	controller.phaseFill = phase.DisplayFill(0)
	controller.phaseSeconds = controller.clock.Remaining(now)

	start := PhaseStart{
		Phase:            phase,
		DurationSeconds:  duration,
		BreathsRemaining: controller.breathsRemaining,
		TotalBreaths:     controller.plan.TotalBreaths,
	}
	controller.queueLocked(func(sink SessionEventSink) { sink.OnPhaseStart(start) })
	controller.replaceDriverLocked(controller.phaseTick)
}

func (controller *Controller) completeLocked(now time.Time) {
	controller.stopDriverLocked()
	controller.clock = nil
	controller.state = StateCompleted
	controller.phaseSeconds = 0

	summary := Summary{
		PatternID:    controller.config.Pattern.ID,
		PatternName:  controller.config.Pattern.DisplayName,
		TotalSeconds: controller.plan.TotalSeconds,
		TotalBreaths: controller.plan.TotalBreaths,
		StartedAt:    controller.startedAt,
		EndedAt:      now,
	}
	controller.queueLocked(func(sink SessionEventSink) { sink.OnSessionCompleted(summary) })
}

func (controller *Controller) replaceDriverLocked(tick func(time.Time)) {
	controller.stopDriverLocked()
	controller.stopDriver = controller.scheduler.Every(controller.config.TickInterval, tick)
}

func (controller *Controller) stopDriverLocked() {
	if controller.stopDriver != nil {
		controller.stopDriver()
		controller.stopDriver = nil
	}
}

func (controller *Controller) queueLocked(event func(SessionEventSink)) {
	controller.outbox = append(controller.outbox, event)
}

// flush delivers queued events in order, outside the lock.
func (controller *Controller) flush() {
	controller.mu.Lock()
	if controller.dispatching {
		controller.mu.Unlock()
		return
	}
	controller.dispatching = true
	for len(controller.outbox) > 0 {
		events := controller.outbox
		controller.outbox = nil
		controller.mu.Unlock()
		for _, event := range events {
			event(controller.sink)
		}
		controller.mu.Lock()
	}
	controller.dispatching = false
	controller.mu.Unlock()
}
