package breath

import "sync"

// NopSink ignores every event. Embed it to implement only some callbacks.
type NopSink struct{}

func (NopSink) OnCountdownTick(int)        {}
func (NopSink) OnPhaseStart(PhaseStart)    {}
func (NopSink) OnPhaseTick(PhaseTick)      {}
func (NopSink) OnPause()                   {}
func (NopSink) OnResume()                  {}
func (NopSink) OnSessionCompleted(Summary) {}
func (NopSink) OnSessionCancelled()        {}

// MultiSink forwards every event to each sink in order.
type MultiSink []SessionEventSink

// OnCountdownTick forwards the countdown value.
func (sinks MultiSink) OnCountdownTick(secondsLeft int) {
	for _, sink := range sinks {
		sink.OnCountdownTick(secondsLeft)
	}
}

// OnPhaseStart forwards the phase start.
func (sinks MultiSink) OnPhaseStart(start PhaseStart) {
	for _, sink := range sinks {
		sink.OnPhaseStart(start)
	}
}

// OnPhaseTick forwards the tick.
func (sinks MultiSink) OnPhaseTick(tick PhaseTick) {
	for _, sink := range sinks {
		sink.OnPhaseTick(tick)
	}
}

// OnPause forwards the pause.
func (sinks MultiSink) OnPause() {
	for _, sink := range sinks {
		sink.OnPause()
	}
}

// OnResume forwards the resume.
func (sinks MultiSink) OnResume() {
	for _, sink := range sinks {
		sink.OnResume()
	}
}

// OnSessionCompleted forwards the summary.
func (sinks MultiSink) OnSessionCompleted(summary Summary) {
	for _, sink := range sinks {
		sink.OnSessionCompleted(summary)
	}
}

// OnSessionCancelled forwards the cancellation.
func (sinks MultiSink) OnSessionCancelled() {
	for _, sink := range sinks {
		sink.OnSessionCancelled()
	}
}

// ChannelSink converts callbacks into Event values for channel observers.
// Sends never block; a full subscriber misses events. Subscriber channels
// are closed after the terminal event.
type ChannelSink struct {
	mu     sync.Mutex
	events []chan Event
	closed bool
}

// NewChannelSink creates a sink with no subscribers.
func NewChannelSink() *ChannelSink {
	return &ChannelSink{}
}

// Subscribe registers a new observer channel.
func (sink *ChannelSink) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.closed {
		close(ch)
		return ch
	}
	sink.events = append(sink.events, ch)
	return ch
}

// OnCountdownTick emits EventCountdownTick.
func (sink *ChannelSink) OnCountdownTick(secondsLeft int) {
	sink.emit(Event{Type: EventCountdownTick, CountdownValue: secondsLeft})
}

// OnPhaseStart emits EventPhaseStart.
func (sink *ChannelSink) OnPhaseStart(start PhaseStart) {
	sink.emit(Event{
		Type:             EventPhaseStart,
		Phase:            start.Phase,
		DurationSeconds:  start.DurationSeconds,
		BreathsRemaining: start.BreathsRemaining,
		TotalBreaths:     start.TotalBreaths,
	})
}

// OnPhaseTick emits EventPhaseTick with the fill and seconds left.
func (sink *ChannelSink) OnPhaseTick(tick PhaseTick) {
	sink.emit(Event{
		Type:             EventPhaseTick,
		Phase:            tick.Phase,
		Fill:             tick.Fill,
		SecondsRemaining: tick.SecondsRemaining,
	})
}

// OnPause emits EventPause.
func (sink *ChannelSink) OnPause() {
	sink.emit(Event{Type: EventPause})
}

// OnResume emits EventResume.
func (sink *ChannelSink) OnResume() {
	sink.emit(Event{Type: EventResume})
}

// OnSessionCompleted emits EventCompleted and closes every subscriber.
func (sink *ChannelSink) OnSessionCompleted(summary Summary) {
	sink.emit(Event{
		Type:         EventCompleted,
		TotalBreaths: summary.TotalBreaths,
		Summary:      &summary,
	})
	sink.close()
}

// OnSessionCancelled emits EventCancelled and closes every subscriber.
func (sink *ChannelSink) OnSessionCancelled() {
	sink.emit(Event{Type: EventCancelled})
	sink.close()
}

func (sink *ChannelSink) emit(event Event) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.closed {
		return
	}
	for _, ch := range sink.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (sink *ChannelSink) close() {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.closed {
		return
	}
	sink.closed = true
	for _, ch := range sink.events {
		close(ch)
	}
	sink.events = nil
}
