// Package cue turns session events into audible cues.
package cue

import (
	"fmt"
	"io"
	"sync"

	"breathflow/internal/core/breath"
)

// Player plays session sounds. Implementations must not block.
type Player interface {
	Inhale()
	Exhale()
	Completion()
	StartKeepAlive()
	StopKeepAlive()
}

// Sink adapts controller events to a Player.
type Sink struct {
	mu         sync.Mutex
	player     Player
	muted      bool
	breathing  bool
	background bool
	keepAlive  bool
}

var _ breath.SessionEventSink = (*Sink)(nil)

// NewSink creates a Sink. A muted sink still manages keep-alive.
func NewSink(player Player, muted bool) *Sink {
	return &Sink{player: player, muted: muted}
}

// SetMuted toggles inhale, exhale and completion cues.
func (sink *Sink) SetMuted(muted bool) {
	sink.mu.Lock()
	sink.muted = muted
	sink.mu.Unlock()
}

// SetBackground reports whether the session window is hidden. Keep-alive
// runs only while hidden and actively breathing.
func (sink *Sink) SetBackground(hidden bool) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.background = hidden
	sink.syncKeepAliveLocked()
}

func (sink *Sink) OnCountdownTick(int) {}

// OnPhaseStart plays the inhale or exhale cue unless muted.
func (sink *Sink) OnPhaseStart(start breath.PhaseStart) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.breathing = true
	sink.syncKeepAliveLocked()
	if sink.muted {
		return
	}
	if start.Phase == breath.PhaseInhale {
		sink.player.Inhale()
		return
	}
	sink.player.Exhale()
}

func (sink *Sink) OnPhaseTick(breath.PhaseTick) {}

// OnPause releases the background keep-alive.
func (sink *Sink) OnPause() {
	sink.stop()
}

func (sink *Sink) OnResume() {}

// OnSessionCompleted plays the completion cue.
func (sink *Sink) OnSessionCompleted(breath.Summary) {
	sink.stop()
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if !sink.muted {
		sink.player.Completion()
	}
}

// OnSessionCancelled releases the background keep-alive.
func (sink *Sink) OnSessionCancelled() {
	sink.stop()
}

func (sink *Sink) stop() {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.breathing = false
	sink.syncKeepAliveLocked()
}

func (sink *Sink) syncKeepAliveLocked() {
	want := sink.breathing && sink.background
	if want == sink.keepAlive {
		return
	}
	sink.keepAlive = want
	if want {
		sink.player.StartKeepAlive()
		return
	}
	sink.player.StopKeepAlive()
}

// BellPlayer rings the terminal bell. Inhale rings once, exhale twice and
// completion three times.
type BellPlayer struct {
	mu        sync.Mutex
	out       io.Writer
	keepAlive bool
}

// NewBellPlayer writes bells to out.
func NewBellPlayer(out io.Writer) *BellPlayer {
	return &BellPlayer{out: out}
}

func (player *BellPlayer) Inhale()     { player.ring(1) }
func (player *BellPlayer) Exhale()     { player.ring(2) }
func (player *BellPlayer) Completion() { player.ring(3) }

func (player *BellPlayer) StartKeepAlive() {
	player.mu.Lock()
	player.keepAlive = true
	player.mu.Unlock()
}

func (player *BellPlayer) StopKeepAlive() {
	player.mu.Lock()
	player.keepAlive = false
	player.mu.Unlock()
}

// KeepAlive reports whether keep-alive is active.
func (player *BellPlayer) KeepAlive() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.keepAlive
}

func (player *BellPlayer) ring(times int) {
	player.mu.Lock()
	defer player.mu.Unlock()
	for i := 0; i < times; i++ {
		_, _ = fmt.Fprint(player.out, "\a")
	}
}

// NopPlayer plays nothing.
type NopPlayer struct{}

func (NopPlayer) Inhale()         {}
func (NopPlayer) Exhale()         {}
func (NopPlayer) Completion()     {}
func (NopPlayer) StartKeepAlive() {}
func (NopPlayer) StopKeepAlive()  {}
