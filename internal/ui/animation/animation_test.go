package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"breathflow/internal/core/breath"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFrameFor_ScalesWithFill(t *testing.T) {
	config := DefaultConfig()

	empty := FrameFor(breath.Snapshot{State: breath.StateBreathing, Phase: breath.PhaseInhale}, config)
	require.Equal(t, config.MinScale, empty.Scale)

	full := FrameFor(breath.Snapshot{State: breath.StateBreathing, Phase: breath.PhaseExhale, PhaseFill: 1}, config)
	require.InDelta(t, config.MaxScale, full.Scale, 1e-9)

	paused := FrameFor(breath.Snapshot{State: breath.StatePaused, PhaseFill: 0.7}, config)
	require.Equal(t, 0.0, paused.Fill)
}

func TestFrameFor_ScaleMonotonicInFill(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		a := rapid.Float64Range(0, 1).Draw(r, "a")
		b := rapid.Float64Range(0, 1).Draw(r, "b")
		if a > b {
			a, b = b, a
		}
		config := DefaultConfig()
		low := FrameFor(breath.Snapshot{State: breath.StateBreathing, PhaseFill: a}, config)
		high := FrameFor(breath.Snapshot{State: breath.StateBreathing, PhaseFill: b}, config)
		require.LessOrEqual(r, low.Scale, high.Scale)
		require.GreaterOrEqual(r, low.Scale, config.MinScale)
		require.LessOrEqual(r, high.Scale, config.MaxScale+1e-9)
	})
}

func TestEngine_RendersUntilTerminal(t *testing.T) {
	var (
		mu     sync.Mutex
		state  = breath.StateBreathing
		frames []Frame
	)
	snapshot := func() breath.Snapshot {
		mu.Lock()
		defer mu.Unlock()
		return breath.Snapshot{State: state, PhaseFill: 0.5}
	}
	render := func(frame Frame) {
		mu.Lock()
		frames = append(frames, frame)
		mu.Unlock()
	}

	engine := New(Config{FrameInterval: time.Millisecond, MinScale: 0.5, MaxScale: 1}, snapshot, render)
	engine.Start(context.Background())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	state = breath.StateCompleted
	mu.Unlock()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) == 2 && frames[1].State == breath.StateCompleted
	}, time.Second, time.Millisecond)
	engine.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, frames, 2)
}

func TestEngine_StopCancelsLoop(t *testing.T) {
	engine := New(Config{FrameInterval: time.Hour}, func() breath.Snapshot {
		return breath.Snapshot{State: breath.StateBreathing}
	}, func(Frame) {})
	engine.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		engine.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
