package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)

func TestManual_AdvanceFiresTicksInOrder(t *testing.T) {
	manual := NewManual(epoch)
	var fired []string

	manual.Every(time.Second, func(now time.Time) {
		fired = append(fired, "a@"+now.Sub(epoch).String())
	})
	manual.Every(1500*time.Millisecond, func(now time.Time) {
		fired = append(fired, "b@"+now.Sub(epoch).String())
	})

	manual.Advance(3 * time.Second)

	require.Equal(t, []string{"a@1s", "b@1.5s", "a@2s", "a@3s", "b@3s"}, fired)
	require.Equal(t, epoch.Add(3*time.Second), manual.Now())
}

func TestManual_CancelStopsFutureTicks(t *testing.T) {
	manual := NewManual(epoch)
	count := 0
	var cancel Cancel
	cancel = manual.Every(time.Second, func(time.Time) {
		count++
		if count == 2 {
			cancel()
		}
	})

	manual.Advance(10 * time.Second)
	require.Equal(t, 2, count)
	require.Equal(t, 0, manual.ActiveTickers())
}

func TestManual_PostRunsAfterCurrentCallback(t *testing.T) {
	manual := NewManual(epoch)
	var order []string

	manual.Every(time.Second, func(time.Time) {
		manual.Post(func() { order = append(order, "posted") })
		order = append(order, "tick")
	})

	manual.Advance(time.Second)
	require.Equal(t, []string{"tick", "posted"}, order)
}

func TestManual_SetDoesNotFire(t *testing.T) {
	manual := NewManual(epoch)
	count := 0
	manual.Every(time.Second, func(time.Time) { count++ })

	manual.Set(epoch.Add(time.Hour))
	require.Equal(t, 0, count)
	require.Equal(t, epoch.Add(time.Hour), manual.Now())
}

func TestLoop_DoRunsOnLoop(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	ran := false
	require.NoError(t, loop.Do(func() { ran = true }))
	require.True(t, ran)
}

func TestLoop_CancelPreventsQueuedTicks(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var ticks atomic.Int32
	var stop Cancel
	require.NoError(t, loop.Do(func() {
		stop = loop.Every(5*time.Millisecond, func(time.Time) {
			ticks.Add(1)
		})
	}))

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)

	var atCancel int32
	require.NoError(t, loop.Do(func() {
		stop()
		atCancel = ticks.Load()
	}))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, atCancel, ticks.Load())
}

func TestLoop_CancelFromAnotherGoroutine(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var ticks atomic.Int32
	stop := loop.Every(2*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, 2*time.Millisecond)

	// Hold the loop so ticks pile up in the queue, then cancel off-loop.
	release := make(chan struct{})
	loop.Post(func() { <-release })
	time.Sleep(20 * time.Millisecond)
	atCancel := ticks.Load()
	stop()
	close(release)

	require.NoError(t, loop.Do(func() {}))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, atCancel, ticks.Load())
}

func TestLoop_DoAfterStop(t *testing.T) {
	loop := NewLoop()
	loop.Stop()
	require.ErrorIs(t, loop.Do(func() {}), ErrLoopStopped)
}
