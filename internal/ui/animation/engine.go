package animation

import (
	"context"
	"sync"
	"time"

	"breathflow/internal/core/breath"
)

// Config contains animation timing and size values.
type Config struct {
	FrameInterval time.Duration
	MinScale      float64
	MaxScale      float64
}

// Engine polls a session snapshot at frame rate and hands frames to render.
// The controller ticks once a second; the engine fills the frames between.
type Engine struct {
	mu       sync.Mutex
	config   Config
	snapshot func() breath.Snapshot
	render   func(Frame)
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a new animation engine.
func New(config Config, snapshot func() breath.Snapshot, render func(Frame)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{config: config, snapshot: snapshot, render: render}
}

// Start begins polling, replacing any running loop. The loop ends on its own
// after rendering a terminal state.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		engine.run(runCtx)
	}()
}

// Stop terminates the active loop and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (engine *Engine) run(ctx context.Context) {
	var last Frame
	first := true
	for {
		frame := FrameFor(engine.snapshot(), engine.config)
		if first || frame != last {
			engine.render(frame)
			last, first = frame, false
		}
		if frame.State.IsTerminal() {
			return
		}
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
