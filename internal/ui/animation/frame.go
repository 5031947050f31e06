package animation

import (
	"math"

	"breathflow/internal/core/breath"
)

// Frame is one rendered state of the breathing circle.
type Frame struct {
	State   breath.State
	Phase   breath.Phase
	Fill    float64
	Scale   float64
	Seconds int
}

// FrameFor maps a snapshot to a circle frame. Fill is the display fill, so
// it rises during inhale and falls during exhale.
func FrameFor(snapshot breath.Snapshot, config Config) Frame {
	fill := 0.0
	if snapshot.State == breath.StateBreathing {
		fill = clamp01(snapshot.PhaseFill)
	}
	return Frame{
		State:   snapshot.State,
		Phase:   snapshot.Phase,
		Fill:    fill,
		Scale:   config.MinScale + (config.MaxScale-config.MinScale)*easeInOut(fill),
		Seconds: snapshot.PhaseSecondsRemaining,
	}
}

func easeInOut(value float64) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*clamp01(value))
}

func clamp01(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
