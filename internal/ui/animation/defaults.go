package animation

import "time"

// DefaultConfig returns a 30 fps circle between 35% and 100% size.
func DefaultConfig() Config {
	return Config{
		FrameInterval: time.Second / 30,
		MinScale:      0.35,
		MaxScale:      1.0,
	}
}
