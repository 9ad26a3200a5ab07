package core

import "time"

// RuntimeConfig contains host settings passed to the front ends.
type RuntimeConfig struct {
	ScreenW   int   // Screen width in characters
	ScreenH   int   // Screen height in characters
	FrameRate int   // Host redraw callbacks per second (default 60)
	Seed      int64 // Layout RNG seed, 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		FrameRate: 60,
	}
}

// FrameInterval returns the wall-clock interval between host frames.
func (c RuntimeConfig) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// ResolveSeed returns the configured seed or a clock-derived one.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
