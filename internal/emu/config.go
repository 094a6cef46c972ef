package emu

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace        bool    // write one register line per instruction to the trace writer
	FrameSkip    int     // StepFrame runs this many frames and renders only the last
	ClockHz      float64 // nominal CPU clock, used for speed reporting
	FrameTStates int     // CPU T-states per frame
	VDPRatio     float64 // VDP dots per CPU T-state
}

// Defaults fills missing fields with the NTSC Master System timings.
func (c *Config) Defaults() {
	if c.FrameSkip <= 0 {
		c.FrameSkip = 1
	}
	if c.ClockHz <= 0 {
		c.ClockHz = 3_550_000
	}
	if c.FrameTStates <= 0 {
		c.FrameTStates = 59_167
	}
	if c.VDPRatio <= 0 {
		c.VDPRatio = 1.5
	}
}
