package ui

// Config contains window and overlay settings.
type Config struct {
	Title     string // window title
	Scale     int    // integer upscaling factor
	ShowStats bool   // draw speed and VDP state over the picture
	ROMsDir   string // directory to browse for ROMs
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "smsemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
}
