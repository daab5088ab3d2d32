package chart

// Config is the display configuration of rendered charts. It is built once from
// the application config and handed to NewBarRenderer; the renderer never
// changes it.
type Config struct {
	FontFamily string
	FontSize   float64
	Width      uint
	Height     uint
	Sheet      string
}

// DefaultConfig returns a configuration whose font can draw the translated
// labels as well as any untranslated CJK label that passed through.
func DefaultConfig() Config {
	return Config{
		FontFamily: "Arial Unicode MS",
		FontSize:   10,
		Width:      960,
		Height:     540,
		Sheet:      "ER visits",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Sheet == "" {
		c.Sheet = d.Sheet
	}
	return c
}
