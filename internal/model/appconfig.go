package model

// DefaultMaxRectangles is the number of rectangles read from an input
// document when no limit is given on the command line.
const DefaultMaxRectangles = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Ingestion and search defaults
	MaxRectangles int `json:"max_rectangles"` // 0 = read every rectangle
	MaxOrder      int `json:"max_order"`      // 0 = unlimited
	Workers       int `json:"workers"`

	// Rendering preferences (CSS colour strings)
	Palette           []string `json:"palette"`
	Background        string   `json:"background"`
	IntersectionColor string   `json:"intersection_color"`

	// Directory that relative export paths are resolved against; empty
	// means the working directory.
	OutputDir string `json:"output_dir"`
}

// DefaultPalette mirrors the colour set used for part outlines in reports.
var DefaultPalette = []string{
	"#4caf50", // green
	"#2196f3", // blue
	"#ff9800", // orange
	"#9c27b0", // purple
	"#00bcd4", // cyan
	"#f44336", // red
	"#ffeb3b", // yellow
	"#795548", // brown
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return AppConfig{
		MaxRectangles:     DefaultMaxRectangles,
		MaxOrder:          defaults.MaxOrder,
		Workers:           defaults.Workers,
		Palette:           palette,
		Background:        "white",
		IntersectionColor: "rgba(30, 30, 30, 0.35)",
		OutputDir:         "",
	}
}

// ApplyToSettings copies the search defaults from AppConfig into s.
func (c AppConfig) ApplyToSettings(s *IntersectSettings) {
	s.MaxOrder = c.MaxOrder
	s.Workers = c.Workers
}

// RenderStyle is the colour configuration consumed by the drawing exporters.
type RenderStyle struct {
	Palette           []string
	Background        string
	IntersectionColor string
}

// Style returns the rendering part of the config, falling back to the
// defaults for anything left empty.
func (c AppConfig) Style() RenderStyle {
	def := DefaultAppConfig()
	st := RenderStyle{
		Palette:           c.Palette,
		Background:        c.Background,
		IntersectionColor: c.IntersectionColor,
	}
	if len(st.Palette) == 0 {
		st.Palette = def.Palette
	}
	if st.Background == "" {
		st.Background = def.Background
	}
	if st.IntersectionColor == "" {
		st.IntersectionColor = def.IntersectionColor
	}
	return st
}
