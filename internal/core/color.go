package core

import "fmt"

// Color represents a foreground color for a screen cell or particle.
// Values map onto ANSI 256-color codes in the terminal renderer.
type Color uint8

// Palette used by the corridor, stream objects and effect bursts.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorPurple
	ColorGray
)

var colorNames = map[string]Color{
	"default": ColorDefault,
	"red":     ColorRed,
	"green":   ColorGreen,
	"yellow":  ColorYellow,
	"blue":    ColorBlue,
	"magenta": ColorMagenta,
	"cyan":    ColorCyan,
	"white":   ColorWhite,
	"orange":  ColorOrange,
	"purple":  ColorPurple,
	"gray":    ColorGray,
}

// ParseColor resolves a palette name as written in YAML config.
func ParseColor(name string) (Color, error) {
	c, ok := colorNames[name]
	if !ok {
		return ColorDefault, fmt.Errorf("core: unknown color %q", name)
	}
	return c, nil
}

// String returns the palette name.
func (c Color) String() string {
	for name, v := range colorNames {
		if v == c {
			return name
		}
	}
	return "default"
}

// ANSI returns the 256-color code for the terminal renderer.
func (c Color) ANSI() string {
	switch c {
	case ColorRed:
		return "197"
	case ColorGreen:
		return "46"
	case ColorYellow:
		return "220"
	case ColorBlue:
		return "27"
	case ColorMagenta:
		return "201"
	case ColorCyan:
		return "51"
	case ColorWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorPurple:
		return "55"
	case ColorGray:
		return "245"
	default:
		return "7"
	}
}

// RGB returns an approximation of the color for raster output.
func (c Color) RGB() (r, g, b float64) {
	switch c {
	case ColorRed:
		return 1, 0, 0.33
	case ColorGreen:
		return 0, 1, 0
	case ColorYellow:
		return 1, 0.87, 0
	case ColorBlue:
		return 0, 0.33, 1
	case ColorMagenta:
		return 1, 0, 1
	case ColorCyan:
		return 0, 1, 1
	case ColorWhite:
		return 1, 1, 1
	case ColorOrange:
		return 1, 0.53, 0
	case ColorPurple:
		return 0.27, 0, 0.67
	case ColorGray:
		return 0.55, 0.55, 0.55
	default:
		return 0.75, 0.75, 0.75
	}
}
