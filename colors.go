package mtty

import "image/color"

// NamedColor references a color by semantic name: one of the 16 standard
// ANSI indices, the palette-relative Gray, or a sentinel (Foreground /
// Background) that resolves through the owning Styles instead of a fixed
// table entry.
type NamedColor struct {
	Name int
}

// Named color indices. 0-15 are the standard ANSI colors, in the same
// order as DefaultPalette's first 16 entries.
const (
	ColorBlack = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite

	// ColorGray is a palette-relative alias for BrightBlack, matching the
	// "Gray" named color in spec §3.
	ColorGray

	// ColorForeground resolves to the active foreground color.
	ColorForeground
	// ColorBackground resolves to the active background color.
	ColorBackground
)

// RGBA resolves the named color against DefaultPalette. Most call sites
// should go through Styles.Resolve instead, which is palette-aware for
// OSC-4-mutated entries; this method exists so NamedColor satisfies
// color.Color on its own.
func (c *NamedColor) RGBA() (r, g, b, a uint32) {
	return resolveColor(c, DefaultForeground, DefaultBackground, &DefaultPalette).RGBA()
}

// IndexedColor selects an entry from the 256-color palette (mutable via
// OSC 4 / OSC 104).
type IndexedColor struct {
	Index int
}

// RGBA resolves the indexed color against DefaultPalette.
func (c *IndexedColor) RGBA() (r, g, b, a uint32) {
	return resolveColor(c, DefaultForeground, DefaultBackground, &DefaultPalette).RGBA()
}

// Color is anything that resolves to an RGBA pixel through Styles.Resolve.
// color.RGBA, *IndexedColor, and *NamedColor all implement it.
type Color = color.Color

// DefaultPalette is the standard 256-color palette: 16 named colors
// (0-15), 216 color cube entries (16-231), 24 grayscale entries
// (232-255). Styles seeds its own mutable copy from this table.
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},       // Black
	{205, 49, 49, 255},   // Red
	{13, 188, 121, 255},  // Green
	{229, 229, 16, 255},  // Yellow
	{36, 114, 200, 255},  // Blue
	{188, 63, 188, 255},  // Magenta
	{17, 168, 205, 255},  // Cyan
	{229, 229, 229, 255}, // White

	{102, 102, 102, 255}, // Bright Black
	{241, 76, 76, 255},   // Bright Red
	{35, 209, 139, 255},  // Bright Green
	{245, 245, 67, 255},  // Bright Yellow
	{59, 142, 234, 255},  // Bright Blue
	{214, 112, 214, 255}, // Bright Magenta
	{41, 184, 219, 255},  // Bright Cyan
	{255, 255, 255, 255}, // Bright White
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 255,
				}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// resolveColor converts c to RGBA using fg/bg as the fallback for a nil
// or unresolvable color, and palette as the source of truth for
// IndexedColor and the standard/Gray NamedColor entries. This is the
// only place a Color is resolved to pixels; invariant 7 in spec §3 (no
// recursive palette lookup) holds because palette is a flat [256]RGBA
// array, never itself a Color.
func resolveColor(c Color, fg, bg color.RGBA, palette *[256]color.RGBA) color.RGBA {
	if c == nil {
		return fg
	}

	switch v := c.(type) {
	case color.RGBA:
		return v
	case *IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return palette[v.Index]
		}
		return fg
	case *NamedColor:
		switch {
		case v.Name >= 0 && v.Name < 16:
			return palette[v.Name]
		case v.Name == ColorGray:
			return palette[ColorBrightBlack]
		case v.Name == ColorForeground:
			return fg
		case v.Name == ColorBackground:
			return bg
		default:
			return fg
		}
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
}
