package mtty

import "image/color"

// CursorShape selects the glyph the renderer draws for the cursor.
type CursorShape int

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeUnderline
	CursorShapeBar
)

// CursorState is the subset of cursor appearance that SGR/DECSCUSR and
// show/hide control, independent of grid position.
type CursorState struct {
	Shape    CursorShape
	Hidden   bool
	Blinking bool
}

// UnderlineStyle distinguishes the SGR 4 family: plain, double, curly
// (undercurl), dotted, dashed.
type UnderlineStyle int

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Styles is the process-wide style cascade owned by a Grid: default
// colors fixed at construction, the active SGR-mutable colors and
// attribute flags, the OSC-4-mutable 256 color palette, and cursor
// appearance. A freshly cleared Cell is stamped from ActiveFg/ActiveBg.
type Styles struct {
	DefaultFg color.RGBA
	DefaultBg color.RGBA

	ActiveFg Color
	ActiveBg Color

	Palette [256]color.RGBA

	Cursor CursorState

	Bold      bool
	Dim       bool
	Italic    bool
	Underline UnderlineStyle
	BlinkSlow bool
	BlinkFast bool
	Reverse   bool
	Hidden    bool
	Strike    bool

	UnderlineColor Color
}

// NewStyles returns a Styles with the default foreground/background and
// a copy of DefaultPalette, ready to seed a new Grid.
func NewStyles() *Styles {
	s := &Styles{
		DefaultFg: DefaultForeground,
		DefaultBg: DefaultBackground,
		ActiveFg:  nil,
		ActiveBg:  nil,
		Palette:   DefaultPalette,
	}
	return s
}

// Resolve turns c into a concrete pixel using this Styles' active colors
// and palette as the resolution context. A nil Color resolves to fg.
func (s *Styles) Resolve(c Color) color.RGBA {
	return resolveColor(c, s.rgbaOf(s.ActiveFg), s.rgbaOf(s.ActiveBg), &s.Palette)
}

// rgbaOf resolves c against the default colors, used when c is itself
// ActiveFg/ActiveBg (avoids infinite recursion through Resolve).
func (s *Styles) rgbaOf(c Color) color.RGBA {
	return resolveColor(c, s.DefaultFg, s.DefaultBg, &s.Palette)
}

// SetColor mutates the palette entry at i (OSC 4). Out-of-range indices
// are ignored; invariant 7 in the data model requires the palette stay
// a flat lookup table.
func (s *Styles) SetColor(i int, rgb color.RGBA) {
	if i < 0 || i >= len(s.Palette) {
		return
	}
	s.Palette[i] = rgb
}

// ResetColor restores the palette entry at i to DefaultPalette (OSC 104).
func (s *Styles) ResetColor(i int) {
	if i < 0 || i >= len(s.Palette) {
		return
	}
	s.Palette[i] = DefaultPalette[i]
}

// Reset returns active colors and attribute flags to their defaults,
// matching the SGR 0 contract.
func (s *Styles) Reset() {
	s.ActiveFg = nil
	s.ActiveBg = nil
	s.Bold = false
	s.Dim = false
	s.Italic = false
	s.Underline = UnderlineNone
	s.BlinkSlow = false
	s.BlinkFast = false
	s.Reverse = false
	s.Hidden = false
	s.Strike = false
	s.UnderlineColor = nil
}

// SgrKind tags the effect an SgrAttribute applies.
type SgrKind int

const (
	SgrReset SgrKind = iota
	SgrBold
	SgrDim
	SgrItalic
	SgrUnderline
	SgrDoubleUnderline
	SgrUndercurl
	SgrDottedUnderline
	SgrDashedUnderline
	SgrBlinkSlow
	SgrBlinkFast
	SgrReverse
	SgrHidden
	SgrStrike
	SgrCancelBold
	SgrCancelDim
	SgrCancelItalic
	SgrCancelUnderline
	SgrCancelBlink
	SgrCancelReverse
	SgrCancelHidden
	SgrCancelStrike
	SgrForeground
	SgrBackground
	SgrUnderlineColor
)

// SgrAttribute is one SGR effect parsed from a `CSI ... m` sequence.
// Color is only meaningful for SgrForeground, SgrBackground, and
// SgrUnderlineColor; a nil Color on SgrUnderlineColor resets it to
// the text color, matching default underline-color behavior.
type SgrAttribute struct {
	Kind  SgrKind
	Color Color
}

// Apply mutates s per attr's contract (data model §3). Foreground with
// the Foreground sentinel (and Background with Background) resets to
// default, per §4.2.
func (attr SgrAttribute) Apply(s *Styles) {
	switch attr.Kind {
	case SgrReset:
		s.Reset()
	case SgrBold:
		s.Bold = true
	case SgrDim:
		s.Dim = true
	case SgrItalic:
		s.Italic = true
	case SgrUnderline:
		s.Underline = UnderlineSingle
	case SgrDoubleUnderline:
		s.Underline = UnderlineDouble
	case SgrUndercurl:
		s.Underline = UnderlineCurly
	case SgrDottedUnderline:
		s.Underline = UnderlineDotted
	case SgrDashedUnderline:
		s.Underline = UnderlineDashed
	case SgrBlinkSlow:
		s.BlinkSlow = true
	case SgrBlinkFast:
		s.BlinkFast = true
	case SgrReverse:
		s.Reverse = true
	case SgrHidden:
		s.Hidden = true
	case SgrStrike:
		s.Strike = true
	case SgrCancelBold:
		s.Bold = false
	case SgrCancelDim:
		s.Dim = false
	case SgrCancelItalic:
		s.Italic = false
	case SgrCancelUnderline:
		s.Underline = UnderlineNone
	case SgrCancelBlink:
		s.BlinkSlow = false
		s.BlinkFast = false
	case SgrCancelReverse:
		s.Reverse = false
	case SgrCancelHidden:
		s.Hidden = false
	case SgrCancelStrike:
		s.Strike = false
	case SgrForeground:
		if named, ok := attr.Color.(*NamedColor); ok && named.Name == ColorForeground {
			s.ActiveFg = nil
			return
		}
		s.ActiveFg = attr.Color
	case SgrBackground:
		if named, ok := attr.Color.(*NamedColor); ok && named.Name == ColorBackground {
			s.ActiveBg = nil
			return
		}
		s.ActiveBg = attr.Color
	case SgrUnderlineColor:
		s.UnderlineColor = attr.Color
	}
}
