package mtty

import "testing"

func TestNamedColorResolvesStandardIndex(t *testing.T) {
	c := &NamedColor{Name: ColorRed}
	r, g, b, _ := c.RGBA()
	want := DefaultPalette[ColorRed]
	wr, wg, wb, _ := want.RGBA()
	if r != wr || g != wg || b != wb {
		t.Errorf("NamedColor(Red).RGBA() = (%d,%d,%d), want (%d,%d,%d)", r, g, b, wr, wg, wb)
	}
}

func TestNamedColorForegroundSentinel(t *testing.T) {
	c := &NamedColor{Name: ColorForeground}
	r, g, b, _ := c.RGBA()
	wr, wg, wb, _ := DefaultForeground.RGBA()
	if r != wr || g != wg || b != wb {
		t.Errorf("expected foreground sentinel to resolve to DefaultForeground")
	}
}

func TestIndexedColorOutOfRangeFallsBackToForeground(t *testing.T) {
	c := &IndexedColor{Index: 9999}
	r, g, b, _ := c.RGBA()
	wr, wg, wb, _ := DefaultForeground.RGBA()
	if r != wr || g != wg || b != wb {
		t.Error("expected out-of-range indexed color to fall back to default foreground")
	}
}

func TestDefaultPaletteColorCube(t *testing.T) {
	// Entry 16 is the first color-cube entry: (0,0,0) scaled by 51.
	if DefaultPalette[16].R != 0 || DefaultPalette[16].G != 0 || DefaultPalette[16].B != 0 {
		t.Errorf("expected palette[16] = black cube origin, got %+v", DefaultPalette[16])
	}
	// Entry 231 is the last color-cube entry: (5,5,5) scaled by 51 = 255.
	if DefaultPalette[231].R != 255 || DefaultPalette[231].G != 255 || DefaultPalette[231].B != 255 {
		t.Errorf("expected palette[231] = white cube corner, got %+v", DefaultPalette[231])
	}
}

func TestDefaultPaletteGrayscale(t *testing.T) {
	if DefaultPalette[232].R != 8 {
		t.Errorf("expected palette[232] gray = 8, got %d", DefaultPalette[232].R)
	}
	if DefaultPalette[255].R != 238 {
		t.Errorf("expected palette[255] gray = 238, got %d", DefaultPalette[255].R)
	}
}
