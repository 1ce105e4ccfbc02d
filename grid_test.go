package mtty

import "testing"

func TestNewGridDimensions(t *testing.T) {
	g := NewGrid(80, 24)
	if g.Width != 80 || g.Height != 24 {
		t.Fatalf("expected 80x24, got %dx%d", g.Width, g.Height)
	}
	if g.ScrollBottom != 23 {
		t.Errorf("expected scroll bottom 23, got %d", g.ScrollBottom)
	}
}

func TestGridSetCellAndRead(t *testing.T) {
	g := NewGrid(10, 5)
	g.SetCell(0, 0, Cell{Char: 'A'})

	if got := g.CellAt(0, 0).Char; got != 'A' {
		t.Errorf("expected 'A', got %q", got)
	}
}

func TestGridMarkDirty(t *testing.T) {
	g := NewGrid(10, 5)
	g.ClearDirty()
	g.SetCell(2, 0, Cell{Char: 'x'})

	dirty := g.DirtyRows()
	if !dirty[2] {
		t.Errorf("expected row 2 dirty, bitset = %v", dirty)
	}
	if dirty[0] || dirty[1] {
		t.Errorf("expected only row 2 dirty, bitset = %v", dirty)
	}
}

func TestGridClearDirty(t *testing.T) {
	g := NewGrid(10, 5)
	g.SetCell(1, 0, Cell{Char: 'x'})
	if !g.IsDirty() {
		t.Fatal("expected grid to be dirty")
	}
	g.ClearDirty()
	if g.IsDirty() {
		t.Error("expected grid to be clean after ClearDirty")
	}
}

func TestGridGrowsPrimaryPastHeight(t *testing.T) {
	g := NewGrid(10, 5)
	g.SetCell(9, 0, Cell{Char: 'z'})

	if len(g.rows) != 10 {
		t.Fatalf("expected rows to grow to 10, got %d", len(g.rows))
	}
	if got := g.CellAt(4, 0).Char; got != 'z' {
		t.Errorf("expected viewport row 4 to show grown row, got %q", got)
	}
}

func TestGridResizePadsAndTruncates(t *testing.T) {
	g := NewGrid(10, 5)
	g.SetCell(0, 0, Cell{Char: 'A'})

	g.Resize(20, 10)
	if g.Width != 20 || g.Height != 10 {
		t.Fatalf("expected 20x10 after resize, got %dx%d", g.Width, g.Height)
	}
	if got := g.CellAt(0, 0).Char; got != 'A' {
		t.Errorf("expected preserved content at (0,0), got %q", got)
	}

	g.Resize(5, 3)
	if g.Width != 5 || g.Height != 3 {
		t.Fatalf("expected 5x3 after resize, got %dx%d", g.Width, g.Height)
	}
}

func TestGridResizeClampsCursor(t *testing.T) {
	g := NewGrid(80, 24)
	g.CursorPos = Position{Row: 23, Col: 79}
	g.Resize(10, 5)

	if g.CursorPos.Row >= g.Height || g.CursorPos.Col >= g.Width {
		t.Errorf("expected cursor clamped within new bounds, got %+v", g.CursorPos)
	}
}

func TestSwapScreensRoundTrip(t *testing.T) {
	g := NewGrid(10, 5)
	g.CursorPos = Position{Row: 2, Col: 3}

	g.swapScreens()
	if !g.AlternateActive {
		t.Fatal("expected alternate screen active")
	}
	g.SetCell(0, 0, Cell{Char: 'Y'})

	g.swapScreens()
	if g.AlternateActive {
		t.Fatal("expected primary screen active after second swap")
	}
	if g.CursorPos != (Position{Row: 2, Col: 3}) {
		t.Errorf("expected cursor restored to (2,3), got %+v", g.CursorPos)
	}
	if g.CellAt(0, 0).Char == 'Y' {
		t.Error("expected primary screen content unaffected by alternate write")
	}
}

func TestScrollRegionUp(t *testing.T) {
	g := NewGrid(10, 5)
	for r := 0; r < 5; r++ {
		g.SetCell(r, 0, Cell{Char: rune('0' + r)})
	}

	g.scrollRegionUp(0, 4, 1)

	if got := g.CellAt(0, 0).Char; got != '1' {
		t.Errorf("expected row 0 to show old row 1 content '1', got %q", got)
	}
	if got := g.CellAt(4, 0).Char; got != ' ' {
		t.Errorf("expected bottom row blanked, got %q", got)
	}
}
