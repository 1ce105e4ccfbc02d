package mtty

import (
	"bytes"
	"testing"
)

func newTestApplier(cols, rows int) (*Grid, *Applier, *bytes.Buffer) {
	g := NewGrid(cols, rows)
	var reply bytes.Buffer
	return g, NewApplier(g, &reply), &reply
}

func applyAll(a *Applier, cmds []Command) {
	for _, c := range cmds {
		a.Apply(c)
	}
}

func TestScenarioPrintHello(t *testing.T) {
	g, a, _ := newTestApplier(80, 24)
	for _, r := range "hello" {
		a.Apply(Print{Char: r})
	}

	want := "hello"
	for i, r := range want {
		if got := g.CellAt(0, i).Char; got != r {
			t.Errorf("cell (0,%d) = %q, want %q", i, got, r)
		}
	}
	if g.CursorPos != (Position{Row: 0, Col: 5}) {
		t.Errorf("cursor = %+v, want (0,5)", g.CursorPos)
	}
}

func TestScenarioCarriageReturnNewline(t *testing.T) {
	g, a, _ := newTestApplier(80, 24)
	for _, r := range "abc" {
		a.Apply(Print{Char: r})
	}
	a.Apply(CarriageReturn{})
	a.Apply(NewLine{})

	if g.CursorPos != (Position{Row: 1, Col: 0}) {
		t.Errorf("cursor = %+v, want (1,0)", g.CursorPos)
	}
	for i, r := range "abc" {
		if got := g.CellAt(0, i).Char; got != r {
			t.Errorf("row 0 cell %d = %q, want %q", i, got, r)
		}
	}
}

func TestScenarioClearScreen(t *testing.T) {
	g, a, _ := newTestApplier(10, 5)
	for c := 0; c < 10; c++ {
		a.Apply(Print{Char: 'x'})
	}
	a.Apply(ClearScreen{})

	for r := 0; r < 5; r++ {
		for c := 0; c < 10; c++ {
			if got := g.CellAt(r, c).Char; got != ' ' {
				t.Fatalf("cell (%d,%d) = %q, want blank", r, c, got)
			}
		}
	}
	if g.CursorPos != (Position{}) {
		t.Errorf("cursor = %+v, want origin", g.CursorPos)
	}
}

func TestScenarioMoveCursor(t *testing.T) {
	_, a, _ := newTestApplier(80, 24)
	a.Apply(MoveCursor{Row: 4, Col: 9})

	if a.Grid.CursorPos != (Position{Row: 4, Col: 9}) {
		t.Errorf("cursor = %+v, want (4,9)", a.Grid.CursorPos)
	}
}

func TestScenarioSgrForeground(t *testing.T) {
	g, a, _ := newTestApplier(80, 24)
	a.Apply(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: &NamedColor{Name: ColorRed}}})
	a.Apply(Print{Char: 'X'})

	cell := g.CellAt(0, 0)
	if cell.Char != 'X' {
		t.Fatalf("expected 'X', got %q", cell.Char)
	}
	named, ok := cell.Fg.(*NamedColor)
	if !ok || named.Name != ColorRed {
		t.Errorf("expected fg NamedColor(Red), got %#v", cell.Fg)
	}
}

func TestScenarioAlternateScreenRoundTrip(t *testing.T) {
	g, a, _ := newTestApplier(10, 5)
	a.Apply(Print{Char: 'A'}) // primary cell at (0,0)
	originalCursor := g.CursorPos

	a.Apply(SwapScreenAndSetRestoreCursor{})
	a.Apply(Print{Char: 'Y'})
	a.Apply(SwapScreenAndSetRestoreCursor{})

	if g.CellAt(0, 0).Char != 'A' {
		t.Errorf("expected primary cell unchanged, got %q", g.CellAt(0, 0).Char)
	}
	if g.CursorPos != originalCursor {
		t.Errorf("expected cursor restored to %+v, got %+v", originalCursor, g.CursorPos)
	}
}

func TestScenarioReportCursorPosition(t *testing.T) {
	_, a, reply := newTestApplier(80, 24)
	a.Apply(MoveCursor{Row: 3, Col: 7})
	a.Apply(ReportCursorPosition{})

	want := "\x1b[4;8R"
	if got := reply.String(); got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestClearScreenIdempotent(t *testing.T) {
	g, a, _ := newTestApplier(10, 5)
	for c := 0; c < 10; c++ {
		a.Apply(Print{Char: 'z'})
	}
	a.Apply(ClearScreen{})
	first := snapshotCells(g)
	a.Apply(ClearScreen{})
	second := snapshotCells(g)

	if len(first) != len(second) {
		t.Fatal("snapshot length mismatch")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cell %d differs between consecutive clears: %v vs %v", i, first[i], second[i])
		}
	}
}

func snapshotCells(g *Grid) []Cell {
	out := make([]Cell, 0, g.Width*g.Height)
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			out = append(out, g.CellAt(r, c))
		}
	}
	return out
}

func TestPrintWrapsAtRightEdge(t *testing.T) {
	g, a, _ := newTestApplier(5, 3)
	for i := 0; i < 5; i++ {
		a.Apply(Print{Char: 'x'})
	}
	if g.CursorPos != (Position{Row: 1, Col: 0}) {
		t.Errorf("cursor = %+v, want (1,0) after wrapping at width", g.CursorPos)
	}
}

func TestPrintWideRuneBlanksSpacerCell(t *testing.T) {
	g, a, _ := newTestApplier(10, 3)
	a.Apply(Print{Char: '中'})

	if got := g.CellAt(0, 0).Char; got != '中' {
		t.Fatalf("cell (0,0) = %q, want '中'", got)
	}
	if got := g.CellAt(0, 1).Char; got != ' ' {
		t.Errorf("expected spacer cell (0,1) blanked after wide rune, got %q", got)
	}
	if g.CursorPos != (Position{Row: 0, Col: 2}) {
		t.Errorf("cursor = %+v, want (0,2) after wide rune", g.CursorPos)
	}
}

func TestDeviceIdentification(t *testing.T) {
	_, a, reply := newTestApplier(80, 24)
	a.Apply(IdentifyTerminal{Kind: TerminalIDPrimary})
	if got := reply.String(); got != "\x1b[?6c" {
		t.Errorf("DA1 reply = %q", got)
	}

	reply.Reset()
	a.Apply(IdentifyTerminal{Kind: TerminalIDSecondary})
	if got := reply.String(); got == "" {
		t.Error("expected non-empty DA2 reply")
	}
}
