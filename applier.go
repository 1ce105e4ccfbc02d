package mtty

import (
	"fmt"
	"io"
	"log"
)

// ResponseProvider is where the Applier writes PTY reply bytes (DSR,
// DA1/DA2 identification). Sessions typically wire this directly to
// the PTY's write end; tests can use a bytes.Buffer.
type ResponseProvider = io.Writer

// NoopResponse discards everything written to it, the default when a
// session is constructed without an explicit ResponseProvider.
var NoopResponse ResponseProvider = io.Discard

const terminalVersion = "1"

// Applier owns a Grid and its Styles, consumes Commands in order, and
// writes any reply bytes a Command requires back through Response. It
// never propagates I/O errors: a failed reply write is logged and
// swallowed, per the PtyReplyDropped error kind.
type Applier struct {
	Grid     *Grid
	Response ResponseProvider
}

// NewApplier returns an Applier bound to grid, replying through
// response (NoopResponse if nil).
func NewApplier(grid *Grid, response ResponseProvider) *Applier {
	if response == nil {
		response = NoopResponse
	}
	return &Applier{Grid: grid, Response: response}
}

// Apply mutates the Grid per cmd's contract and writes any reply it
// requires. It is the only place Commands are interpreted.
func (a *Applier) Apply(cmd Command) {
	g := a.Grid
	switch c := cmd.(type) {
	case Print:
		a.applyPrint(c)
	case Backspace:
		g.CursorPos.Col = max(g.CursorPos.Col-1, 0)
	case PutTab:
		a.applyTab()
	case NewLine:
		a.applyNewLine()
	case CarriageReturn:
		g.CursorPos.Col = 0
	case MoveCursorVertical:
		g.CursorPos.Row += c.Delta
		g.clampCursor()
	case MoveCursorHorizontal:
		g.CursorPos.Col += c.Delta
		g.clampCursor()
	case MoveCursor:
		g.CursorPos = Position{Row: c.Row, Col: c.Col}
		g.clampCursor()
	case MoveCursorAbsoluteHorizontal:
		g.CursorPos.Col = c.Col
		g.clampCursor()
	case MoveCursorVerticalWithCarriageReturn:
		g.CursorPos.Row += c.Delta
		g.CursorPos.Col = 0
		g.clampCursor()
	case ClearBelow:
		a.clearBelow()
	case ClearAbove:
		a.clearAbove()
	case ClearScreen:
		g.resetScreen()
	case ClearLineAfterCursor:
		a.clearRowRange(g.absCursorRow(), g.CursorPos.Col, g.Width-1)
	case ClearLineBeforeCursor:
		a.clearRowRange(g.absCursorRow(), 0, g.CursorPos.Col)
	case ClearLine:
		a.clearRowRange(g.absCursorRow(), 0, g.Width-1)
	case ClearCount:
		end := min(g.CursorPos.Col+c.N-1, g.Width-1)
		a.clearRowRange(g.absCursorRow(), g.CursorPos.Col, end)
	case DeleteLines:
		g.scrollRegionUp(g.CursorPos.Row, g.ScrollBottom, c.N)
	case SaveCursor:
		g.SavedCursorPos = g.CursorPos
	case RestoreCursor:
		g.CursorPos = g.SavedCursorPos
		g.clampCursor()
	case ShowCursor:
		g.Styles.Cursor.Hidden = false
	case HideCursor:
		g.Styles.Cursor.Hidden = true
	case SwapScreenAndSetRestoreCursor:
		g.swapScreens()
	case BrackPasteMode:
		g.BracketedPaste = c.Enabled
	case SGR:
		c.Attribute.Apply(g.Styles)
	case IdentifyTerminal:
		a.identifyTerminal(c.Kind)
	case ReportCursorPosition:
		a.reply(fmt.Sprintf("\x1b[%d;%dR", g.CursorPos.Row+1, g.CursorPos.Col+1))
	case ReportCondition:
		if c.Healthy {
			a.reply("\x1b[0n")
		}
	case SetColor:
		g.Styles.SetColor(c.Index, c.RGB)
	case ResetColor:
		g.Styles.ResetColor(c.Index)
	case SetCursorShape:
		g.Styles.Cursor.Shape = c.Shape
	}
}

func (a *Applier) applyPrint(c Print) {
	g := a.Grid
	r := g.absCursorRow()
	g.SetCell(r, g.CursorPos.Col, Cell{
		Char:  c.Char,
		Fg:    g.Styles.ActiveFg,
		Bg:    g.Styles.ActiveBg,
		Attrs: attrsFromStyles(g.Styles),
	})

	width := runeWidth(c.Char)
	if width < 1 {
		width = 1
	}
	if isWideRune(c.Char) && g.CursorPos.Col+1 < g.Width {
		g.SetCell(r, g.CursorPos.Col+1, blankCell(g.Styles))
	}
	g.CursorPos.Col += width
	if g.CursorPos.Col >= g.Width {
		g.CursorPos.Col = 0
		if g.CursorPos.Row == g.ScrollBottom {
			g.scrollRegionUp(g.ScrollTop, g.ScrollBottom, 1)
		} else {
			g.CursorPos.Row++
			g.clampCursor()
		}
	}
}

func (a *Applier) applyTab() {
	g := a.Grid
	next := ((g.CursorPos.Col / g.tabWidth) + 1) * g.tabWidth
	if next >= g.Width {
		next = g.Width - 1
	}
	g.CursorPos.Col = next
}

func (a *Applier) applyNewLine() {
	g := a.Grid
	if g.CursorPos.Row == g.ScrollBottom {
		g.scrollRegionUp(g.ScrollTop, g.ScrollBottom, 1)
		return
	}
	g.CursorPos.Row++
	g.clampCursor()
}

// viewportRowAbs maps a viewport-relative row index to the absolute row
// index used by Grid.SetCell, for the active screen.
func (a *Applier) viewportRowAbs(viewportRow int) int {
	if a.Grid.AlternateActive {
		return viewportRow
	}
	return a.Grid.viewportTop() + viewportRow
}

func (a *Applier) clearBelow() {
	g := a.Grid
	a.clearRowRange(g.absCursorRow(), g.CursorPos.Col, g.Width-1)
	for r := g.CursorPos.Row + 1; r <= g.Height-1; r++ {
		a.clearRowRange(a.viewportRowAbs(r), 0, g.Width-1)
	}
}

func (a *Applier) clearAbove() {
	g := a.Grid
	for r := 0; r < g.CursorPos.Row; r++ {
		a.clearRowRange(a.viewportRowAbs(r), 0, g.Width-1)
	}
	a.clearRowRange(g.absCursorRow(), 0, g.CursorPos.Col)
}

func (a *Applier) clearRowRange(absRow, fromCol, toCol int) {
	g := a.Grid
	if fromCol < 0 {
		fromCol = 0
	}
	if toCol >= g.Width {
		toCol = g.Width - 1
	}
	for c := fromCol; c <= toCol; c++ {
		g.SetCell(absRow, c, blankCell(g.Styles))
	}
}

func (a *Applier) identifyTerminal(kind TerminalIDKind) {
	switch kind {
	case TerminalIDPrimary:
		a.reply("\x1b[?6c")
	case TerminalIDSecondary:
		a.reply(fmt.Sprintf("\x1b[>0;%s;1c", terminalVersion))
	}
}

func (a *Applier) reply(s string) {
	if _, err := a.Response.Write([]byte(s)); err != nil {
		log.Printf("mtty: dropped pty reply: %v", err)
	}
}
