package mtty

import "log"

// Position is a 0-indexed (row, col) pair, origin at the top-left.
type Position struct {
	Row, Col int
}

const defaultTabWidth = 8

// Grid is the central aggregate owned by a session: the primary and
// alternate cell matrices, cursor state, scroll region, dirty-row
// tracking, and the embedded Styles cascade. It is mutated only by an
// Applier and read by a Renderer through CellAt/DirtyRows/ClearDirty.
type Grid struct {
	Width, Height int

	// rows holds the primary screen; it may grow taller than Height as
	// content scrolls off the top of the viewport (invariant 1). The
	// viewport is always the last Height rows of rows.
	rows [][]Cell

	// alternate is always exactly Height rows (invariant 3).
	alternate [][]Cell

	AlternateActive bool

	CursorPos      Position
	SavedCursorPos Position

	ScrollTop, ScrollBottom int

	// dirty is indexed relative to the current viewport, length Height.
	dirty []bool

	Styles *Styles

	BracketedPaste bool

	tabWidth int
}

// NewGrid allocates a Grid of the given size with default styles and a
// scroll region spanning the whole screen.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:         width,
		Height:        height,
		ScrollBottom:  height - 1,
		Styles:        NewStyles(),
		dirty:         make([]bool, height),
		tabWidth:      defaultTabWidth,
	}
	g.rows = make([][]Cell, height)
	for i := range g.rows {
		g.rows[i] = g.newRow()
	}
	g.alternate = make([][]Cell, height)
	for i := range g.alternate {
		g.alternate[i] = g.newRow()
	}
	return g
}

func (g *Grid) newRow() []Cell {
	row := make([]Cell, g.Width)
	for i := range row {
		row[i] = blankCell(g.Styles)
	}
	return row
}

// viewportTop returns the absolute row index of the top of the visible
// viewport within g.rows; the viewport is always the bottom Height rows.
func (g *Grid) viewportTop() int {
	top := len(g.rows) - g.Height
	if top < 0 {
		return 0
	}
	return top
}

// ScrollPos is the logical row of the bottom of the viewport, per the
// data model's scroll_pos field.
func (g *Grid) ScrollPos() int {
	return len(g.rows) - 1
}

// activeRows returns the row slice of whichever screen is live.
func (g *Grid) activeRows() [][]Cell {
	if g.AlternateActive {
		return g.alternate
	}
	return g.rows
}

// rowAt returns the row at absolute row index r on the active screen,
// growing the primary buffer if r is beyond its current height. On the
// alternate screen r is clamped to [0, Height) instead (invariant 3).
func (g *Grid) rowAt(r int) []Cell {
	if g.AlternateActive {
		if r < 0 {
			r = 0
		}
		if r >= g.Height {
			r = g.Height - 1
		}
		return g.alternate[r]
	}
	for r >= len(g.rows) {
		g.rows = append(g.rows, g.newRow())
	}
	return g.rows[r]
}

// MarkDirty flags absolute row r as changed if it falls within the
// current viewport.
func (g *Grid) MarkDirty(r int) {
	idx := r - g.viewportTop()
	if g.AlternateActive {
		idx = r
	}
	if idx < 0 || idx >= len(g.dirty) {
		return
	}
	g.dirty[idx] = true
}

// DirtyRows returns the current dirty bitset, indexed relative to the
// viewport (row 0 is the top visible row).
func (g *Grid) DirtyRows() []bool {
	out := make([]bool, len(g.dirty))
	copy(out, g.dirty)
	return out
}

// IsDirty reports whether any row is dirty.
func (g *Grid) IsDirty() bool {
	for _, d := range g.dirty {
		if d {
			return true
		}
	}
	return false
}

// ClearDirty resets the dirty bitset; called by the Renderer after a
// successful draw.
func (g *Grid) ClearDirty() {
	for i := range g.dirty {
		g.dirty[i] = false
	}
}

// CellAt returns the cell at viewport-relative (row, col) on the active
// screen. Out-of-bounds access logs a warning and returns a blank cell.
func (g *Grid) CellAt(row, col int) Cell {
	if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
		log.Printf("mtty: grid cell read out of bounds (%d,%d)", row, col)
		return blankCell(g.Styles)
	}
	abs := g.viewportTop() + row
	if g.AlternateActive {
		abs = row
	}
	r := g.rowAt(abs)
	return r[col]
}

// SetCell writes cell at absolute row r, column c on the active screen
// and marks the row dirty. Column is clamped to the grid's width.
func (g *Grid) SetCell(r, c int, cell Cell) {
	if c < 0 {
		c = 0
	}
	if c >= g.Width {
		c = g.Width - 1
	}
	row := g.rowAt(r)
	row[c] = cell
	g.MarkDirty(r)
}

// clampCursor enforces invariant 1: 0 <= row < height, 0 <= col < width.
// CursorPos is always relative to the visible viewport; cursor moves
// past an edge are clamped, and only a wrapping Print or a NewLine at
// the bottom of the scroll region scrolls the buffer.
func (g *Grid) clampCursor() {
	if g.CursorPos.Col < 0 {
		g.CursorPos.Col = 0
	}
	if g.CursorPos.Col >= g.Width {
		g.CursorPos.Col = g.Width - 1
	}
	if g.CursorPos.Row < 0 {
		g.CursorPos.Row = 0
	}
	if g.CursorPos.Row >= g.Height {
		g.CursorPos.Row = g.Height - 1
	}
}

// absCursorRow maps the cursor's viewport-relative row to an absolute
// index into the active row slice (invariant 1).
func (g *Grid) absCursorRow() int {
	if g.AlternateActive {
		return g.CursorPos.Row
	}
	return g.viewportTop() + g.CursorPos.Row
}

// scrollRegionUp shifts rows [top, bottom] of the active screen up by
// n, discarding the top n rows of the region and padding the bottom
// with blanks. When the region is the whole primary screen, the buffer
// instead grows by n rows so the scrolled-off rows stay as scrollback.
// Used by newline-induced scroll and DeleteLines.
func (g *Grid) scrollRegionUp(top, bottom, n int) {
	if n <= 0 {
		return
	}
	if !g.AlternateActive && top == 0 && bottom == g.Height-1 {
		for i := 0; i < n; i++ {
			g.rows = append(g.rows, g.newRow())
		}
		for i := range g.dirty {
			g.dirty[i] = true
		}
		return
	}
	active := g.activeRows()
	base := g.viewportTop()
	if g.AlternateActive {
		base = 0
	}
	for i := top; i <= bottom; i++ {
		src := i + n
		if src <= bottom {
			active[base+i] = active[base+src]
		} else {
			active[base+i] = g.newRow()
		}
		g.MarkDirty(base + i)
	}
}

// Resize coalesces the grid to new dimensions: pads or truncates rows
// and columns, clamps the cursor, and invalidates all dirty tracking.
// The caller is responsible for debouncing rapid resize requests.
func (g *Grid) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	g.resizeScreen(&g.rows, cols, rows, true)
	g.resizeScreen(&g.alternate, cols, rows, false)
	g.Width, g.Height = cols, rows
	if g.ScrollTop < 0 {
		g.ScrollTop = 0
	}
	if g.ScrollBottom >= rows || g.ScrollBottom < g.ScrollTop {
		g.ScrollBottom = rows - 1
	}
	g.dirty = make([]bool, rows)
	for i := range g.dirty {
		g.dirty[i] = true
	}
	g.clampCursor()
}

// resizeScreen pads/truncates *screen in place to cols columns. When
// growScrollback is true (the primary screen) the row count is padded
// up to rows but never truncated, preserving scrollback; the alternate
// screen is always forced to exactly rows entries.
func (g *Grid) resizeScreen(screen *[][]Cell, cols, rows int, growScrollback bool) {
	s := *screen
	for i, row := range s {
		if len(row) == cols {
			continue
		}
		resized := make([]Cell, cols)
		copy(resized, row)
		for j := len(row); j < cols; j++ {
			resized[j] = blankCell(g.Styles)
		}
		s[i] = resized
	}

	if growScrollback {
		for len(s) < rows {
			s = append(s, g.newRowOfWidth(cols))
		}
	} else {
		if len(s) < rows {
			for len(s) < rows {
				s = append(s, g.newRowOfWidth(cols))
			}
		} else if len(s) > rows {
			s = s[len(s)-rows:]
		}
	}
	*screen = s
}

func (g *Grid) newRowOfWidth(width int) []Cell {
	row := make([]Cell, width)
	for i := range row {
		row[i] = blankCell(g.Styles)
	}
	return row
}

// swapScreens toggles AlternateActive, saving/restoring the cursor and
// resetting the freshly-entered alternate screen to blank cells, per
// the alternate-screen transition rule in the component design.
func (g *Grid) swapScreens() {
	if !g.AlternateActive {
		g.SavedCursorPos = g.CursorPos
		g.AlternateActive = true
		for i := range g.alternate {
			g.alternate[i] = g.newRow()
		}
		for i := range g.dirty {
			g.dirty[i] = true
		}
		return
	}
	g.AlternateActive = false
	g.CursorPos = g.SavedCursorPos
	for i := range g.dirty {
		g.dirty[i] = true
	}
}

// resetScreen clears the active screen to blank cells, truncating the
// primary buffer's scrollback back to exactly Height rows, and resets
// scroll/cursor position to origin. Used by ClearScreen.
func (g *Grid) resetScreen() {
	if g.AlternateActive {
		for i := range g.alternate {
			g.alternate[i] = g.newRow()
		}
	} else {
		g.rows = make([][]Cell, g.Height)
		for i := range g.rows {
			g.rows[i] = g.newRow()
		}
	}
	g.CursorPos = Position{}
	for i := range g.dirty {
		g.dirty[i] = true
	}
}
