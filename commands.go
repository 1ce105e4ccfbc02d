package mtty

import "image/color"

// Command is a single high-level terminal operation emitted by the
// parser and consumed by the Applier. The set of concrete types below
// is closed; Applier.Apply switches on it exhaustively.
type Command interface {
	isCommand()
}

type (
	// Print writes one codepoint at the cursor and advances it.
	Print struct{ Char rune }

	// Backspace moves the cursor left one column, clamped at 0.
	Backspace struct{}

	// PutTab advances the cursor to the next tab stop.
	PutTab struct{}

	// NewLine moves the cursor down one row, scrolling within the
	// scroll region if necessary. Column is unchanged.
	NewLine struct{}

	// CarriageReturn sets the cursor's column to 0.
	CarriageReturn struct{}

	// MoveCursorVertical moves the cursor by Delta rows (negative is up).
	MoveCursorVertical struct{ Delta int }

	// MoveCursorHorizontal moves the cursor by Delta columns (negative
	// is left).
	MoveCursorHorizontal struct{ Delta int }

	// MoveCursor sets the cursor to an absolute, 0-indexed (Row, Col).
	MoveCursor struct{ Row, Col int }

	// MoveCursorAbsoluteHorizontal sets the cursor's column, 0-indexed.
	MoveCursorAbsoluteHorizontal struct{ Col int }

	// MoveCursorVerticalWithCarriageReturn moves the cursor by Delta
	// rows and resets the column to 0.
	MoveCursorVerticalWithCarriageReturn struct{ Delta int }

	// ClearBelow clears from the cursor to the end of the screen.
	ClearBelow struct{}

	// ClearAbove clears from the start of the screen to the cursor.
	ClearAbove struct{}

	// ClearScreen clears the entire visible screen and truncates
	// scrollback, resetting cursor and scroll position to origin.
	ClearScreen struct{}

	// ClearLineAfterCursor clears from the cursor to the end of its row.
	ClearLineAfterCursor struct{}

	// ClearLineBeforeCursor clears from the start of the row to the
	// cursor.
	ClearLineBeforeCursor struct{}

	// ClearLine clears the entire row the cursor is on.
	ClearLine struct{}

	// ClearCount clears N cells starting at the cursor.
	ClearCount struct{ N int }

	// DeleteLines removes N lines at the cursor's row within the scroll
	// region, pulling lines below up and padding the bottom with blanks.
	DeleteLines struct{ N int }

	// SaveCursor stores the cursor position for a later RestoreCursor.
	SaveCursor struct{}

	// RestoreCursor moves the cursor back to the last SaveCursor position.
	RestoreCursor struct{}

	// ShowCursor makes the cursor visible.
	ShowCursor struct{}

	// HideCursor makes the cursor invisible.
	HideCursor struct{}

	// SwapScreenAndSetRestoreCursor toggles between the primary and
	// alternate screens, saving/restoring the cursor as described in
	// the grid's alternate-screen transition rules.
	SwapScreenAndSetRestoreCursor struct{}

	// BrackPasteMode toggles whether pasted input is wrapped in
	// bracketed-paste markers before being sent to the PTY.
	BrackPasteMode struct{ Enabled bool }

	// SGR applies one parsed SGR attribute to the active styles.
	SGR struct{ Attribute SgrAttribute }

	// IdentifyTerminal requests a DA1 (Primary) or DA2 (Secondary)
	// device-attributes reply.
	IdentifyTerminal struct{ Kind TerminalIDKind }

	// ReportCursorPosition requests a DSR cursor-position reply (CSI 6n).
	ReportCursorPosition struct{}

	// ReportCondition requests a DSR status reply (CSI 5n); Healthy is
	// always true since the core has no failure mode to report.
	ReportCondition struct{ Healthy bool }

	// SetColor mutates palette entry Index to RGB (OSC 4).
	SetColor struct {
		Index int
		RGB   color.RGBA
	}

	// ResetColor restores palette entry Index to its default (OSC 104).
	ResetColor struct{ Index int }

	// SetCursorShape changes the cursor's rendered shape (DECSCUSR).
	SetCursorShape struct{ Shape CursorShape }
)

// TerminalIDKind distinguishes a DA1 request from a DA2 request.
type TerminalIDKind int

const (
	TerminalIDPrimary TerminalIDKind = iota
	TerminalIDSecondary
)

func (Print) isCommand() {}
func (Backspace) isCommand() {}
func (PutTab) isCommand() {}
func (NewLine) isCommand() {}
func (CarriageReturn) isCommand() {}
func (MoveCursorVertical) isCommand() {}
func (MoveCursorHorizontal) isCommand() {}
func (MoveCursor) isCommand() {}
func (MoveCursorAbsoluteHorizontal) isCommand() {}
func (MoveCursorVerticalWithCarriageReturn) isCommand() {}
func (ClearBelow) isCommand() {}
func (ClearAbove) isCommand() {}
func (ClearScreen) isCommand() {}
func (ClearLineAfterCursor) isCommand() {}
func (ClearLineBeforeCursor) isCommand() {}
func (ClearLine) isCommand() {}
func (ClearCount) isCommand() {}
func (DeleteLines) isCommand() {}
func (SaveCursor) isCommand() {}
func (RestoreCursor) isCommand() {}
func (ShowCursor) isCommand() {}
func (HideCursor) isCommand() {}
func (SwapScreenAndSetRestoreCursor) isCommand() {}
func (BrackPasteMode) isCommand() {}
func (SGR) isCommand() {}
func (IdentifyTerminal) isCommand() {}
func (ReportCursorPosition) isCommand() {}
func (ReportCondition) isCommand() {}
func (SetColor) isCommand() {}
func (ResetColor) isCommand() {}
func (SetCursorShape) isCommand() {}
