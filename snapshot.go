package mtty

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
)

const snapshotVersion = "1.0"

// SnapshotCell is the JSON-serializable form of a Cell: colors are
// resolved to hex strings so a snapshot is self-contained and does not
// depend on the palette that produced it.
type SnapshotCell struct {
	Char  string    `json:"char"`
	Fg    string    `json:"fg"`
	Bg    string    `json:"bg"`
	Attrs CellAttrs `json:"attrs"`
}

// SnapshotCursor is the JSON form of CursorState.
type SnapshotCursor struct {
	Shape    CursorShape `json:"shape"`
	Hidden   bool        `json:"hidden"`
	Blinking bool        `json:"blinking"`
}

// Snapshot is an immutable, deterministic point-in-time capture of a
// Grid, suitable for JSON serialization and later diffing or replay
// seeding. The scroll region is stored as two fields, scroll_top and
// scroll_bottom.
type Snapshot struct {
	Version         string         `json:"version"`
	Timestamp       int64          `json:"timestamp"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	CursorPos       Position       `json:"cursor_pos"`
	SavedCursorPos  Position       `json:"saved_cursor_pos"`
	ScrollPos       int            `json:"scroll_pos"`
	ScrollTop       int            `json:"scroll_top"`
	ScrollBottom    int            `json:"scroll_bottom"`
	AlternateActive bool           `json:"alternate_active"`
	CursorState     SnapshotCursor `json:"cursor_state"`
	ActiveFg        string         `json:"active_fg"`
	ActiveBg        string         `json:"active_bg"`
	Cells           []SnapshotCell `json:"cells"`
}

// TakeSnapshot captures the current state of g. timestamp is the
// caller-supplied time (milliseconds since the Unix epoch or since
// session start, at the caller's discretion); TakeSnapshot never reads
// the system clock itself.
func TakeSnapshot(g *Grid, timestamp int64) Snapshot {
	cells := make([]SnapshotCell, 0, g.Width*g.Height)
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			cell := g.CellAt(r, c)
			cells = append(cells, SnapshotCell{
				Char:  string(cell.Char),
				Fg:    colorToHex(g.Styles, cell.Fg, true),
				Bg:    colorToHex(g.Styles, cell.Bg, false),
				Attrs: cell.Attrs,
			})
		}
	}

	return Snapshot{
		Version:         snapshotVersion,
		Timestamp:       timestamp,
		Width:           g.Width,
		Height:          g.Height,
		CursorPos:       g.CursorPos,
		SavedCursorPos:  g.SavedCursorPos,
		ScrollPos:       g.ScrollPos(),
		ScrollTop:       g.ScrollTop,
		ScrollBottom:    g.ScrollBottom,
		AlternateActive: g.AlternateActive,
		CursorState: SnapshotCursor{
			Shape:    g.Styles.Cursor.Shape,
			Hidden:   g.Styles.Cursor.Hidden,
			Blinking: g.Styles.Cursor.Blinking,
		},
		ActiveFg: colorToHex(g.Styles, g.Styles.ActiveFg, true),
		ActiveBg: colorToHex(g.Styles, g.Styles.ActiveBg, false),
		Cells:    cells,
	}
}

// colorToHex resolves c to a "#rrggbb" string; a nil c falls back to
// DefaultFg when foreground is true and to DefaultBg otherwise.
func colorToHex(s *Styles, c Color, foreground bool) string {
	var rgba color.RGBA
	if c == nil {
		if foreground {
			rgba = s.DefaultFg
		} else {
			rgba = s.DefaultBg
		}
	} else {
		rgba = s.Resolve(c)
	}
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Restore rebuilds a Grid from a Snapshot. The returned grid's palette
// is DefaultPalette; resolved colors are carried as literal RGBA values
// rather than re-resolved symbolic colors, since a Snapshot only stores
// already-resolved hex strings.
func Restore(s Snapshot) *Grid {
	g := NewGrid(s.Width, s.Height)
	g.CursorPos = s.CursorPos
	g.SavedCursorPos = s.SavedCursorPos
	g.ScrollTop = s.ScrollTop
	g.ScrollBottom = s.ScrollBottom
	g.AlternateActive = s.AlternateActive
	g.Styles.Cursor = CursorState{
		Shape:    s.CursorState.Shape,
		Hidden:   s.CursorState.Hidden,
		Blinking: s.CursorState.Blinking,
	}
	g.Styles.ActiveFg = hexToColor(s.ActiveFg)
	g.Styles.ActiveBg = hexToColor(s.ActiveBg)

	for i, sc := range s.Cells {
		if i >= s.Width*s.Height {
			break
		}
		r, c := i/s.Width, i%s.Width
		ch := ' '
		for _, rn := range sc.Char {
			ch = rn
			break
		}
		g.SetCell(g.viewportTop()+r, c, Cell{
			Char:  ch,
			Fg:    hexToColor(sc.Fg),
			Bg:    hexToColor(sc.Bg),
			Attrs: sc.Attrs,
		})
	}
	g.ClearDirty()
	return g
}

func hexToColor(hex string) Color {
	if len(hex) != 7 || hex[0] != '#' {
		return nil
	}
	r, ok1 := hexByte(hex[1:3])
	gg, ok2 := hexByte(hex[3:5])
	b, ok3 := hexByte(hex[5:7])
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	return color.RGBA{R: r, G: gg, B: b, A: 255}
}

// DebugDir returns the platform config root plus "mtty/debug", the
// directory snapshots and recordings are written to.
func DebugDir() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "mtty", "debug"), nil
}

// SnapshotFilename formats the "snapshot_YYYYMMDD_HHMMSS.json" name for
// stamp (a "20060102_150405"-layout string the caller derives from its
// own clock).
func SnapshotFilename(stamp string) string {
	return fmt.Sprintf("snapshot_%s.json", stamp)
}

// RecordingFilename formats the "recording_YYYYMMDD_HHMMSS.json" name.
func RecordingFilename(stamp string) string {
	return fmt.Sprintf("recording_%s.json", stamp)
}

// SaveSnapshot writes s as indented JSON to path, creating parent
// directories as needed. Failures are returned to the caller (the
// SnapshotIO error kind is the one case where core errors are not
// silently recovered).
func SaveSnapshot(s Snapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads and decodes a Snapshot previously written by
// SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}
