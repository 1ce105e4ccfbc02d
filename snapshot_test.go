package mtty

import "testing"

func TestSnapshotRoundTrip(t *testing.T) {
	g := NewGrid(10, 5)
	for i, r := range "hi" {
		g.SetCell(0, i, Cell{Char: r})
	}
	g.CursorPos = Position{Row: 0, Col: 2}

	snap := TakeSnapshot(g, 1000)
	restored := Restore(snap)
	again := TakeSnapshot(restored, 1000)

	if snap.Width != again.Width || snap.Height != again.Height {
		t.Fatalf("dimensions differ: %dx%d vs %dx%d", snap.Width, snap.Height, again.Width, again.Height)
	}
	if snap.CursorPos != again.CursorPos {
		t.Errorf("cursor differs: %+v vs %+v", snap.CursorPos, again.CursorPos)
	}
	if len(snap.Cells) != len(again.Cells) {
		t.Fatalf("cell count differs: %d vs %d", len(snap.Cells), len(again.Cells))
	}
	for i := range snap.Cells {
		if snap.Cells[i] != again.Cells[i] {
			t.Errorf("cell %d differs: %+v vs %+v", i, snap.Cells[i], again.Cells[i])
		}
	}
}

func TestSnapshotVersionStamped(t *testing.T) {
	g := NewGrid(80, 24)
	snap := TakeSnapshot(g, 0)
	if snap.Version != "1.0" {
		t.Errorf("expected version 1.0, got %q", snap.Version)
	}
}

func TestSnapshotFilenames(t *testing.T) {
	if got := SnapshotFilename("20260101_120000"); got != "snapshot_20260101_120000.json" {
		t.Errorf("unexpected snapshot filename: %s", got)
	}
	if got := RecordingFilename("20260101_120000"); got != "recording_20260101_120000.json" {
		t.Errorf("unexpected recording filename: %s", got)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	g := NewGrid(10, 5)
	g.SetCell(0, 0, Cell{Char: 'Q'})
	snap := TakeSnapshot(g, 42)

	path := dir + "/snapshot_test.json"
	if err := SaveSnapshot(snap, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Timestamp != 42 {
		t.Errorf("expected timestamp 42, got %d", loaded.Timestamp)
	}
	if loaded.Cells[0].Char != "Q" {
		t.Errorf("expected cell 0 char Q, got %q", loaded.Cells[0].Char)
	}
}
