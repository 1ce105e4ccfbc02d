package mtty

import "testing"

func TestRecorderRecordsSequentially(t *testing.T) {
	g := NewGrid(10, 5)
	rec := NewRecorder(g, 0)

	seq1 := rec.Record(Print{Char: 'a'}, 10)
	seq2 := rec.Record(Print{Char: 'b'}, 20)

	if seq1 != 1 || seq2 != 2 {
		t.Errorf("expected sequence 1,2, got %d,%d", seq1, seq2)
	}
	if rec.EventCount() != 2 {
		t.Errorf("expected 2 events, got %d", rec.EventCount())
	}
}

func TestRecorderFinishCapturesFinalState(t *testing.T) {
	g := NewGrid(10, 5)
	rec := NewRecorder(g, 0)
	rec.Record(Print{Char: 'a'}, 10)

	g.SetCell(0, 0, Cell{Char: 'z'})
	recording := rec.Finish(g, 100)

	if recording.FinalState == nil {
		t.Fatal("expected FinalState to be set")
	}
	if recording.FinalState.Cells[0].Char != "z" {
		t.Errorf("expected final state to reflect last mutation, got %q", recording.FinalState.Cells[0].Char)
	}
}

func TestPlayerStepForwardAndBack(t *testing.T) {
	g := NewGrid(10, 5)
	rec := NewRecorder(g, 0)
	rec.Record(Print{Char: 'a'}, 1)
	rec.Record(Print{Char: 'b'}, 2)
	recording := rec.Finish(g, 3)

	player := NewPlayer(recording)
	if player.Position() != -1 {
		t.Fatalf("expected initial position -1, got %d", player.Position())
	}

	ev, ok := player.StepForward()
	if !ok || ev.Sequence != 1 {
		t.Fatalf("expected first event seq 1, got %+v ok=%v", ev, ok)
	}

	ev, ok = player.StepForward()
	if !ok || ev.Sequence != 2 {
		t.Fatalf("expected second event seq 2, got %+v ok=%v", ev, ok)
	}

	if !player.IsFinished() {
		t.Error("expected player finished after last event")
	}

	ev, ok = player.StepBackward()
	if !ok || ev.Sequence != 1 {
		t.Fatalf("expected step back to seq 1, got %+v ok=%v", ev, ok)
	}
}

func TestPlayerSeekClamps(t *testing.T) {
	g := NewGrid(10, 5)
	rec := NewRecorder(g, 0)
	rec.Record(Print{Char: 'a'}, 1)
	recording := rec.Finish(g, 2)

	player := NewPlayer(recording)
	player.Seek(100)
	if player.Position() != 0 {
		t.Errorf("expected seek to clamp to last index 0, got %d", player.Position())
	}

	player.Seek(-50)
	if player.Position() != -1 {
		t.Errorf("expected seek to clamp to -1, got %d", player.Position())
	}
}

func TestRecordingJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := NewGrid(10, 5)
	rec := NewRecorder(g, 0)
	rec.Record(Print{Char: 'a'}, 1)
	rec.Record(SGR{Attribute: SgrAttribute{Kind: SgrForeground, Color: &NamedColor{Name: ColorRed}}}, 2)
	rec.Record(MoveCursor{Row: 1, Col: 2}, 3)
	recording := rec.Finish(g, 4)

	path := dir + "/recording_test.json"
	if err := SaveRecording(recording, path); err != nil {
		t.Fatalf("SaveRecording: %v", err)
	}

	player, err := LoadRecordingFile(path)
	if err != nil {
		t.Fatalf("LoadRecordingFile: %v", err)
	}
	if player.TotalEvents() != 3 {
		t.Fatalf("expected 3 events, got %d", player.TotalEvents())
	}

	ev, _ := player.EventAt(0)
	if _, ok := ev.Command.(Print); !ok {
		t.Errorf("expected event 0 to decode as Print, got %#v", ev.Command)
	}

	ev, _ = player.EventAt(1)
	sgr, ok := ev.Command.(SGR)
	if !ok {
		t.Fatalf("expected event 1 to decode as SGR, got %#v", ev.Command)
	}
	named, ok := sgr.Attribute.Color.(*NamedColor)
	if !ok || named.Name != ColorRed {
		t.Errorf("expected decoded color to be NamedColor(Red), got %#v", sgr.Attribute.Color)
	}

	ev, _ = player.EventAt(2)
	mc, ok := ev.Command.(MoveCursor)
	if !ok || mc.Row != 1 || mc.Col != 2 {
		t.Errorf("expected MoveCursor{1,2}, got %#v", ev.Command)
	}
}
