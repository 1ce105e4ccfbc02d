package mtty

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func TestSessionRunAppliesBytes(t *testing.T) {
	source := bytes.NewBufferString("hi\r\n")
	var sink bytes.Buffer

	s := NewSession(source, &sink, 10, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := s.CellAt(0, 0).Char; got != 'h' {
		t.Errorf("expected 'h' at (0,0), got %q", got)
	}
	row, col := s.Cursor()
	_ = col
	if row.Row != 1 {
		t.Errorf("expected cursor row 1 after newline, got %d", row.Row)
	}
}

func TestSessionResizeDebounces(t *testing.T) {
	source := &blockingReader{}
	var sink bytes.Buffer
	s := NewSession(source, &sink, 10, 5)

	s.Resize(20, 10)
	s.Resize(30, 15)

	time.Sleep(250 * time.Millisecond)

	cols, rows := s.Dimensions()
	if cols != 30 || rows != 15 {
		t.Errorf("expected only the last resize (30x15) to apply, got %dx%d", cols, rows)
	}
}

func TestSessionDirtyTracking(t *testing.T) {
	source := bytes.NewBufferString("a")
	var sink bytes.Buffer
	s := NewSession(source, &sink, 10, 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Run(ctx)

	if !anyDirty(s.DirtyRows()) {
		t.Fatal("expected row 0 dirty after printing")
	}
	s.ClearDirty()
	if anyDirty(s.DirtyRows()) {
		t.Error("expected dirty bitset cleared")
	}
}

func anyDirty(rows []bool) bool {
	for _, d := range rows {
		if d {
			return true
		}
	}
	return false
}

// blockingReader never returns, simulating an idle PTY; it is only used
// where Run is not called, since a Read that never returns keeps Run
// from exiting even after cancellation.
type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

var _ io.Reader = blockingReader{}
