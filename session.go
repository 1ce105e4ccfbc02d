package mtty

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// ByteSource is the PTY's read side: an opaque stream yielding bytes
// until EOF. io.Reader already has this exact shape.
type ByteSource = io.Reader

// ByteSink is the PTY's write side. Write failures are non-fatal to the
// core; callers that care about delivery should wrap their sink.
type ByteSink = io.Writer

const commandQueueCapacity = 10_000

const resizeDebounceWindow = 100 * time.Millisecond

// Session wires a ByteSource through a Parser and a command queue to an
// Applier that owns the Grid, and exposes a read view of the Grid for a
// Renderer running on its own goroutine. It is the only place the core
// introduces concurrency.
type Session struct {
	mu      sync.RWMutex
	grid    *Grid
	applier *Applier
	parser  *Parser

	source ByteSource
	sink   ByteSink

	commands chan Command

	resizeMu       sync.Mutex
	debouncedResize func(func())

	recorder  *Recorder
	recording bool
	startedAt time.Time
}

// NewSession constructs a Session with a freshly allocated Grid of the
// given size. Replies from the Applier (DSR, DA1/DA2) are written to
// sink, the same stream input bytes are written to.
func NewSession(source ByteSource, sink ByteSink, cols, rows int) *Session {
	grid := NewGrid(cols, rows)
	s := &Session{
		grid:            grid,
		applier:         NewApplier(grid, sink),
		parser:          NewParser(),
		source:          source,
		sink:            sink,
		commands:        make(chan Command, commandQueueCapacity),
		debouncedResize: debounce.New(resizeDebounceWindow),
		startedAt:       time.Now(),
	}
	return s
}

// StartRecording begins capturing every applied Command into a
// Recording, seeded from the Grid's current state.
func (s *Session) StartRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = NewRecorder(s.grid, s.elapsedMs())
	s.recording = true
}

// FinishRecording stops capturing and returns the completed Recording.
// It is the caller's responsibility to persist it (e.g. via
// SaveRecording). Returns false if no recording was in progress.
func (s *Session) FinishRecording() (Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return Recording{}, false
	}
	s.recording = false
	rec := s.recorder.Finish(s.grid, s.elapsedMs())
	s.recorder = nil
	return rec, true
}

func (s *Session) elapsedMs() int64 {
	return time.Since(s.startedAt).Milliseconds()
}

// Run drives the PTY-reader and Applier tasks until ctx is cancelled or
// the byte source reaches EOF. It blocks until both tasks exit.
func (s *Session) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	var readErr error
	go func() {
		defer wg.Done()
		defer cancel() // EOF or a read error ends the session too.
		readErr = s.readLoop(runCtx)
	}()
	go func() {
		defer wg.Done()
		s.applyLoop(runCtx)
	}()

	wg.Wait()
	return readErr
}

// readLoop is the PTY-reader task: it reads raw bytes, feeds the
// Parser, and pushes the resulting Commands onto the bounded queue,
// blocking (never dropping) when the queue is full.
func (s *Session) readLoop(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		n, err := s.source.Read(buf)
		if n > 0 {
			for _, cmd := range s.parser.Parse(buf[:n]) {
				select {
				case s.commands <- cmd:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// applyLoop is the Applier task: it drains the command queue and
// mutates the Grid under the session's write lock, recording each
// command if a Recorder is active.
func (s *Session) applyLoop(ctx context.Context) {
	for {
		var cmd Command
		select {
		case cmd = <-s.commands:
		case <-ctx.Done():
			// Apply whatever the reader queued before the session ended.
			select {
			case cmd = <-s.commands:
			default:
				return
			}
		}
		s.mu.Lock()
		s.applier.Apply(cmd)
		if s.recording {
			s.recorder.Record(cmd, s.elapsedMs())
		}
		s.mu.Unlock()
	}
}

// WriteInput sends already-encoded bytes (see KeyEvent.Bytes) to the
// PTY sink. Failures are logged and swallowed, matching the core's
// policy of never propagating I/O errors upward.
func (s *Session) WriteInput(data []byte) {
	if _, err := s.sink.Write(data); err != nil {
		log.Printf("mtty: input write dropped: %v", err)
	}
}

// Resize requests a grid resize, debounced by a 100ms trailing window:
// only the last of a burst of Resize calls within the window actually
// resizes the grid.
func (s *Session) Resize(cols, rows int) {
	s.resizeMu.Lock()
	resize := s.debouncedResize
	s.resizeMu.Unlock()

	resize(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.grid.Resize(cols, rows)
	})
}

// Dimensions returns the grid's current (cols, rows).
func (s *Session) Dimensions() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Width, s.grid.Height
}

// CellAt returns the cell at viewport-relative (row, col).
func (s *Session) CellAt(row, col int) Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.CellAt(row, col)
}

// Cursor returns the cursor's (row, col) and current CursorState.
func (s *Session) Cursor() (Position, CursorState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.CursorPos, s.grid.Styles.Cursor
}

// DirtyRows returns the current dirty bitset.
func (s *Session) DirtyRows() []bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.DirtyRows()
}

// ClearDirty resets the dirty bitset; called by the Renderer after a
// successful draw.
func (s *Session) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.ClearDirty()
}

// Snapshot takes a point-in-time Snapshot of the session's Grid.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TakeSnapshot(s.grid, s.elapsedMs())
}

// BracketedPasteEnabled reports whether the application currently
// running in the PTY has requested bracketed-paste mode.
func (s *Session) BracketedPasteEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.BracketedPaste
}
