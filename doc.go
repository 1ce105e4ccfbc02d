// Package mtty implements the core of a terminal emulator: a VT/ANSI
// parser that turns a byte stream into Commands, a Grid that models the
// character matrix those Commands mutate, and the plumbing (Session,
// Snapshot, Recording) that ties them to a PTY and a renderer.
//
// The three pieces compose in one direction only: Parser produces
// Commands, Applier consumes them against a Grid, Session wires a
// ByteSource/ByteSink pair through both. A Renderer reads the Grid
// through Session's CellAt/Cursor/DirtyRows view; it is never given
// write access.
package mtty
