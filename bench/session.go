// Package bench assembles the per-run state of a verification session: the
// edge driver that owns the model, the scoreboard that accumulates check
// outcomes, and the optional data recorder. A session replaces the
// process-wide counters and handles a hand-written testbench would use, so
// several sessions can coexist in one process.
package bench

import (
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/recording"
	"github.com/sarchlab/busbench/verify"
)

// Session owns the shared state of one verification run.
type Session struct {
	id string

	driver     *edge.Driver
	scoreboard *verify.Scoreboard
	recorder   recording.DataRecorder
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Driver returns the edge driver that owns the model handle.
func (s *Session) Driver() *edge.Driver {
	return s.driver
}

// Scoreboard returns the session's scoreboard.
func (s *Session) Scoreboard() *verify.Scoreboard {
	return s.scoreboard
}

// Recorder returns the session's data recorder, or nil when recording is
// disabled.
func (s *Session) Recorder() recording.DataRecorder {
	return s.recorder
}

// Terminate flushes and releases the session's resources. The scoreboard
// stays readable so the caller can derive the exit status.
func (s *Session) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
	}
}
