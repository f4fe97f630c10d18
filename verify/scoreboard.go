// Package verify compares observed register values against expectations and
// accumulates pass/fail totals for a test session.
package verify

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/busbench/recording"
)

// MaskAll compares every bit of the data word.
const MaskAll = 0xFFFFFFFF

const checkTable = "check_results"

// CheckRecord is the per-check row stored by the data recorder.
type CheckRecord struct {
	Name     string
	Expected uint32
	Actual   uint32
	Mask     uint32
	Passed   bool
}

// Scoreboard records comparison outcomes. A mismatch is a recorded fact,
// not a propagated failure; only the final counters decide the session's
// exit status.
type Scoreboard struct {
	passed int
	failed int

	w        io.Writer
	recorder recording.DataRecorder
}

// NewScoreboard creates a scoreboard that writes check lines to stdout.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{w: os.Stdout}
}

// WithWriter redirects the human-readable check lines.
func (s *Scoreboard) WithWriter(w io.Writer) *Scoreboard {
	s.w = w
	return s
}

// WithRecorder additionally stores each check in the data recorder.
func (s *Scoreboard) WithRecorder(r recording.DataRecorder) *Scoreboard {
	s.recorder = r
	s.recorder.CreateTable(checkTable, CheckRecord{})

	return s
}

// Check compares every bit of expected and actual.
func (s *Scoreboard) Check(name string, expected, actual uint32) bool {
	return s.CheckMasked(name, expected, actual, MaskAll)
}

// CheckMasked applies mask to both values, compares them, counts the
// outcome, and emits one PASS or FAIL line.
func (s *Scoreboard) CheckMasked(name string, expected, actual, mask uint32) bool {
	expected &= mask
	actual &= mask

	ok := expected == actual
	if ok {
		s.passed++
		fmt.Fprintf(s.w, "  PASS %s: expected 0x%X, got 0x%X\n",
			name, expected, actual)
	} else {
		s.failed++
		fmt.Fprintf(s.w, "  FAIL %s: expected 0x%X, got 0x%X\n",
			name, expected, actual)
	}

	if s.recorder != nil {
		s.recorder.InsertData(checkTable, CheckRecord{
			Name:     name,
			Expected: expected,
			Actual:   actual,
			Mask:     mask,
			Passed:   ok,
		})
	}

	return ok
}

// Passed returns the number of passed checks.
func (s *Scoreboard) Passed() int {
	return s.passed
}

// Failed returns the number of failed checks.
func (s *Scoreboard) Failed() int {
	return s.failed
}

// Summary writes the final counter line.
func (s *Scoreboard) Summary() {
	fmt.Fprintf(s.w, "Results: %d passed, %d failed\n", s.passed, s.failed)
}

// ExitCode is 0 when no check failed and 1 otherwise. It is the sole
// machine-readable contract of a run.
func (s *Scoreboard) ExitCode() int {
	if s.failed > 0 {
		return 1
	}

	return 0
}
