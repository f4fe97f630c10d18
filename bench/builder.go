package bench

import (
	"io"
	"os"

	"github.com/rs/xid"

	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/recording"
	"github.com/sarchlab/busbench/verify"
)

// Builder builds verification sessions.
type Builder struct {
	device     edge.Device
	loopbacks  []edge.Loopback
	output     io.Writer
	recording  bool
	recordPath string
}

// MakeBuilder creates a builder with defaults: check lines to stdout, no
// recording.
func MakeBuilder() Builder {
	return Builder{
		output: os.Stdout,
	}
}

// WithDevice sets the model the session drives.
func (b Builder) WithDevice(d edge.Device) Builder {
	b.device = d
	return b
}

// WithLoopback declares combinational feedback wiring on the edge driver.
func (b Builder) WithLoopback(from, to *bool) Builder {
	b.loopbacks = append(b.loopbacks, edge.Loopback{From: from, To: to})
	return b
}

// WithOutput redirects the human-readable check lines.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.output = w
	return b
}

// WithRecording stores check results in a SQLite database at path. An
// empty path picks a unique name derived from the session ID.
func (b Builder) WithRecording(path string) Builder {
	b.recording = true
	b.recordPath = path

	return b
}

// Build builds the session.
func (b Builder) Build() *Session {
	s := &Session{
		id: xid.New().String(),
	}

	driverBuilder := edge.MakeBuilder().WithDevice(b.device)
	for _, lb := range b.loopbacks {
		driverBuilder = driverBuilder.WithLoopback(lb.From, lb.To)
	}
	s.driver = driverBuilder.Build()

	s.scoreboard = verify.NewScoreboard().WithWriter(b.output)

	if b.recording {
		path := b.recordPath
		if path == "" {
			path = "busbench_" + s.id
		}

		s.recorder = recording.New(path)
		s.scoreboard.WithRecorder(s.recorder)
	}

	return s
}
