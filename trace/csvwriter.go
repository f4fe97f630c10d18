package trace

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/hooking"
)

// CSVWriter stores sampled probe values in a CSV file, one row per edge.
type CSVWriter struct {
	path   string
	file   *os.File
	probes []Probe

	rows       []string
	bufferSize int
}

// NewCSVWriter creates a CSVWriter. An empty path picks a unique name.
func NewCSVWriter(path string, probes []Probe) *CSVWriter {
	validateProbes(probes)

	return &CSVWriter{
		path:       path,
		probes:     probes,
		bufferSize: 1000,
	}
}

// Init creates the trace file and writes the header. Creating over an
// existing file panics.
func (w *CSVWriter) Init() {
	if w.path == "" {
		w.path = "busbench_trace_" + xid.New().String()
	}

	filename := w.path + ".csv"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("trace: file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	w.file = file

	header := "Edge"
	for _, p := range w.probes {
		header += ", " + p.Name
	}
	fmt.Fprintln(file, header)

	atexit.Register(func() {
		w.Flush()
		if err := w.file.Close(); err != nil {
			panic(err)
		}
	})
}

// Func samples all probes. It implements hooking.Hook so the writer can be
// attached to an edge driver directly.
func (w *CSVWriter) Func(ctx hooking.HookCtx) {
	if ctx.Pos != edge.HookPosEdge {
		return
	}

	row := fmt.Sprintf("%d", ctx.Item.(edge.VTimeInEdge))
	for _, p := range w.probes {
		row += fmt.Sprintf(", %d", p.value())
	}

	w.rows = append(w.rows, row)
	if len(w.rows) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes buffered rows to the file.
func (w *CSVWriter) Flush() {
	for _, row := range w.rows {
		fmt.Fprintln(w.file, row)
	}

	w.rows = nil
}

var _ hooking.Hook = (*CSVWriter)(nil)
