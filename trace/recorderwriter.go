package trace

import (
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/hooking"
	"github.com/sarchlab/busbench/recording"
)

const traceTable = "edge_trace"

// EdgeRecord is the per-probe, per-edge row stored by the data recorder.
type EdgeRecord struct {
	Edge  uint64
	Probe string
	Value uint64
}

// RecorderWriter stores sampled probe values through a data recorder, so a
// waveform ends up in the same database as the session's check results.
type RecorderWriter struct {
	recorder recording.DataRecorder
	probes   []Probe
}

// NewRecorderWriter creates a RecorderWriter and its backing table.
func NewRecorderWriter(
	recorder recording.DataRecorder,
	probes []Probe,
) *RecorderWriter {
	validateProbes(probes)

	recorder.CreateTable(traceTable, EdgeRecord{})

	return &RecorderWriter{
		recorder: recorder,
		probes:   probes,
	}
}

// Func samples all probes. It implements hooking.Hook.
func (w *RecorderWriter) Func(ctx hooking.HookCtx) {
	if ctx.Pos != edge.HookPosEdge {
		return
	}

	now := uint64(ctx.Item.(edge.VTimeInEdge))
	for _, p := range w.probes {
		w.recorder.InsertData(traceTable, EdgeRecord{
			Edge:  now,
			Probe: p.Name,
			Value: p.value(),
		})
	}
}

var _ hooking.Hook = (*RecorderWriter)(nil)
