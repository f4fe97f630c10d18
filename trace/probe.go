// Package trace captures per-edge signal values from an edge driver.
// Writers attach to the driver as hooks and sample a declared set of probes
// after every edge. Tracing never affects protocol correctness; a session
// runs identically with no writer attached.
package trace

import "fmt"

// Probe names one model signal to sample. Exactly one of Bit and Word must
// be set.
type Probe struct {
	Name string
	Bit  *bool
	Word *uint32
}

func (p Probe) value() uint64 {
	if p.Bit != nil {
		if *p.Bit {
			return 1
		}

		return 0
	}

	return uint64(*p.Word)
}

func validateProbes(probes []Probe) {
	for _, p := range probes {
		if p.Name == "" {
			panic("trace: probe requires a name")
		}

		if (p.Bit == nil) == (p.Word == nil) {
			panic(fmt.Sprintf(
				"trace: probe %s must point at exactly one signal", p.Name))
		}
	}
}
