package apb

import "github.com/sarchlab/busbench/edge"

// Builder builds handshake bus masters.
type Builder struct {
	device         Device
	driver         *edge.Driver
	maxWaitEdges   int
	holdAfterReady bool
}

// MakeBuilder creates a builder with the default wait-state bound.
func MakeBuilder() Builder {
	return Builder{
		maxWaitEdges: DefaultMaxWaitEdges,
	}
}

// WithDevice sets the device the master drives.
func (b Builder) WithDevice(d Device) Builder {
	b.device = d
	return b
}

// WithDriver sets the edge driver the master advances the model with.
func (b Builder) WithDriver(d *edge.Driver) Builder {
	b.driver = d
	return b
}

// WithMaxWaitEdges bounds the number of access-phase periods spent waiting
// for ready before a transaction is abandoned.
func (b Builder) WithMaxWaitEdges(n int) Builder {
	if n <= 0 {
		b.maxWaitEdges = DefaultMaxWaitEdges
		return b
	}

	b.maxWaitEdges = n

	return b
}

// WithEnableHoldAfterReady keeps the enable line asserted for one extra
// period after ready is first observed. Models whose done-to-idle
// transition is registered lag the combinational ready signal by one edge;
// for those models the extra period is a protocol timing contract, and
// omitting it misaligns the following transaction's setup phase.
func (b Builder) WithEnableHoldAfterReady() Builder {
	b.holdAfterReady = true
	return b
}

// Build builds the master.
func (b Builder) Build() *Master {
	if b.device == nil {
		panic("apb: master requires a device")
	}

	if b.driver == nil {
		panic("apb: master requires an edge driver")
	}

	return &Master{
		device:         b.device,
		driver:         b.driver,
		maxWaitEdges:   b.maxWaitEdges,
		holdAfterReady: b.holdAfterReady,
	}
}
