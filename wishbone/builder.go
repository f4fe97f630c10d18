package wishbone

import "github.com/sarchlab/busbench/edge"

// Builder builds single-cycle-ack bus masters.
type Builder struct {
	device         Device
	driver         *edge.Driver
	maxWaitEdges   int
	maxStatusPolls int
}

// MakeBuilder creates a builder with the default wait bounds.
func MakeBuilder() Builder {
	return Builder{
		maxWaitEdges:   DefaultMaxWaitEdges,
		maxStatusPolls: DefaultMaxStatusPolls,
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

// WithMaxWaitEdges bounds the number of periods spent waiting for
// acknowledge before a transaction is abandoned.
func (b Builder) WithMaxWaitEdges(n int) Builder {
	if n <= 0 {
		b.maxWaitEdges = DefaultMaxWaitEdges
		return b
	}

	b.maxWaitEdges = n

	return b
}

// WithMaxStatusPolls bounds the number of reads WaitUntilClear issues.
func (b Builder) WithMaxStatusPolls(n int) Builder {
	if n <= 0 {
		b.maxStatusPolls = DefaultMaxStatusPolls
		return b
	}

	b.maxStatusPolls = n

	return b
}

// Build builds the master.
func (b Builder) Build() *Master {
	if b.device == nil {
		panic("wishbone: master requires a device")
	}

	if b.driver == nil {
		panic("wishbone: master requires an edge driver")
	}

	return &Master{
		device:         b.device,
		driver:         b.driver,
		maxWaitEdges:   b.maxWaitEdges,
		maxStatusPolls: b.maxStatusPolls,
	}
}
