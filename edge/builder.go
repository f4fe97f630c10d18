package edge

import "github.com/sarchlab/busbench/hooking"

// Builder builds edge drivers.
type Builder struct {
	device    Device
	loopbacks []Loopback
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithDevice sets the device the driver advances.
func (b Builder) WithDevice(d Device) Builder {
	b.device = d
	return b
}

// WithLoopback declares combinational feedback wiring from one model pin to
// another. Wiring is applied in declaration order before each evaluation.
func (b Builder) WithLoopback(from, to *bool) Builder {
	b.loopbacks = append(b.loopbacks, Loopback{From: from, To: to})
	return b
}

// Build builds the driver.
func (b Builder) Build() *Driver {
	if b.device == nil {
		panic("edge: driver requires a device")
	}

	for _, lb := range b.loopbacks {
		if lb.From == nil || lb.To == nil {
			panic("edge: loopback wiring must connect two pins")
		}
	}

	return &Driver{
		HookableBase: hooking.NewHookableBase(),
		device:       b.device,
		loopbacks:    b.loopbacks,
	}
}
