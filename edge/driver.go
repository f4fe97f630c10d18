// Package edge advances a simulated hardware model one clock edge at a time.
//
// A Driver owns the model handle for the duration of a session. Each call to
// Tick produces one full clock period: the clock is driven high, declared
// loopback wiring is applied, the model is evaluated and trace hooks fire;
// the same sequence repeats with the clock low. The virtual edge counter
// therefore grows by two per tick. The counter only timestamps trace output
// and never feeds back into protocol logic.
package edge

import "github.com/sarchlab/busbench/hooking"

// VTimeInEdge is the virtual clock, counted in simulated edges.
type VTimeInEdge uint64

// Device is the signal surface of a simulated hardware model. The driver
// never inspects model state beyond the signal fields the protocol packages
// expose; Evaluate propagates the current input values through the model's
// internal logic.
type Device interface {
	SetClock(high bool)
	Evaluate()
}

// Resettable is a device with a reset input. ClearBusInputs must drive every
// bus request field (address, data, byte enables, direction, select, cycle,
// strobe, enable) to zero.
type Resettable interface {
	Device
	SetReset(active bool)
	ClearBusInputs()
}

// Loopback routes a model output pin back into one of its own input pins,
// emulating an external physical connection. The wiring is applied before
// every model evaluation.
type Loopback struct {
	From *bool
	To   *bool
}

// HookPosEdge is the position of hooks that fire after each edge has been
// evaluated. The hook context Item is the VTimeInEdge of the edge.
var HookPosEdge = &hooking.HookPos{Name: "Edge"}

// Driver advances a device through full clock periods.
type Driver struct {
	*hooking.HookableBase

	device    Device
	loopbacks []Loopback
	now       VTimeInEdge
}

// Tick advances the device through one full clock period, high phase first.
func (d *Driver) Tick() {
	d.halfPeriod(true)
	d.halfPeriod(false)
}

// TickN advances the device through n full clock periods.
func (d *Driver) TickN(n int) {
	for i := 0; i < n; i++ {
		d.Tick()
	}
}

func (d *Driver) halfPeriod(high bool) {
	d.device.SetClock(high)

	for _, lb := range d.loopbacks {
		*lb.To = *lb.From
	}

	d.device.Evaluate()
	d.now++

	d.InvokeHook(hooking.HookCtx{
		Domain: d,
		Pos:    HookPosEdge,
		Item:   d.now,
	})
}

// CurrentTime returns the number of edges evaluated so far.
func (d *Driver) CurrentTime() VTimeInEdge {
	return d.now
}
