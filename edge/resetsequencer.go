package edge

// MinResetCycles is the smallest number of full clock periods reset may be
// held active. Models with internal clock dividers need several periods for
// the active-reset state to propagate.
const MinResetCycles = 10

// ResetSequencer drives a device's reset input through the standard
// power-on sequence: reset active with all bus requests cleared for a fixed
// number of periods, then released, then one more period to observe the
// de-asserted state.
type ResetSequencer struct {
	driver     *Driver
	device     Resettable
	holdCycles int
}

// NewResetSequencer creates a sequencer that holds reset for MinResetCycles
// periods.
func NewResetSequencer(driver *Driver, device Resettable) *ResetSequencer {
	return &ResetSequencer{
		driver:     driver,
		device:     device,
		holdCycles: MinResetCycles,
	}
}

// WithHoldCycles overrides the number of periods reset stays active.
func (r *ResetSequencer) WithHoldCycles(n int) *ResetSequencer {
	if n < MinResetCycles {
		panic("edge: reset must be held for at least MinResetCycles periods")
	}

	r.holdCycles = n

	return r
}

// Reset runs the sequence. On return the device is in a known idle state
// with no transaction outstanding.
func (r *ResetSequencer) Reset() {
	r.device.SetReset(true)
	r.device.ClearBusInputs()

	r.driver.TickN(r.holdCycles)

	r.device.SetReset(false)
	r.driver.Tick()
}
