package dutmodel

import (
	"github.com/sarchlab/busbench/apb"
	"github.com/sarchlab/busbench/storage"
)

// DefaultPSRAMCapacity is the backing memory size of the modeled part.
const DefaultPSRAMCapacity = 1 << 20

type psramState int

const (
	psramIdle psramState = iota
	psramXfer
	psramDone
)

// PSRAM models a QSPI PSRAM controller behind a handshake register bus.
// Bus accesses map straight onto external storage: writes store the byte
// lanes selected by the strobes, reads assemble the addressed word.
//
// The controller's done-to-idle transition is registered and only fires
// while enable is still asserted, lagging the combinational ready signal by
// one edge. Masters must therefore hold enable one extra period after
// observing ready; dropping it immediately leaves ready asserted into the
// next transaction's setup phase.
type PSRAM struct {
	pins apb.Signals

	clk     bool
	prevClk bool
	reset   bool

	mem storage.Storage

	state      psramState
	waitStates int
	waitLeft   int
	rdata      uint32
}

// NewPSRAM creates the model over the given storage.
func NewPSRAM(mem storage.Storage) *PSRAM {
	if mem == nil {
		panic("dutmodel: PSRAM requires storage")
	}

	return &PSRAM{mem: mem}
}

// WithWaitStates makes every access take n extra periods before completing.
func (m *PSRAM) WithWaitStates(n int) *PSRAM {
	if n < 0 {
		panic("dutmodel: wait states must not be negative")
	}

	m.waitStates = n

	return m
}

// SetClock drives the bus clock input.
func (m *PSRAM) SetClock(high bool) {
	m.clk = high
}

// SetReset drives the reset input.
func (m *PSRAM) SetReset(active bool) {
	m.reset = active
}

// ClearBusInputs drives all bus request fields to zero.
func (m *PSRAM) ClearBusInputs() {
	m.pins.ClearRequest()
}

// APB returns the bus signal bundle.
func (m *PSRAM) APB() *apb.Signals {
	return &m.pins
}

// Evaluate propagates the current input values through the model.
func (m *PSRAM) Evaluate() {
	rising := m.clk && !m.prevClk
	m.prevClk = m.clk

	if rising {
		m.risingEdge()
	}

	// Ready is driven combinationally from the state register; read data
	// is driven from the capture register.
	m.pins.Ready = m.state == psramDone
	m.pins.RData = m.rdata
}

func (m *PSRAM) risingEdge() {
	if m.reset {
		m.state = psramIdle
		m.waitLeft = 0
		m.rdata = 0

		return
	}

	p := &m.pins

	switch m.state {
	case psramIdle:
		if p.Sel && p.Enable {
			m.state = psramXfer
			m.waitLeft = m.waitStates
		}
	case psramXfer:
		if m.waitLeft > 0 {
			m.waitLeft--
			return
		}

		m.access()
		m.state = psramDone
	case psramDone:
		if p.Enable {
			m.state = psramIdle
		}
	}
}

func (m *PSRAM) access() {
	p := &m.pins
	wordAddr := p.Addr &^ 3

	if p.Write {
		for i := 0; i < 4; i++ {
			if p.Strb>>i&1 == 0 {
				continue
			}

			m.mem.Write(wordAddr+uint32(i), byte(p.WData>>(8*i)))
		}

		return
	}

	var word uint32
	for i := 0; i < 4; i++ {
		word |= uint32(m.mem.Read(wordAddr+uint32(i))) << (8 * i)
	}
	m.rdata = word
}
