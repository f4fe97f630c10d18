package dutmodel

import (
	"github.com/sarchlab/busbench/spi"
	"github.com/sarchlab/busbench/wishbone"
)

// LoopbackSPI models an SPI master controller behind a single-cycle-ack
// register bus. The serial pads are exposed as pins; wiring Mosi back into
// Miso through the edge driver emulates the external loopback harness, in
// which case a transfer receives exactly the data it sent.
//
// Acknowledge is registered, so every register access completes with one
// wait cycle.
type LoopbackSPI struct {
	// Mosi and Miso are the serial pads. The model drives Mosi; Miso is an
	// input, typically fed by loopback wiring.
	Mosi bool
	Miso bool

	pins wishbone.Signals

	clk     bool
	prevClk bool
	reset   bool

	regs spi.RegisterMap
	bits spi.CtrlBits

	tx      uint32
	ctrl    uint32
	divider uint32
	ss      uint32

	// shift engine state, live while a transfer is in flight
	shiftLen    int
	bitIdx      int
	rx          uint32
	edgesLeft   int
	periodEdges int
}

// NewLoopbackSPI creates the model in its post-power-on state.
func NewLoopbackSPI() *LoopbackSPI {
	return &LoopbackSPI{
		regs: spi.DefaultRegisterMap(),
		bits: spi.DefaultCtrlBits(),
	}
}

// SetClock drives the bus clock input.
func (m *LoopbackSPI) SetClock(high bool) {
	m.clk = high
}

// SetReset drives the reset input.
func (m *LoopbackSPI) SetReset(active bool) {
	m.reset = active
}

// ClearBusInputs drives all bus request fields to zero.
func (m *LoopbackSPI) ClearBusInputs() {
	m.pins.ClearRequest()
	m.Miso = false
}

// Wishbone returns the bus signal bundle.
func (m *LoopbackSPI) Wishbone() *wishbone.Signals {
	return &m.pins
}

// Evaluate propagates the current input values through the model.
func (m *LoopbackSPI) Evaluate() {
	rising := m.clk && !m.prevClk
	m.prevClk = m.clk

	if !rising {
		return
	}

	if m.reset {
		m.resetState()
		return
	}

	m.stepTransfer()
	m.stepBus()
}

func (m *LoopbackSPI) resetState() {
	m.tx = 0
	m.ctrl = 0
	m.divider = 0
	m.ss = 0
	m.shiftLen = 0
	m.Mosi = false
	m.pins.Ack = false
	m.pins.RData = 0
}

func (m *LoopbackSPI) busy() bool {
	return m.ctrl&m.bits.Go != 0
}

func (m *LoopbackSPI) stepTransfer() {
	if !m.busy() || m.shiftLen == 0 {
		return
	}

	m.edgesLeft--
	if m.edgesLeft > 0 {
		return
	}

	// One full SCLK period has elapsed: the slave (or the loopback) has had
	// the current bit on Miso since the period started. Sample it, then
	// present the next bit.
	m.rx = m.rx<<1 | boolBit(m.Miso)
	m.bitIdx--

	if m.bitIdx > 0 {
		m.Mosi = m.tx>>(m.bitIdx-1)&1 != 0
		m.edgesLeft = m.periodEdges

		return
	}

	m.tx = m.rx
	m.ctrl &^= m.bits.Go
	m.shiftLen = 0
	m.Mosi = false
}

func (m *LoopbackSPI) stepBus() {
	p := &m.pins

	if !(p.Cyc && p.Stb) || p.Ack {
		p.Ack = false
		return
	}

	if p.We {
		m.writeReg(p.Addr, p.WData, p.Sel)
	} else {
		p.RData = m.readReg(p.Addr)
	}

	p.Ack = true
}

func (m *LoopbackSPI) writeReg(addr, data uint32, lanes uint8) {
	switch addr {
	case m.regs.TX0:
		m.tx = mergeLanes(m.tx, data, lanes)
	case m.regs.Ctrl:
		m.writeCtrl(mergeLanes(m.ctrl, data, lanes))
	case m.regs.Divider:
		m.divider = mergeLanes(m.divider, data, lanes) & 0xFFFF
	case m.regs.SS:
		m.ss = mergeLanes(m.ss, data, lanes) & 0xFF
	}
}

func (m *LoopbackSPI) writeCtrl(value uint32) {
	startRequested := value&m.bits.Go != 0 && !m.busy()

	m.ctrl = value

	if !startRequested {
		return
	}

	charLen := int(value & m.bits.CharLenMask)
	if charLen == 0 || charLen > 32 {
		charLen = 32
	}

	m.shiftLen = charLen
	m.bitIdx = charLen
	m.rx = 0
	m.periodEdges = int(m.divider+1) * 2
	m.edgesLeft = m.periodEdges
	m.Mosi = m.tx>>(charLen-1)&1 != 0
}

func (m *LoopbackSPI) readReg(addr uint32) uint32 {
	switch addr {
	case m.regs.TX0:
		return m.tx
	case m.regs.Ctrl:
		return m.ctrl
	case m.regs.Divider:
		return m.divider
	case m.regs.SS:
		return m.ss
	}

	return 0
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}

	return 0
}
