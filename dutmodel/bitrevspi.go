package dutmodel

import (
	"github.com/sarchlab/busbench/apb"
	"github.com/sarchlab/busbench/spi"
)

// BitRevSPI models an SPI master wired to a bit-reversal slave behind a
// handshake register bus. A 16-bit transfer sends the upper byte of the
// transmit word to the slave and receives the bit-reversed form back in the
// lower byte.
//
// Ready is held low on the data registers while a transfer is in flight, so
// a read of TX0 issued right after GO extends with wait states until the
// transfer finishes. Every register access additionally takes the
// configured number of wait states.
type BitRevSPI struct {
	pins apb.Signals

	clk     bool
	prevClk bool
	reset   bool

	regs spi.RegisterMap
	bits spi.CtrlBits

	tx      uint32
	ctrl    uint32
	divider uint32
	ss      uint32

	busyEdges  int
	waitStates int
	waitLeft   int
}

// NewBitRevSPI creates the model in its post-power-on state.
func NewBitRevSPI() *BitRevSPI {
	return &BitRevSPI{
		regs: spi.DefaultRegisterMap(),
		bits: spi.DefaultCtrlBits(),
	}
}

// WithWaitStates makes every register access take n extra periods.
func (m *BitRevSPI) WithWaitStates(n int) *BitRevSPI {
	if n < 0 {
		panic("dutmodel: wait states must not be negative")
	}

	m.waitStates = n

	return m
}

// SetClock drives the bus clock input.
func (m *BitRevSPI) SetClock(high bool) {
	m.clk = high
}

// SetReset drives the reset input.
func (m *BitRevSPI) SetReset(active bool) {
	m.reset = active
}

// ClearBusInputs drives all bus request fields to zero.
func (m *BitRevSPI) ClearBusInputs() {
	m.pins.ClearRequest()
}

// APB returns the bus signal bundle.
func (m *BitRevSPI) APB() *apb.Signals {
	return &m.pins
}

// Evaluate propagates the current input values through the model.
func (m *BitRevSPI) Evaluate() {
	rising := m.clk && !m.prevClk
	m.prevClk = m.clk

	if rising {
		m.risingEdge()
	}

	// Read data is driven combinationally from the addressed register.
	if !m.pins.Write {
		m.pins.RData = m.readReg(m.pins.Addr)
	}
}

func (m *BitRevSPI) risingEdge() {
	if m.reset {
		m.resetState()
		return
	}

	m.stepTransfer()
	m.stepBus()
}

func (m *BitRevSPI) resetState() {
	m.tx = 0
	m.ctrl = 0
	m.divider = 0
	m.ss = 0
	m.busyEdges = 0
	m.waitLeft = 0
	m.pins.Ready = false
	m.pins.RData = 0
}

func (m *BitRevSPI) stepTransfer() {
	if m.busyEdges == 0 {
		return
	}

	m.busyEdges--
	if m.busyEdges > 0 {
		return
	}

	m.tx = uint32(spi.ReverseBits8(uint8(m.tx >> 8)))
	m.ctrl &^= m.bits.Go
}

func (m *BitRevSPI) stepBus() {
	p := &m.pins

	switch {
	case p.Sel && !p.Enable:
		m.waitLeft = m.waitStates
		p.Ready = false
	case p.Sel && p.Enable:
		if m.waitLeft == 0 && !m.accessBlocked(p.Addr) {
			m.commit()
			p.Ready = true

			return
		}

		if m.waitLeft > 0 {
			m.waitLeft--
		}
		p.Ready = false
	default:
		p.Ready = false
	}
}

// accessBlocked reports whether the addressed register is unavailable while
// a transfer is in flight. Only the data registers are blocked; the control
// register stays readable so completion can be polled.
func (m *BitRevSPI) accessBlocked(addr uint32) bool {
	if m.busyEdges == 0 {
		return false
	}

	return addr == m.regs.TX0 || addr == m.regs.TX1 ||
		addr == m.regs.TX2 || addr == m.regs.TX3
}

func (m *BitRevSPI) commit() {
	p := &m.pins

	if p.Write {
		m.writeReg(p.Addr, p.WData, p.Strb)
	}
}

func (m *BitRevSPI) writeReg(addr, data uint32, lanes uint8) {
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

func (m *BitRevSPI) writeCtrl(value uint32) {
	startRequested := value&m.bits.Go != 0 && m.busyEdges == 0

	m.ctrl = value

	if !startRequested {
		return
	}

	charLen := int(value & m.bits.CharLenMask)
	if charLen == 0 || charLen > 32 {
		charLen = 32
	}

	m.busyEdges = charLen * int(m.divider+1) * 2
}

func (m *BitRevSPI) readReg(addr uint32) uint32 {
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
