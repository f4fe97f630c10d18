package apb

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/busbench/edge"
)

// ErrTimeout reports that a transaction exceeded its wait-state bound.
var ErrTimeout = errors.New("transaction timed out")

// StrbAll enables all four byte lanes of the data word.
const StrbAll = 0xF

// DefaultMaxWaitEdges bounds the access-phase wait loop. A malfunctioning
// model must not stall the whole run, so the bound errs on the large side.
const DefaultMaxWaitEdges = 500000

// Device is a simulated model that exposes a handshake bus.
type Device interface {
	edge.Device
	APB() *Signals
}

// Master issues register transactions over a handshake bus. Exactly one
// transaction is in flight at a time; issuing a transaction before the
// previous one has returned to idle panics.
type Master struct {
	device Device
	driver *edge.Driver

	maxWaitEdges   int
	holdAfterReady bool

	busy bool
}

// Write writes a full data word to a register.
func (m *Master) Write(addr, data uint32) error {
	return m.WriteMasked(addr, data, StrbAll)
}

// WriteMasked writes the byte lanes selected by strb to a register. The
// data and strobe fields stay stable from the moment select is asserted
// until completion.
func (m *Master) WriteMasked(addr, data uint32, strb uint8) error {
	m.enterTransaction()
	defer m.leaveTransaction()

	s := m.device.APB()

	s.Addr = addr
	s.WData = data
	s.Strb = strb
	s.Write = true
	s.Sel = true
	s.Enable = false
	m.driver.Tick()

	s.Enable = true
	if !m.waitReady() {
		log.Printf("apb: write 0x%08X did not complete within %d periods",
			addr, m.maxWaitEdges)
		m.teardown()

		return fmt.Errorf("apb: write 0x%08X: %w", addr, ErrTimeout)
	}

	if m.holdAfterReady {
		m.driver.Tick()
	}

	m.teardown()

	return nil
}

// Read reads a register and returns the data word sampled on the edge
// ready was first observed.
func (m *Master) Read(addr uint32) (uint32, error) {
	m.enterTransaction()
	defer m.leaveTransaction()

	s := m.device.APB()

	s.Addr = addr
	s.Strb = StrbAll
	s.Write = false
	s.Sel = true
	s.Enable = false
	m.driver.Tick()

	s.Enable = true
	if !m.waitReady() {
		log.Printf("apb: read 0x%08X did not complete within %d periods",
			addr, m.maxWaitEdges)
		m.teardown()

		return 0, fmt.Errorf("apb: read 0x%08X: %w", addr, ErrTimeout)
	}

	data := s.RData

	if m.holdAfterReady {
		m.driver.Tick()
	}

	m.teardown()

	return data, nil
}

func (m *Master) waitReady() bool {
	s := m.device.APB()

	for i := 0; i < m.maxWaitEdges; i++ {
		m.driver.Tick()
		if s.Ready {
			return true
		}
	}

	return false
}

func (m *Master) teardown() {
	s := m.device.APB()

	s.Sel = false
	s.Enable = false
	s.Write = false
	m.driver.Tick()
}

func (m *Master) enterTransaction() {
	if m.busy {
		panic("apb: transaction issued while another is in flight")
	}

	m.busy = true
}

func (m *Master) leaveTransaction() {
	m.busy = false
}
