package wishbone

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/busbench/edge"
)

// ErrTimeout reports that a transaction or status poll exceeded its bound.
var ErrTimeout = errors.New("transaction timed out")

// SelAll enables all four byte lanes of the data word.
const SelAll = 0xF

// DefaultMaxWaitEdges bounds the acknowledge wait loop.
const DefaultMaxWaitEdges = 500000

// DefaultMaxStatusPolls bounds the number of status-register reads
// WaitUntilClear issues before giving up.
const DefaultMaxStatusPolls = 100000

// Device is a simulated model that exposes a single-cycle-ack bus.
type Device interface {
	edge.Device
	Wishbone() *Signals
}

// Master issues register transactions over a single-cycle-ack bus. Exactly
// one transaction is in flight at a time; issuing a transaction before the
// previous one has returned to idle panics.
type Master struct {
	device Device
	driver *edge.Driver

	maxWaitEdges   int
	maxStatusPolls int

	busy bool
}

// Write writes a full data word to a register.
func (m *Master) Write(addr, data uint32) error {
	return m.WriteMasked(addr, data, SelAll)
}

// WriteMasked writes the byte lanes selected by sel to a register.
func (m *Master) WriteMasked(addr, data uint32, sel uint8) error {
	m.enterTransaction()
	defer m.leaveTransaction()

	s := m.device.Wishbone()

	s.Addr = addr
	s.WData = data
	s.Sel = sel
	s.We = true
	s.Stb = true
	s.Cyc = true

	if !m.waitAck() {
		log.Printf("wishbone: write 0x%08X did not complete within %d periods",
			addr, m.maxWaitEdges)
		m.teardown()

		return fmt.Errorf("wishbone: write 0x%08X: %w", addr, ErrTimeout)
	}

	m.teardown()

	return nil
}

// Read reads a register and returns the data word sampled on the edge
// acknowledge was first observed.
func (m *Master) Read(addr uint32) (uint32, error) {
	m.enterTransaction()
	defer m.leaveTransaction()

	s := m.device.Wishbone()

	s.Addr = addr
	s.Sel = SelAll
	s.We = false
	s.Stb = true
	s.Cyc = true

	if !m.waitAck() {
		log.Printf("wishbone: read 0x%08X did not complete within %d periods",
			addr, m.maxWaitEdges)
		m.teardown()

		return 0, fmt.Errorf("wishbone: read 0x%08X: %w", addr, ErrTimeout)
	}

	data := s.RData

	m.teardown()

	return data, nil
}

// WaitUntilClear reads the status register until every bit in mask reads
// zero. It returns ErrTimeout once the poll bound is exceeded, or the first
// read error.
func (m *Master) WaitUntilClear(statusAddr, mask uint32) error {
	for i := 0; i < m.maxStatusPolls; i++ {
		status, err := m.Read(statusAddr)
		if err != nil {
			return err
		}

		if status&mask == 0 {
			return nil
		}
	}

	log.Printf("wishbone: status 0x%08X mask 0x%08X still set after %d polls",
		statusAddr, mask, m.maxStatusPolls)

	return fmt.Errorf("wishbone: wait on status 0x%08X: %w", statusAddr, ErrTimeout)
}

func (m *Master) waitAck() bool {
	s := m.device.Wishbone()

	for i := 0; i < m.maxWaitEdges; i++ {
		m.driver.Tick()
		if s.Ack {
			return true
		}
	}

	return false
}

func (m *Master) teardown() {
	s := m.device.Wishbone()

	s.Stb = false
	s.Cyc = false
	s.We = false
	m.driver.Tick()
}

func (m *Master) enterTransaction() {
	if m.busy {
		panic("wishbone: transaction issued while another is in flight")
	}

	m.busy = true
}

func (m *Master) leaveTransaction() {
	m.busy = false
}
