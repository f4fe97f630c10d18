package spi

import (
	"errors"
	"fmt"
	"log"
)

// ErrTransferTimeout reports that the controller's GO bit never cleared.
var ErrTransferTimeout = errors.New("transfer timed out")

// DefaultMaxStatusPolls bounds the number of control-register reads a
// transfer waits for completion.
const DefaultMaxStatusPolls = 100000

// Bus is the register-access surface the controller is reached through.
// Both bus master families implement it.
type Bus interface {
	Write(addr, data uint32) error
	Read(addr uint32) (uint32, error)
}

// Controller drives an SPI master controller: it configures the clock
// divider and slave select, loads transmit data, starts a transfer, waits
// for completion, and reads back the received data.
type Controller struct {
	bus  Bus
	regs RegisterMap
	bits CtrlBits

	maxStatusPolls int
}

// NewController creates a Controller with the default register map and
// control-bit layout.
func NewController(bus Bus) *Controller {
	return &Controller{
		bus:            bus,
		regs:           DefaultRegisterMap(),
		bits:           DefaultCtrlBits(),
		maxStatusPolls: DefaultMaxStatusPolls,
	}
}

// WithRegisterMap overrides the register addresses.
func (c *Controller) WithRegisterMap(regs RegisterMap) *Controller {
	c.regs = regs
	return c
}

// WithCtrlBits overrides the control-register bit layout.
func (c *Controller) WithCtrlBits(bits CtrlBits) *Controller {
	c.bits = bits
	return c
}

// WithMaxStatusPolls bounds the completion wait.
func (c *Controller) WithMaxStatusPolls(n int) *Controller {
	if n > 0 {
		c.maxStatusPolls = n
	}

	return c
}

// Transfer shifts charLen bits of tx out of the controller at the given
// clock divider and returns the received data. Slave 0 is selected, with
// automatic slave select and transmit on the falling SCLK edge, so a
// looped-back or reactive slave has half an SCLK period of setup time.
func (c *Controller) Transfer(tx uint32, charLen int, divider uint32) (uint32, error) {
	if err := c.bus.Write(c.regs.Divider, divider); err != nil {
		return 0, err
	}

	if err := c.bus.Write(c.regs.SS, 0x01); err != nil {
		return 0, err
	}

	if err := c.bus.Write(c.regs.TX0, tx); err != nil {
		return 0, err
	}

	ctrl := uint32(charLen)&c.bits.CharLenMask | c.bits.ASS | c.bits.TxNeg

	// Arm the transfer before setting GO. Controllers latch the
	// configuration bits on the same write that starts the transfer, but
	// writing them twice also serves variants that require the GO bit to
	// arrive on its own.
	if err := c.bus.Write(c.regs.Ctrl, ctrl); err != nil {
		return 0, err
	}

	if err := c.bus.Write(c.regs.Ctrl, ctrl|c.bits.Go); err != nil {
		return 0, err
	}

	if err := c.WaitTransferDone(); err != nil {
		return 0, err
	}

	return c.bus.Read(c.regs.TX0)
}

// WaitTransferDone polls the control register until the GO bit clears,
// which the controller does itself at the end of a transfer.
func (c *Controller) WaitTransferDone() error {
	for i := 0; i < c.maxStatusPolls; i++ {
		ctrl, err := c.bus.Read(c.regs.Ctrl)
		if err != nil {
			return err
		}

		if ctrl&c.bits.Go == 0 {
			return nil
		}
	}

	log.Printf("spi: GO still set after %d polls", c.maxStatusPolls)

	return fmt.Errorf("spi: %w", ErrTransferTimeout)
}
