// Package spi drives an SPI master controller through a generic register
// bus. The controller's register map and control-bit layout are data, so
// the same driver serves controller variants that only differ in address
// decoding or bit positions.
package spi

// RegisterMap holds the byte addresses of the controller registers.
type RegisterMap struct {
	TX0     uint32
	TX1     uint32
	TX2     uint32
	TX3     uint32
	Ctrl    uint32
	Divider uint32
	SS      uint32
}

// DefaultRegisterMap is the OpenCores SPI master layout, where bits [4:2]
// of the byte address select the register.
func DefaultRegisterMap() RegisterMap {
	return RegisterMap{
		TX0:     0 << 2,
		TX1:     1 << 2,
		TX2:     2 << 2,
		TX3:     3 << 2,
		Ctrl:    4 << 2,
		Divider: 5 << 2,
		SS:      6 << 2,
	}
}

// CtrlBits holds the bit layout of the control register.
type CtrlBits struct {
	// CharLenMask selects the transfer-length field. A zero length means
	// the controller's full shift-register width.
	CharLenMask uint32

	Go    uint32
	RxNeg uint32
	TxNeg uint32
	LSB   uint32
	IE    uint32
	ASS   uint32
}

// DefaultCtrlBits is the OpenCores SPI master control-register layout.
func DefaultCtrlBits() CtrlBits {
	return CtrlBits{
		CharLenMask: 0x7F,
		Go:          1 << 8,
		RxNeg:       1 << 9,
		TxNeg:       1 << 10,
		LSB:         1 << 11,
		IE:          1 << 12,
		ASS:         1 << 13,
	}
}

// ReverseBits8 returns b with its bit order reversed.
func ReverseBits8(b uint8) uint8 {
	b = b&0xF0>>4 | b&0x0F<<4
	b = b&0xCC>>2 | b&0x33<<2
	b = b&0xAA>>1 | b&0x55<<1

	return b
}
