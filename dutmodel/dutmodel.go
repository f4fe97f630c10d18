// Package dutmodel provides behavioral models of the peripherals the
// harness drives: an SPI master with external loopback, an SPI master wired
// to a bit-reversal slave, and a QSPI PSRAM controller over external
// storage. The models reproduce the register maps, handshake timing, and
// wait-state behavior of the simulated hardware at the bus boundary without
// modeling internal combinational logic.
//
// Models follow two-phase evaluation: Evaluate runs once per edge;
// sequential state advances only on the rising clock edge, while bus
// outputs that the hardware drives combinationally are updated on every
// evaluation.
package dutmodel

// mergeLanes replaces the byte lanes of old selected by lanes with the
// corresponding bytes of data.
func mergeLanes(old, data uint32, lanes uint8) uint32 {
	merged := old

	for i := 0; i < 4; i++ {
		if lanes>>i&1 == 0 {
			continue
		}

		shift := 8 * i
		merged = merged&^(0xFF<<shift) | data&(0xFF<<shift)
	}

	return merged
}
