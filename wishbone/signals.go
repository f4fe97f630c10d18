// Package wishbone implements the master side of a single-cycle-acknowledge
// register-access protocol.
//
// A transaction asserts the cycle and strobe lines together with the
// address, data, byte selects, and direction, then spins on the model's
// acknowledge signal up to a configured bound. On the edge acknowledge is
// observed the data field is sampled for reads. Strobe and cycle are then
// dropped and one settling period passes before the next transaction.
package wishbone

// Signals is the bus signal bundle of a single-cycle-ack device. The master
// drives the request fields; the model drives Ack and RData.
type Signals struct {
	Addr  uint32
	WData uint32
	Sel   uint8
	We    bool
	Stb   bool
	Cyc   bool

	Ack   bool
	RData uint32
}

// ClearRequest drives every master-owned field to zero. Models call it
// from their ClearBusInputs during reset.
func (s *Signals) ClearRequest() {
	s.Addr = 0
	s.WData = 0
	s.Sel = 0
	s.We = false
	s.Stb = false
	s.Cyc = false
}
