// Package apb implements the master side of a three-phase handshake
// register-access protocol with wait-state extension.
//
// A transaction walks the SETUP, ACCESS, and IDLE phases. During SETUP the
// address, write data, byte strobes, and direction are asserted together
// with the select line while enable stays low for one period. During ACCESS
// the enable line is asserted and the master spins on the model's ready
// signal, one period per wait state, up to a configured bound. During IDLE
// select and enable are dropped and one more period passes before the next
// transaction may begin.
//
// Read data is sampled on the edge ready is first observed, before the
// teardown period.
package apb

// Signals is the bus signal bundle of a handshake-protocol device. The
// master drives the request fields; the model drives Ready and RData.
type Signals struct {
	Addr   uint32
	WData  uint32
	Strb   uint8
	Write  bool
	Sel    bool
	Enable bool

	Ready bool
	RData uint32
}

// ClearRequest drives every master-owned field to zero. Models call it
// from their ClearBusInputs during reset.
func (s *Signals) ClearRequest() {
	s.Addr = 0
	s.WData = 0
	s.Strb = 0
	s.Write = false
	s.Sel = false
	s.Enable = false
}
