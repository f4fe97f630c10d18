package apb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/busbench/edge"
)

// fakeHandshakeDevice is a scripted register file behind the handshake
// protocol. Each access takes the configured number of wait states; with
// neverReady set the ready signal stays low forever.
type fakeHandshakeDevice struct {
	pins Signals

	clk     bool
	prevClk bool

	regs       map[uint32]uint32
	waitStates int
	waitLeft   int
	neverReady bool
}

func newFakeHandshakeDevice() *fakeHandshakeDevice {
	return &fakeHandshakeDevice{regs: make(map[uint32]uint32)}
}

func (d *fakeHandshakeDevice) SetClock(high bool) {
	d.clk = high
}

func (d *fakeHandshakeDevice) SetReset(bool) {}

func (d *fakeHandshakeDevice) ClearBusInputs() {
	d.pins.ClearRequest()
}

func (d *fakeHandshakeDevice) APB() *Signals {
	return &d.pins
}

func (d *fakeHandshakeDevice) Evaluate() {
	rising := d.clk && !d.prevClk
	d.prevClk = d.clk

	p := &d.pins

	if rising {
		switch {
		case d.neverReady:
			p.Ready = false
		case p.Sel && !p.Enable:
			d.waitLeft = d.waitStates
			p.Ready = false
		case p.Sel && p.Enable:
			if d.waitLeft == 0 {
				if p.Write {
					d.commitWrite()
				}
				p.Ready = true
			} else {
				d.waitLeft--
				p.Ready = false
			}
		default:
			p.Ready = false
		}
	}

	if !p.Write {
		p.RData = d.regs[p.Addr]
	}
}

func (d *fakeHandshakeDevice) commitWrite() {
	p := &d.pins

	merged := d.regs[p.Addr]
	for i := 0; i < 4; i++ {
		if p.Strb>>i&1 == 0 {
			continue
		}

		shift := 8 * i
		merged = merged&^(0xFF<<shift) | p.WData&(0xFF<<shift)
	}

	d.regs[p.Addr] = merged
}

func buildMaster(dev *fakeHandshakeDevice) (*Master, *edge.Driver) {
	driver := edge.MakeBuilder().WithDevice(dev).Build()
	master := MakeBuilder().WithDevice(dev).WithDriver(driver).Build()

	return master, driver
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	for _, value := range []uint32{0x00, 0xFF, 0x12345678, 0xFFFFFFFF} {
		dev := newFakeHandshakeDevice()
		master, _ := buildMaster(dev)

		require.NoError(t, master.Write(0x40, value))

		got, err := master.Read(0x40)
		require.NoError(t, err)
		require.Equal(t, value, got)
	}
}

func TestByteLaneMaskingPreservesOtherLanes(t *testing.T) {
	dev := newFakeHandshakeDevice()
	master, _ := buildMaster(dev)

	require.NoError(t, master.WriteMasked(0x100, 0x000000AA, 0x1))
	require.NoError(t, master.WriteMasked(0x100, 0x0000BB00, 0x2))
	require.NoError(t, master.WriteMasked(0x100, 0x00CC0000, 0x4))
	require.NoError(t, master.WriteMasked(0x100, 0xDD000000, 0x8))

	got, err := master.Read(0x100)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDDCCBBAA), got)
}

func TestEachWaitStateAddsExactlyOnePeriod(t *testing.T) {
	baseline := transactionEdges(t, 0)

	for _, waitStates := range []int{1, 3, 7} {
		got := transactionEdges(t, waitStates)
		require.Equal(t, baseline+2*edge.VTimeInEdge(waitStates), got,
			"wait states: %d", waitStates)
	}
}

func transactionEdges(t *testing.T, waitStates int) edge.VTimeInEdge {
	t.Helper()

	dev := newFakeHandshakeDevice()
	dev.waitStates = waitStates
	master, driver := buildMaster(dev)

	before := driver.CurrentTime()
	require.NoError(t, master.Write(0x10, 0xCAFE))

	return driver.CurrentTime() - before
}

func TestReadReturnsCorrectDataUnderWaitStates(t *testing.T) {
	dev := newFakeHandshakeDevice()
	dev.waitStates = 4
	master, _ := buildMaster(dev)

	require.NoError(t, master.Write(0x20, 0xA5A5A5A5))

	got, err := master.Read(0x20)
	require.NoError(t, err)
	require.Equal(t, uint32(0xA5A5A5A5), got)
}

func TestTimeoutReturnsErrorInsteadOfHanging(t *testing.T) {
	dev := newFakeHandshakeDevice()
	dev.neverReady = true

	driver := edge.MakeBuilder().WithDevice(dev).Build()
	master := MakeBuilder().
		WithDevice(dev).
		WithDriver(driver).
		WithMaxWaitEdges(50).
		Build()

	err := master.Write(0x10, 1)
	require.ErrorIs(t, err, ErrTimeout)

	_, err = master.Read(0x10)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestBusReturnsToIdleAfterEachTransaction(t *testing.T) {
	dev := newFakeHandshakeDevice()
	master, _ := buildMaster(dev)

	require.NoError(t, master.Write(0x10, 42))
	requireIdle(t, &dev.pins)

	_, err := master.Read(0x10)
	require.NoError(t, err)
	requireIdle(t, &dev.pins)
}

func requireIdle(t *testing.T, s *Signals) {
	t.Helper()

	require.False(t, s.Sel)
	require.False(t, s.Enable)
	require.False(t, s.Write)
}

func TestEnableHoldVariantAddsOnePeriod(t *testing.T) {
	dev := newFakeHandshakeDevice()
	driver := edge.MakeBuilder().WithDevice(dev).Build()
	master := MakeBuilder().
		WithDevice(dev).
		WithDriver(driver).
		WithEnableHoldAfterReady().
		Build()

	before := driver.CurrentTime()
	require.NoError(t, master.Write(0x10, 1))

	plain := transactionEdges(t, 0)
	require.Equal(t, plain+2, driver.CurrentTime()-before)
}
