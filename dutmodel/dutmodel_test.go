package dutmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarchlab/busbench/apb"
	"github.com/sarchlab/busbench/dutmodel"
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/spi"
	"github.com/sarchlab/busbench/storage"
	"github.com/sarchlab/busbench/wishbone"
)

func setupLoopbackSPI(t *testing.T) *spi.Controller {
	t.Helper()

	model := dutmodel.NewLoopbackSPI()
	driver := edge.MakeBuilder().
		WithDevice(model).
		WithLoopback(&model.Mosi, &model.Miso).
		Build()
	edge.NewResetSequencer(driver, model).Reset()

	master := wishbone.MakeBuilder().
		WithDevice(model).
		WithDriver(driver).
		Build()

	return spi.NewController(master)
}

func TestLoopedBackTransferReceivesItsOwnData(t *testing.T) {
	cases := []struct {
		name    string
		tx      uint32
		charLen int
		mask    uint32
	}{
		{"8-bit", 0xA5, 8, 0xFF},
		{"8-bit all-ones", 0xFF, 8, 0xFF},
		{"16-bit", 0xBEEF, 16, 0xFFFF},
		{"32-bit", 0xDEADBEEF, 32, 0xFFFFFFFF},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			controller := setupLoopbackSPI(t)

			rx, err := controller.Transfer(c.tx, c.charLen, 2)
			require.NoError(t, err)
			require.Equal(t, c.tx&c.mask, rx&c.mask)
		})
	}
}

func TestLoopedBackTransferWorksAcrossDividers(t *testing.T) {
	controller := setupLoopbackSPI(t)

	for _, divider := range []uint32{0, 1, 4, 16} {
		rx, err := controller.Transfer(0x53, 8, divider)
		require.NoError(t, err)
		require.Equal(t, uint32(0x53), rx&0xFF, "divider %d", divider)
	}
}

func TestLoopbackSPIConfigRegistersReadBack(t *testing.T) {
	model := dutmodel.NewLoopbackSPI()
	driver := edge.MakeBuilder().
		WithDevice(model).
		WithLoopback(&model.Mosi, &model.Miso).
		Build()
	edge.NewResetSequencer(driver, model).Reset()

	master := wishbone.MakeBuilder().
		WithDevice(model).
		WithDriver(driver).
		Build()
	regs := spi.DefaultRegisterMap()

	require.NoError(t, master.Write(regs.Divider, 0x1234))
	got, err := master.Read(regs.Divider)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1234), got)

	require.NoError(t, master.Write(regs.SS, 0xAB))
	got, err = master.Read(regs.SS)
	require.NoError(t, err)
	require.Equal(t, uint32(0xAB), got)
}

func setupBitRevSPI(
	t *testing.T,
	waitStates int,
) (*dutmodel.BitRevSPI, *apb.Master) {
	t.Helper()

	model := dutmodel.NewBitRevSPI().WithWaitStates(waitStates)
	driver := edge.MakeBuilder().WithDevice(model).Build()
	edge.NewResetSequencer(driver, model).Reset()

	master := apb.MakeBuilder().
		WithDevice(model).
		WithDriver(driver).
		Build()

	return model, master
}

func TestBitReversalSlaveReversesEveryPattern(t *testing.T) {
	_, master := setupBitRevSPI(t, 0)
	controller := spi.NewController(master)

	for _, tx := range []uint8{0x53, 0xA5, 0x01, 0x80, 0xFF, 0x00, 0x0F, 0x55} {
		rx, err := controller.Transfer(uint32(tx)<<8, 16, 4)
		require.NoError(t, err)
		require.Equal(t, uint32(spi.ReverseBits8(tx)), rx&0xFF,
			"transmit byte 0x%02X", tx)
	}
}

func TestBitReversalWorksUnderWaitStates(t *testing.T) {
	_, master := setupBitRevSPI(t, 3)
	controller := spi.NewController(master)

	rx, err := controller.Transfer(0x53<<8, 16, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCA), rx&0xFF)
}

func TestDataRegisterReadBlocksUntilTransferCompletes(t *testing.T) {
	_, master := setupBitRevSPI(t, 0)
	regs := spi.DefaultRegisterMap()
	bits := spi.DefaultCtrlBits()

	require.NoError(t, master.Write(regs.Divider, 4))
	require.NoError(t, master.Write(regs.TX0, 0x53<<8))
	require.NoError(t, master.Write(regs.Ctrl,
		16|bits.ASS|bits.TxNeg|bits.Go))

	// No completion polling: the data registers hold ready low while the
	// transfer is in flight, so this read stretches until it finishes.
	got, err := master.Read(regs.TX0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCA), got)
}

func TestControlRegisterStaysPollableDuringTransfer(t *testing.T) {
	_, master := setupBitRevSPI(t, 0)
	regs := spi.DefaultRegisterMap()
	bits := spi.DefaultCtrlBits()

	require.NoError(t, master.Write(regs.Divider, 4))
	require.NoError(t, master.Write(regs.TX0, 0x53<<8))
	require.NoError(t, master.Write(regs.Ctrl,
		16|bits.ASS|bits.TxNeg|bits.Go))

	ctrl, err := master.Read(regs.Ctrl)
	require.NoError(t, err)
	require.NotZero(t, ctrl&bits.Go)
}

func setupPSRAM(t *testing.T, waitStates int) (*dutmodel.PSRAM, *edge.Driver) {
	t.Helper()

	model := dutmodel.NewPSRAM(
		storage.NewMemory(dutmodel.DefaultPSRAMCapacity),
	).WithWaitStates(waitStates)
	driver := edge.MakeBuilder().WithDevice(model).Build()
	edge.NewResetSequencer(driver, model).Reset()

	return model, driver
}

func psramMaster(model *dutmodel.PSRAM, driver *edge.Driver) *apb.Master {
	return apb.MakeBuilder().
		WithDevice(model).
		WithDriver(driver).
		WithEnableHoldAfterReady().
		Build()
}

func TestPSRAMWordRoundTrip(t *testing.T) {
	model, driver := setupPSRAM(t, 2)
	master := psramMaster(model, driver)

	for _, value := range []uint32{0x00000000, 0x000000FF, 0x04030201,
		0xFFFFFFFF} {
		require.NoError(t, master.Write(0x200, value))

		got, err := master.Read(0x200)
		require.NoError(t, err)
		require.Equal(t, value, got)
	}
}

func TestPSRAMByteLanesAssembleIntoWord(t *testing.T) {
	model, driver := setupPSRAM(t, 2)
	master := psramMaster(model, driver)

	require.NoError(t, master.WriteMasked(0x100, 0x000000AA, 0x1))
	require.NoError(t, master.WriteMasked(0x100, 0x0000BB00, 0x2))
	require.NoError(t, master.WriteMasked(0x100, 0x00CC0000, 0x4))
	require.NoError(t, master.WriteMasked(0x100, 0xDD000000, 0x8))

	got, err := master.Read(0x100)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDDCCBBAA), got)
}

func TestPSRAMUnalignedAccessHitsTheContainingWord(t *testing.T) {
	model, driver := setupPSRAM(t, 0)
	master := psramMaster(model, driver)

	require.NoError(t, master.Write(0x300, 0x11223344))

	got, err := master.Read(0x302)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), got)
}

func TestPSRAMReadyClearsAfterHeldTransaction(t *testing.T) {
	model, driver := setupPSRAM(t, 2)
	master := psramMaster(model, driver)

	require.NoError(t, master.Write(0x200, 0xFEDCBA98))
	require.False(t, model.APB().Ready)
}

func TestPSRAMReadyStaysStuckWithoutEnableHold(t *testing.T) {
	model, driver := setupPSRAM(t, 2)

	// no enable hold: the registered done-to-idle transition never fires
	master := apb.MakeBuilder().
		WithDevice(model).
		WithDriver(driver).
		Build()

	require.NoError(t, master.Write(0x200, 0xFEDCBA98))
	require.True(t, model.APB().Ready)
}

func TestPSRAMSurvivesRepeatedResets(t *testing.T) {
	model, driver := setupPSRAM(t, 2)
	master := psramMaster(model, driver)
	sequencer := edge.NewResetSequencer(driver, model)

	require.NoError(t, master.Write(0x200, 0x12345678))

	sequencer.Reset()
	sequencer.Reset()

	// controller state resets; the external storage keeps its contents
	got, err := master.Read(0x200)
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), got)
}
