package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/busbench/apb"
	"github.com/sarchlab/busbench/dutmodel"
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/spi"
	"github.com/sarchlab/busbench/trace"
)

var bitrevWaitStates int

var bitrevCmd = &cobra.Command{
	Use:   "bitrev",
	Short: "Bit-reversal slave transfers against the SPI master over the handshake bus",
	Run:   runBitrev,
}

func init() {
	bitrevCmd.Flags().IntVar(&bitrevWaitStates, "wait-states", 0,
		"extra wait-state periods per register access")
}

func runBitrev(_ *cobra.Command, _ []string) {
	model := dutmodel.NewBitRevSPI().WithWaitStates(bitrevWaitStates)
	session := buildSession(model)

	pins := model.APB()
	attachTrace(session, []trace.Probe{
		{Name: "psel", Bit: &pins.Sel},
		{Name: "penable", Bit: &pins.Enable},
		{Name: "pready", Bit: &pins.Ready},
		{Name: "paddr", Word: &pins.Addr},
		{Name: "pwdata", Word: &pins.WData},
		{Name: "prdata", Word: &pins.RData},
	})

	fmt.Println("====================================================")
	fmt.Println("  SPI master + bit-reversal slave (handshake bus)")
	fmt.Println("====================================================")

	edge.NewResetSequencer(session.Driver(), model).Reset()
	fmt.Printf("[edge %5d] reset done\n\n", session.Driver().CurrentTime())

	master := apb.MakeBuilder().
		WithDevice(model).
		WithDriver(session.Driver()).
		Build()
	controller := spi.NewController(master)
	sb := session.Scoreboard()

	// Warmup transfer.
	if _, err := bitrevTransfer(controller, 0xFF); err != nil {
		log.Print(err)
	}

	for _, tx := range []uint8{0x53, 0xA5, 0x01, 0x80, 0xFF, 0x00, 0x0F, 0x55} {
		name := fmt.Sprintf("bitrev(0x%02X)", tx)
		fmt.Printf("-- Test: %s --\n", name)

		rx, err := bitrevTransfer(controller, tx)
		if err != nil {
			log.Print(err)
		}

		sb.CheckMasked(name, uint32(spi.ReverseBits8(tx)), rx, 0xFF)
	}

	session.Driver().TickN(20)

	finishScenario(session, sb)
}

// bitrevTransfer runs one 16-bit transfer: the upper byte goes out to the
// slave, the bit-reversed form comes back in the lower byte.
func bitrevTransfer(controller *spi.Controller, tx uint8) (uint32, error) {
	return controller.Transfer(uint32(tx)<<8, 16, 4)
}
