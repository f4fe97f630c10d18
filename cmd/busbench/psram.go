package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/busbench/apb"
	"github.com/sarchlab/busbench/dutmodel"
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/storage"
	"github.com/sarchlab/busbench/trace"
	"github.com/sarchlab/busbench/verify"
)

var psramWaitStates int

var psramCmd = &cobra.Command{
	Use:   "psram",
	Short: "Memory-mapped accesses against the QSPI PSRAM controller over the handshake bus",
	Run:   runPSRAM,
}

func init() {
	psramCmd.Flags().IntVar(&psramWaitStates, "wait-states", 2,
		"extra wait-state periods per access")
}

func runPSRAM(_ *cobra.Command, _ []string) {
	mem := storage.NewMemory(dutmodel.DefaultPSRAMCapacity)
	model := dutmodel.NewPSRAM(mem).WithWaitStates(psramWaitStates)
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
	fmt.Println("  QSPI PSRAM controller (handshake bus)")
	fmt.Println("====================================================")

	edge.NewResetSequencer(session.Driver(), model).Reset()
	fmt.Printf("[edge %5d] reset done\n\n", session.Driver().CurrentTime())

	// The controller's done-to-idle transition is registered, so the
	// master must hold enable one extra period after ready.
	master := apb.MakeBuilder().
		WithDevice(model).
		WithDriver(session.Driver()).
		WithEnableHoldAfterReady().
		Build()
	sb := session.Scoreboard()

	fmt.Println("-- Test 1: write individual bytes, read back as word --")
	logIfErr(master.WriteMasked(0x100, 0x000000AA, 0x1))
	logIfErr(master.WriteMasked(0x100, 0x0000BB00, 0x2))
	logIfErr(master.WriteMasked(0x100, 0x00CC0000, 0x4))
	logIfErr(master.WriteMasked(0x100, 0xDD000000, 0x8))
	checkRead(sb, master, "byte writes -> word read", 0x100, 0xDDCCBBAA)

	fmt.Println("-- Test 2: full word write + read --")
	logIfErr(master.Write(0x200, 0x04030201))
	checkRead(sb, master, "word write/read", 0x200, 0x04030201)

	fmt.Println("-- Test 3: half-word writes + word read --")
	logIfErr(master.WriteMasked(0x300, 0x00002211, 0x3))
	logIfErr(master.WriteMasked(0x300, 0x44330000, 0xC))
	checkRead(sb, master, "half-word writes -> word read", 0x300, 0x44332211)

	fmt.Println("-- Test 4: multiple words at different addresses --")
	addrs := []uint32{0x400, 0x404, 0x408, 0x40C}
	vals := []uint32{0xDEADBEEF, 0xCAFEBABE, 0x12345678, 0xA5A5A5A5}
	for i, addr := range addrs {
		logIfErr(master.Write(addr, vals[i]))
	}
	for i, addr := range addrs {
		name := fmt.Sprintf("multi-word[%d] @0x%03X", i, addr)
		checkRead(sb, master, name, addr, vals[i])
	}

	fmt.Println("-- Test 5: overwrite existing data --")
	logIfErr(master.Write(0x200, 0xFEDCBA98))
	checkRead(sb, master, "overwrite word", 0x200, 0xFEDCBA98)

	fmt.Println("-- Test 6: edge cases (zero and all-ones) --")
	logIfErr(master.Write(0x500, 0x00000000))
	checkRead(sb, master, "write zero", 0x500, 0x00000000)
	logIfErr(master.Write(0x500, 0xFFFFFFFF))
	checkRead(sb, master, "write all-ones", 0x500, 0xFFFFFFFF)

	session.Driver().TickN(20)

	finishScenario(session, sb)
}

func checkRead(
	sb *verify.Scoreboard,
	master *apb.Master,
	name string,
	addr, expected uint32,
) {
	actual, err := master.Read(addr)
	if err != nil {
		log.Print(err)
	}

	sb.Check(name, expected, actual)
}
