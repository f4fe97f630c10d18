package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/busbench/bench"
	"github.com/sarchlab/busbench/edge"
	"github.com/sarchlab/busbench/trace"
	"github.com/sarchlab/busbench/verify"
)

var (
	flagRecord     bool
	flagRecordPath string
	flagTracePath  string
)

var rootCmd = &cobra.Command{
	Use:   "busbench",
	Short: "busbench drives register-access bus protocols against simulated peripherals and verifies the results.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env file can carry the output locations so CI scripts do not
		// have to repeat the flags.
		_ = godotenv.Load()

		if flagTracePath == "" {
			flagTracePath = os.Getenv("BUSBENCH_TRACE")
		}

		if flagRecordPath == "" {
			flagRecordPath = os.Getenv("BUSBENCH_RECORD")
		}

		if flagRecordPath != "" {
			flagRecord = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagRecord, "record", false,
		"store check results in a SQLite database")
	rootCmd.PersistentFlags().StringVar(&flagRecordPath, "record-path", "",
		"path of the results database, without extension")
	rootCmd.PersistentFlags().StringVar(&flagTracePath, "trace", "",
		"path of the CSV edge trace, without extension")

	rootCmd.AddCommand(spiCmd)
	rootCmd.AddCommand(bitrevCmd)
	rootCmd.AddCommand(psramCmd)
}

// Execute runs the selected scenario command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func buildSession(device edge.Device, loopbacks ...edge.Loopback) *bench.Session {
	b := bench.MakeBuilder().WithDevice(device)

	for _, lb := range loopbacks {
		b = b.WithLoopback(lb.From, lb.To)
	}

	if flagRecord {
		b = b.WithRecording(flagRecordPath)
	}

	return b.Build()
}

func attachTrace(session *bench.Session, probes []trace.Probe) {
	if flagTracePath == "" {
		return
	}

	w := trace.NewCSVWriter(flagTracePath, probes)
	w.Init()
	session.Driver().AcceptHook(w)
}

func finishScenario(session *bench.Session, sb *verify.Scoreboard) {
	fmt.Println("====================================================")
	sb.Summary()
	fmt.Println("====================================================")

	session.Terminate()
	atexit.Exit(sb.ExitCode())
}
