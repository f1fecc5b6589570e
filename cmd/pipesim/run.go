package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/simulator"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/trace"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Assemble and run a program to completion.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgram,
}

func init() {
	flags := runCmd.Flags()
	flags.Bool("trace", false, "print every cycle")
	flags.String("record", "", "record the run into a SQLite database")
	flags.Uint64("max-cycles", simulator.DEFAULT_MAX_CYCLES, "cycle cap")
	flags.Uint8("predictor", 0, "initial branch predictor counter (0-3)")

	rootCmd.AddCommand(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) (err error) {
	sim, err := newSimulator(args[0])
	if err != nil {
		return
	}

	out := cmd.OutOrStdout()

	if cfg.Trace {
		sim.Engine.AcceptHook(trace.NewPrinter(out))
	}

	var rec *trace.Recorder
	if cfg.RecordPath != "" {
		rec, err = trace.NewRecorder(cfg.RecordPath)
		if err != nil {
			return
		}
		rec.Verbose = cfg.Verbose
		sim.Engine.AcceptHook(rec)
	}

	result, err := sim.Run()

	for _, fault := range result.Faults {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[0], fault)
	}

	report(out, sim, result)

	if rec != nil {
		cerr := rec.Close()
		if cerr != nil && err == nil {
			err = cerr
		}
		fmt.Fprintln(out, f("trace recorded in %s", rec.Path()))
	}

	return
}

// report prints the run statistics, the register file and the non-zero
// data memory.
func report(w io.Writer, sim *simulator.Simulator, result simulator.Result) {
	st := &result.Stats

	fmt.Fprintln(w, f("Cycles:          %d", result.Cycles))
	fmt.Fprintln(w, f("Instructions:    %d", st.Instructions))
	fmt.Fprintln(w, f("CPI:             %.2f", st.CPI()))
	fmt.Fprintln(w, f("Stalls:          %d load-use, %d structural", st.Stalls, st.StructuralStalls))
	fmt.Fprintln(w, f("Flushes:         %d (%d squashed)", st.Flushes, st.Squashed))
	fmt.Fprintln(w, f("Branches:        %d, %d mispredicted, accuracy %.2f", st.Predictions, st.Mispredictions, st.Accuracy()))
	fmt.Fprintln(w, f("Forwards:        %d", st.Forwards))
	if st.Faults > 0 {
		fmt.Fprintln(w, f("Faults:          %d", st.Faults))
	}
	if !result.Completed {
		fmt.Fprintln(w, f("Incomplete:      stopped at the cycle cap"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, f("Registers:"))
	values := sim.State.Registers.Values()
	for r, value := range values {
		fmt.Fprintf(w, "  %-4v %11d", isa.Register(r), value)
		if r%4 == 3 {
			fmt.Fprintln(w)
		}
	}

	first := true
	for addr, value := range sim.Data() {
		if first {
			fmt.Fprintln(w)
			fmt.Fprintln(w, f("Data memory:"))
			first = false
		}
		fmt.Fprintf(w, "  [%4d] %11d\n", addr, value)
	}
}
