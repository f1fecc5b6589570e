package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/asm"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/config"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/simulator"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	cfg      config.Config
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "pipesim",
	Short: "Cycle-stepped five stage pipeline simulator.",
	Long: `pipesim assembles programs for a 32-bit, 12 instruction ISA and runs ` +
		`them on a five stage pipeline with forwarding, load-use stalls and a ` +
		`two-bit branch predictor.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&envFiles, "env", nil, "settings files to read (default .env)")
	flags.BoolP("verbose", "v", false, "verbose logging")
	flags.String("lang", "", "message language")
}

// loadConfig reads the settings, then lets explicit flags override them.
func loadConfig(cmd *cobra.Command, _ []string) (err error) {
	cfg, err = config.Load(envFiles...)
	if err != nil {
		return
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("lang") {
		cfg.Lang, _ = flags.GetString("lang")
	}
	if flags.Lookup("max-cycles") != nil && flags.Changed("max-cycles") {
		cfg.MaxCycles, _ = flags.GetUint64("max-cycles")
	}
	if flags.Lookup("predictor") != nil && flags.Changed("predictor") {
		cfg.PredictorInit, _ = flags.GetUint8("predictor")
	}
	if flags.Lookup("trace") != nil && flags.Changed("trace") {
		cfg.Trace, _ = flags.GetBool("trace")
	}
	if flags.Lookup("record") != nil && flags.Changed("record") {
		cfg.RecordPath, _ = flags.GetString("record")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.MonitorPort, _ = flags.GetInt("port")
	}

	if cfg.Lang != "" && !translate.SetLanguage(cfg.Lang) {
		log.Printf("pipesim: unknown language %q", cfg.Lang)
	}

	return
}

// assemble parses a source file. Lines that fail are reported to warn and
// left out of the program.
func assemble(path string, warn io.Writer) (prog *asm.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: cfg.Verbose}
	prog, err = assembler.Parse(inf)
	if prog == nil {
		return
	}
	err = nil

	for _, lerr := range prog.Errors {
		fmt.Fprintf(warn, "%s: %v\n", path, lerr)
	}

	return
}

// newSimulator assembles path and loads it into a simulator configured
// from cfg.
func newSimulator(path string) (sim *simulator.Simulator, err error) {
	prog, err := assemble(path, os.Stderr)
	if err != nil {
		return
	}

	sim = simulator.NewSimulator()
	sim.Verbose = cfg.Verbose
	sim.Program = prog
	sim.MaxCycles = cfg.MaxCycles
	sim.PredictorInit = cfg.PredictorInit

	err = sim.Reset()
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}

	return
}
