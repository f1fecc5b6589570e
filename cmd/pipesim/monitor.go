package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor FILE",
	Short: "Serve a program's simulation over HTTP for stepping and inspection.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMonitor,
}

func init() {
	flags := monitorCmd.Flags()
	flags.Int("port", 0, "server port (default any free port)")
	flags.Bool("open", false, "open the state page in a browser")
	flags.Uint64("max-cycles", 0, "cycle cap of /api/run")
	flags.Uint8("predictor", 0, "initial branch predictor counter (0-3)")

	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) (err error) {
	sim, err := newSimulator(args[0])
	if err != nil {
		return
	}

	mon := monitor.New(sim)
	mon.Verbose = cfg.Verbose

	url, err := mon.StartServer(cfg.MonitorPort)
	if err != nil {
		return
	}
	defer mon.Close()

	if open, _ := cmd.Flags().GetBool("open"); open {
		err = browser.OpenURL(url + "/api/state")
		if err != nil {
			log.Printf("pipesim: %v", err)
			err = nil
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), f("Press Ctrl-C to stop."))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	return
}
