// Command pipesim assembles and runs programs on a cycle-stepped five stage
// pipeline simulator.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
