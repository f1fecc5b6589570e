package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/asm"
)

var asmCmd = &cobra.Command{
	Use:   "asm FILE",
	Short: "Assemble a program and print its listing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := assemble(args[0], cmd.ErrOrStderr())
		if err != nil {
			return
		}

		listing(cmd.OutOrStdout(), prog)

		return
	},
}

func init() {
	rootCmd.AddCommand(asmCmd)
}

// listing prints the address, word, disassembly and source line of every
// assembled instruction.
func listing(w io.Writer, prog *asm.Program) {
	for _, line := range prog.Lines {
		fmt.Fprintf(w, "%4d  %08x  %-20v ; %d: %s\n", line.Pc, line.Word, line.Instruction, line.LineNo, line.Text)
	}
}
