package asm

import (
	"iter"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
)

// Line is an assembled instruction and the source it came from.
type Line struct {
	LineNo      int             // Source line number, from 1.
	Pc          int             // Program address.
	Text        string          // Source text without comment.
	Words       []string        // Words after labels and $(...) expansion.
	Word        uint32          // Encoded instruction.
	Instruction isa.Instruction // Decoded form of Word.
}

// Program is an assembled program image.
type Program struct {
	Lines  []Line  // Assembled lines in address order.
	Errors []error // Errors of the lines left out.
}

// Len returns the number of program words.
func (prog *Program) Len() int {
	return len(prog.Lines)
}

// Debug returns the line assembled at pc, or nil.
func (prog *Program) Debug(pc int) (line *Line) {
	if pc >= 0 && pc < len(prog.Lines) && prog.Lines[pc].Pc == pc {
		line = &prog.Lines[pc]
	}
	return
}

// LineNo returns the source line number of pc, or 0 if none.
func (prog *Program) LineNo(pc int) int {
	line := prog.Debug(pc)
	if line == nil {
		return 0
	}
	return line.LineNo
}

// Binary returns the program image.
func (prog *Program) Binary() (bins []uint32) {
	for _, word := range prog.Codes() {
		bins = append(bins, word)
	}

	return
}

// Codes iterates over the program addresses and their words.
func (prog *Program) Codes() iter.Seq2[int, uint32] {
	return func(yield func(pc int, word uint32) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Pc, line.Word) {
				return
			}
		}
	}
}
