package machine

import (
	"iter"
	"log"
	"math/bits"
	"slices"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/internal"
)

func onesCount(value int32) int {
	return bits.OnesCount32(uint32(value))
}

// State is the complete architectural state: registers, memory and the
// program counter.
type State struct {
	Verbose bool // If set, logs program loading.

	Registers RegisterFile
	Memory    Memory
	Pc        uint32
}

// Reset zeros the registers, memory and program counter.
func (st *State) Reset() {
	st.Registers.Reset()
	st.Memory.Reset()
	st.Pc = 0
}

// LoadProgram resets the state and places the program words from address 0.
func (st *State) LoadProgram(words []uint32) (err error) {
	if len(words) > PROGRAM_LIMIT {
		err = ErrProgramTooLarge
		return
	}

	st.Reset()

	for n, word := range words {
		st.Memory.cell[n] = int32(word)
	}

	if st.Verbose {
		log.Printf("machine: loaded %d words", len(words))
	}

	return
}

// DataAddress computes the effective address base + imm + DATA_BASE of a
// load or store, which must fall in the data segment.
func DataAddress(base, imm int32) (addr int, err error) {
	ea := int64(base) + int64(imm) + DATA_BASE
	if !inBounds(ea, DATA_BASE, MEMORY_SIZE) {
		err = ErrAddress(ea)
		return
	}

	addr = int(ea)
	return
}

// Changes iterates over the register changes, then the memory changes,
// committed since the last ClearChanges.
func (st *State) Changes() iter.Seq[Change] {
	return internal.IterSeqConcat(
		slices.Values(st.Registers.changes),
		slices.Values(st.Memory.changes),
	)
}

// ClearChanges empties the change journal.
func (st *State) ClearChanges() {
	st.Registers.truncate()
	st.Memory.truncate()
}

// Toggles returns the number of bits flipped by all committed writes since
// the last Reset.
func (st *State) Toggles() int {
	return st.Registers.toggles + st.Memory.toggles
}
