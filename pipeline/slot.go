package pipeline

import (
	"slices"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
)

// Slot is the record an instruction carries through the pipeline.
type Slot struct {
	Valid bool   // Slot holds an instruction.
	Seq   uint64 // Fetch order, from 1.
	Word  uint32 // Raw instruction word.
	Pc    uint32 // Address the word was fetched from.

	Instruction isa.Instruction // Set once decoded.

	Sources  []isa.Register // Registers read, in operand order.
	Operands [2]int32       // Captured values of Sources.
	Result   int32          // ALU result, or the value loaded.
	Address  int            // Effective memory address of a load or store.

	MemRead  bool
	MemWrite bool
	RegWrite bool
	Dest     isa.Register

	StallCycles int // Load-use stall cycles remaining.
	CyclesSpent int // Cycles spent in the current stage.

	Predicted bool   // Branch predicted taken at fetch.
	Taken     bool   // Branch or jump resolved taken.
	Redirect  bool   // Writeback must redirect the program counter.
	Target    uint32 // Redirect destination.

	Fault error // Fault raised by this instruction.

	loadUse bool // Load-use stall already applied.
}

// String renders the occupant as assembly text, or "-" for a bubble.
func (sl *Slot) String() string {
	switch {
	case !sl.Valid:
		return "-"
	case sl.Instruction != nil:
		return sl.Instruction.String()
	default:
		return isa.Disassemble(sl.Word)
	}
}

// Opcode returns the occupant's opcode, from the raw word if undecoded.
func (sl *Slot) Opcode() isa.Opcode {
	if sl.Instruction != nil {
		return sl.Instruction.Opcode()
	}
	return isa.OpcodeOf(sl.Word)
}

// Reads returns true if the occupant reads register r.
func (sl *Slot) Reads(r isa.Register) bool {
	return sl.Valid && slices.Contains(sl.Sources, r)
}

// Writes returns true if the occupant will write register r without fault.
func (sl *Slot) Writes(r isa.Register) bool {
	return sl.Valid && sl.RegWrite && sl.Dest == r && r != isa.REGISTER_ZERO && sl.Fault == nil
}

// decode fills the control fields from the decoded instruction.
func (sl *Slot) decode() (err error) {
	in, err := isa.Decode(sl.Word)
	if err != nil {
		return
	}

	sl.Instruction = in
	sl.Sources = in.Reads()
	sl.Dest, sl.RegWrite = in.Writes()

	switch in.(type) {
	case isa.Lw:
		sl.MemRead = true
	case isa.Sw:
		sl.MemWrite = true
	}

	return
}
