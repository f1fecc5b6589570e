package pipeline

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
)

// ForwardSource names the stage an operand value is bypassed from.
type ForwardSource int

const (
	FORWARD_NONE    = ForwardSource(iota) // none
	FORWARD_EXECUTE                       // execute
	FORWARD_MEMORY                        // memory
)

// LOAD_USE_STALL is the default number of decode stall cycles inserted
// behind a load whose result is needed.
const LOAD_USE_STALL = 2

// Decision is the hazard unit's verdict for one cycle.
type Decision struct {
	Forward    [2]ForwardSource // Bypass per decode operand.
	LoadUse    bool             // Decode needs the load in execute.
	Structural bool             // Execute's load or store takes the memory port.
}

// HazardUnit detects data and structural hazards between the decode,
// execute and memory stage records.
type HazardUnit struct {
	LoadUseStall int // Stall cycles for a load-use hazard.
}

// Source returns the stage that holds the newest value of register r.
func (hu *HazardUnit) Source(r isa.Register, execute, memory *Slot) ForwardSource {
	switch {
	case r == isa.REGISTER_ZERO:
		return FORWARD_NONE
	case execute.Writes(r) && !execute.MemRead && execute.CyclesSpent >= EXECUTE_CYCLES:
		return FORWARD_EXECUTE
	case memory.Writes(r):
		return FORWARD_MEMORY
	}

	return FORWARD_NONE
}

// Forwarded returns the newest value of register r, or current when no
// stage holds a newer one.
func (hu *HazardUnit) Forwarded(r isa.Register, current int32, execute, memory *Slot) int32 {
	switch hu.Source(r, execute, memory) {
	case FORWARD_EXECUTE:
		return execute.Result
	case FORWARD_MEMORY:
		return memory.Result
	}

	return current
}

// Detect computes the hazard decision from the previous cycle's records.
func (hu *HazardUnit) Detect(decode, execute, memory *Slot) (dec Decision) {
	if decode.Valid && decode.Instruction != nil {
		for n, r := range decode.Sources {
			if n >= len(dec.Forward) {
				break
			}
			dec.Forward[n] = hu.Source(r, execute, memory)
		}

		if execute.Valid && execute.MemRead && execute.RegWrite &&
			execute.Dest != isa.REGISTER_ZERO && decode.Reads(execute.Dest) {
			dec.LoadUse = true
		}
	}

	if execute.Valid && (execute.MemRead || execute.MemWrite) && execute.CyclesSpent >= EXECUTE_CYCLES {
		dec.Structural = true
	}

	return
}
