package machine

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
)

// RegisterFile is the general register bank. Register 0 always reads zero.
type RegisterFile struct {
	value [isa.REGISTER_COUNT]int32
	journal
}

// Read returns the value of a register, or zero for register 0 and for
// indexes outside the bank.
func (rf *RegisterFile) Read(r isa.Register) int32 {
	if r == isa.REGISTER_ZERO || !r.Valid() {
		return 0
	}
	return rf.value[r]
}

// Write sets a register. Writes to register 0 are discarded.
func (rf *RegisterFile) Write(r isa.Register, value int32) (err error) {
	if !r.Valid() {
		err = ErrRegisterBounds
		return
	}

	if r == isa.REGISTER_ZERO {
		return
	}

	rf.record(CHANGE_REGISTER, int(r), rf.value[r], value)
	rf.value[r] = value

	return
}

// Values returns a copy of the register bank.
func (rf *RegisterFile) Values() (values [isa.REGISTER_COUNT]int32) {
	return rf.value
}

// Reset zeros every register.
func (rf *RegisterFile) Reset() {
	clear(rf.value[:])
	rf.journal = journal{}
}
