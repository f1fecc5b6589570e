package pipeline

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

// ErrCycle is a non-fatal fault raised during a specific cycle.
type ErrCycle struct {
	Cycle uint64
	Pc    uint32
	Err   error
}

func (err ErrCycle) Error() string {
	return f("cycle %d pc %d: %v", err.Cycle, err.Pc, err.Err)
}

func (err ErrCycle) Unwrap() error {
	return err.Err
}
