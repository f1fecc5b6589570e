package simulator

import (
	"errors"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	ErrIncomplete = errors.New(f("cycle limit reached before the program completed"))
	ErrNoProgram  = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the source location of a runtime fault.
type ErrRuntime struct {
	LineNo int
	Cycle  uint64
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d cycle %d: %v", err.LineNo, err.Cycle, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
