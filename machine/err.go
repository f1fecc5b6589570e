package machine

import (
	"errors"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	ErrOutOfBounds     = errors.New(f("address out of bounds"))
	ErrRegisterBounds  = errors.New(f("register out of bounds"))
	ErrProgramTooLarge = errors.New(f("program too large"))
)

// ErrAddress reports the memory address that was out of bounds.
type ErrAddress int64

func (err ErrAddress) Error() string {
	return f("address %d out of bounds", int64(err))
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrOutOfBounds
}
