package isa

import (
	"errors"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))

	// Encode errors
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
)

// ErrUnknownMnemonic is returned when a mnemonic is not one of the twelve
// opcodes.
type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

func (err ErrUnknownMnemonic) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownMnemonic)
	return
}

// ErrInvalidOperandArity is returned when the operand count does not match
// the opcode's format.
type ErrInvalidOperandArity struct {
	Opcode Opcode
	Want   int
	Got    int
}

func (err ErrInvalidOperandArity) Error() string {
	return f("%v takes %d operands, got %d", err.Opcode, err.Want, err.Got)
}

func (err ErrInvalidOperandArity) Is(target error) (ok bool) {
	_, ok = target.(ErrInvalidOperandArity)
	return
}

// ErrParseNumber is returned for an operand that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrOperand locates an error at a specific operand.
type ErrOperand struct {
	Index int
	Text  string
	Err   error
}

func (err ErrOperand) Error() string {
	return f("operand %d '%v' %v", err.Index+1, err.Text, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

// ErrWord reports the raw word that failed to decode.
type ErrWord uint32

func (err ErrWord) Error() string {
	return f("bad word 0x%08x", uint32(err))
}
