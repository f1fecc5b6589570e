package isa

import (
	"iter"
	"strings"
)

// Opcode is the 4-bit operation selector in bits [31:28].
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode,Format -output=opcode_string.go
const (
	OP_ADD  = Opcode(0)  // ADD
	OP_SUB  = Opcode(1)  // SUB
	OP_MULI = Opcode(2)  // MULI
	OP_ADDI = Opcode(3)  // ADDI
	OP_BNE  = Opcode(4)  // BNE
	OP_ANDI = Opcode(5)  // ANDI
	OP_ORI  = Opcode(6)  // ORI
	OP_J    = Opcode(7)  // J
	OP_SLL  = Opcode(8)  // SLL
	OP_SRL  = Opcode(9)  // SRL
	OP_LW   = Opcode(10) // LW
	OP_SW   = Opcode(11) // SW
)

// Format is the bit-field layout class of an opcode.
type Format int

const (
	FORMAT_R       = Format(0) // R
	FORMAT_I       = Format(1) // I
	FORMAT_J       = Format(2) // J
	FORMAT_INVALID = Format(3) // invalid
)

// Field layout of the instruction word.
const (
	OPCODE_SHIFT  = 28
	FIELD_A_SHIFT = 23 // rDest, or first register operand of I-format
	FIELD_B_SHIFT = 18 // rSrc1, or base register of I-format
	FIELD_C_SHIFT = 13 // rSrc2
	REGISTER_MASK = 0x1f

	SHAMT_MASK     = 0x1fff
	IMMEDIATE_MASK = 0x3ffff
	IMMEDIATE_SIGN = 0x20000
	IMMEDIATE_MIN  = -0x20000
	IMMEDIATE_MAX  = 0x1ffff
	ADDRESS_MASK   = 0x0fff_ffff
	PC_REGION_MASK = 0xf000_0000
)

var opcodeFormat = [...]Format{
	OP_ADD:  FORMAT_R,
	OP_SUB:  FORMAT_R,
	OP_MULI: FORMAT_I,
	OP_ADDI: FORMAT_I,
	OP_BNE:  FORMAT_I,
	OP_ANDI: FORMAT_I,
	OP_ORI:  FORMAT_I,
	OP_J:    FORMAT_J,
	OP_SLL:  FORMAT_R,
	OP_SRL:  FORMAT_R,
	OP_LW:   FORMAT_I,
	OP_SW:   FORMAT_I,
}

var mnemonicMap = map[string]Opcode{
	"ADD":  OP_ADD,
	"SUB":  OP_SUB,
	"MULI": OP_MULI,
	"ADDI": OP_ADDI,
	"BNE":  OP_BNE,
	"ANDI": OP_ANDI,
	"ORI":  OP_ORI,
	"J":    OP_J,
	"SLL":  OP_SLL,
	"SRL":  OP_SRL,
	"LW":   OP_LW,
	"SW":   OP_SW,
}

// Valid returns true for the twelve defined opcodes.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodeFormat)
}

// Format returns the static format class of the opcode, or FORMAT_INVALID
// for opcodes 12 to 15.
func (op Opcode) Format() Format {
	if !op.Valid() {
		return FORMAT_INVALID
	}
	return opcodeFormat[op]
}

// Operands returns the number of text operands the opcode takes.
func (op Opcode) Operands() int {
	if op == OP_J {
		return 1
	}
	return 3
}

// Lookup finds the opcode of a mnemonic, ignoring case.
func Lookup(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(mnemonic)]
	return
}

// Opcodes iterates over all defined opcodes in numeric order.
func Opcodes() iter.Seq[Opcode] {
	return func(yield func(Opcode) bool) {
		for n := range len(opcodeFormat) {
			if !yield(Opcode(n)) {
				return
			}
		}
	}
}

// OpcodeOf extracts the opcode bits of a raw word.
func OpcodeOf(word uint32) Opcode {
	return Opcode(word >> OPCODE_SHIFT)
}
