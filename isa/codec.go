package isa

import (
	"errors"
	"strconv"
	"strings"
)

// signExtend widens an 18-bit immediate field to 32 bits.
func signExtend(field uint32) int32 {
	field &= IMMEDIATE_MASK
	if (field & IMMEDIATE_SIGN) != 0 {
		field |= ^uint32(IMMEDIATE_MASK)
	}
	return int32(field)
}

// Decode converts an instruction word into its typed form.
func Decode(word uint32) (in Instruction, err error) {
	op := OpcodeOf(word)
	if !op.Valid() {
		err = errors.Join(ErrOpcodeInvalid, ErrWord(word))
		return
	}

	a := Register((word >> FIELD_A_SHIFT) & REGISTER_MASK)
	b := Register((word >> FIELD_B_SHIFT) & REGISTER_MASK)
	c := Register((word >> FIELD_C_SHIFT) & REGISTER_MASK)
	shamt := uint16(word & SHAMT_MASK)
	imm := signExtend(word)

	switch op {
	case OP_ADD:
		in = Add{Rd: a, Rs: b, Rt: c}
	case OP_SUB:
		in = Sub{Rd: a, Rs: b, Rt: c}
	case OP_SLL:
		in = Sll{Rd: a, Rs: b, Shamt: shamt}
	case OP_SRL:
		in = Srl{Rd: a, Rs: b, Shamt: shamt}
	case OP_MULI:
		in = Muli{Rd: a, Rs: b, Imm: imm}
	case OP_ADDI:
		in = Addi{Rd: a, Rs: b, Imm: imm}
	case OP_ANDI:
		in = Andi{Rd: a, Rs: b, Imm: imm}
	case OP_ORI:
		in = Ori{Rd: a, Rs: b, Imm: imm}
	case OP_BNE:
		in = Bne{Rs: a, Rt: b, Imm: imm}
	case OP_LW:
		in = Lw{Rd: a, Base: b, Imm: imm}
	case OP_SW:
		in = Sw{Src: a, Base: b, Imm: imm}
	case OP_J:
		in = Jump{Address: word & ADDRESS_MASK}
	}

	return
}

// Disassemble renders a raw word as assembly text, or a diagnostic for
// words that do not decode.
func Disassemble(word uint32) string {
	in, err := Decode(word)
	if err != nil {
		return f("<invalid 0x%08x>", word)
	}
	return in.String()
}

// ParseRegister parses a register operand of the form R<n> or r<n>.
func ParseRegister(text string) (r Register, err error) {
	if len(text) < 2 || (text[0] != 'R' && text[0] != 'r') {
		err = ErrRegisterInvalid
		return
	}

	n, perr := strconv.ParseUint(text[1:], 10, 8)
	if perr != nil || n >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	r = Register(n)
	return
}

// parseNumber parses a decimal, hex, octal or binary literal.
func parseNumber(text string) (value int64, err error) {
	value, perr := strconv.ParseInt(text, 0, 64)
	if perr != nil {
		err = ErrParseNumber(text)
	}
	return
}

// operands collects the typed operands of a text instruction.
type operands struct {
	text []string
	err  error
}

func (ops *operands) wrap(index int, err error) {
	if ops.err == nil && err != nil {
		ops.err = ErrOperand{Index: index, Text: ops.text[index], Err: err}
	}
}

func (ops *operands) register(index int) (r Register) {
	r, err := ParseRegister(ops.text[index])
	ops.wrap(index, err)
	return
}

func (ops *operands) number(index int, low, high int64) (value int64) {
	value, err := parseNumber(ops.text[index])
	if err == nil && (value < low || value > high) {
		err = ErrImmediateRange
	}
	ops.wrap(index, err)
	return
}

func (ops *operands) immediate(index int) int32 {
	return int32(ops.number(index, IMMEDIATE_MIN, IMMEDIATE_MAX))
}

// Parse converts a mnemonic and its text operands into an instruction.
func Parse(mnemonic string, text []string) (in Instruction, err error) {
	op, ok := Lookup(mnemonic)
	if !ok {
		err = ErrUnknownMnemonic(mnemonic)
		return
	}

	if len(text) != op.Operands() {
		err = ErrInvalidOperandArity{Opcode: op, Want: op.Operands(), Got: len(text)}
		return
	}

	ops := &operands{text: text}

	switch op {
	case OP_ADD:
		in = Add{Rd: ops.register(0), Rs: ops.register(1), Rt: ops.register(2)}
	case OP_SUB:
		in = Sub{Rd: ops.register(0), Rs: ops.register(1), Rt: ops.register(2)}
	case OP_SLL:
		in = Sll{Rd: ops.register(0), Rs: ops.register(1), Shamt: uint16(ops.number(2, 0, SHAMT_MASK))}
	case OP_SRL:
		in = Srl{Rd: ops.register(0), Rs: ops.register(1), Shamt: uint16(ops.number(2, 0, SHAMT_MASK))}
	case OP_MULI:
		in = Muli{Rd: ops.register(0), Rs: ops.register(1), Imm: ops.immediate(2)}
	case OP_ADDI:
		in = Addi{Rd: ops.register(0), Rs: ops.register(1), Imm: ops.immediate(2)}
	case OP_ANDI:
		in = Andi{Rd: ops.register(0), Rs: ops.register(1), Imm: ops.immediate(2)}
	case OP_ORI:
		in = Ori{Rd: ops.register(0), Rs: ops.register(1), Imm: ops.immediate(2)}
	case OP_BNE:
		in = Bne{Rs: ops.register(0), Rt: ops.register(1), Imm: ops.immediate(2)}
	case OP_LW:
		in = Lw{Rd: ops.register(0), Base: ops.register(1), Imm: ops.immediate(2)}
	case OP_SW:
		in = Sw{Src: ops.register(0), Base: ops.register(1), Imm: ops.immediate(2)}
	case OP_J:
		in = Jump{Address: uint32(ops.number(0, 0, ADDRESS_MASK))}
	}

	if ops.err != nil {
		in = nil
		err = ops.err
	}

	return
}

// Encode converts a mnemonic and its text operands into a word.
func Encode(mnemonic string, text []string) (word uint32, err error) {
	in, err := Parse(mnemonic, text)
	if err != nil {
		return
	}

	word = in.Word()
	return
}

// EncodeLine encodes a whitespace separated line of text, such as
// "ADDI R1 R0 5".
func EncodeLine(line string) (word uint32, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		err = ErrUnknownMnemonic("")
		return
	}

	return Encode(fields[0], fields[1:])
}
