package isa

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTables(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mnemonic string
		op       Opcode
		format   Format
		operands int
	}){
		{"ADD", OP_ADD, FORMAT_R, 3},
		{"SUB", OP_SUB, FORMAT_R, 3},
		{"MULI", OP_MULI, FORMAT_I, 3},
		{"ADDI", OP_ADDI, FORMAT_I, 3},
		{"BNE", OP_BNE, FORMAT_I, 3},
		{"ANDI", OP_ANDI, FORMAT_I, 3},
		{"ORI", OP_ORI, FORMAT_I, 3},
		{"J", OP_J, FORMAT_J, 1},
		{"SLL", OP_SLL, FORMAT_R, 3},
		{"SRL", OP_SRL, FORMAT_R, 3},
		{"LW", OP_LW, FORMAT_I, 3},
		{"SW", OP_SW, FORMAT_I, 3},
	}

	for n, entry := range table {
		assert.Equal(Opcode(n), entry.op)
		assert.Equal(entry.mnemonic, entry.op.String())
		assert.Equal(entry.format, entry.op.Format(), entry.mnemonic)
		assert.Equal(entry.operands, entry.op.Operands(), entry.mnemonic)
		assert.True(entry.op.Valid())

		op, ok := Lookup(entry.mnemonic)
		assert.True(ok)
		assert.Equal(entry.op, op)
	}

	assert.Equal(len(table), len(slices.Collect(Opcodes())))
}

func TestOpcodeInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []Opcode{12, 13, 14, 15} {
		assert.False(op.Valid())
		assert.Equal(fmt.Sprintf("Opcode(%d)", uint8(op)), op.String())
		assert.Equal(FORMAT_INVALID, op.Format())
		assert.Equal(FORMAT_INVALID, OpcodeOf(uint32(op)<<OPCODE_SHIFT).Format())
	}

	assert.Equal("invalid", FORMAT_INVALID.String())

	_, ok := Lookup("NOP")
	assert.False(ok)

	op, ok := Lookup("bne")
	assert.True(ok)
	assert.Equal(OP_BNE, op)
}

func TestOpcodeOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(OP_SW, OpcodeOf(0xb100_0005))
	assert.Equal(OP_ADD, OpcodeOf(0x0fff_ffff))
	assert.Equal(Opcode(15), OpcodeOf(0xffff_ffff))
	assert.Equal("I", FORMAT_I.String())
}
