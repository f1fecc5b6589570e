// Package isa implements the instruction codec of the pipeline simulator.
//
// Every instruction is a 32-bit word whose upper four bits select one of
// twelve opcodes. Opcodes fall into three formats: R (three registers or a
// register and a shift amount), I (two registers and an 18-bit signed
// immediate) and J (a 28-bit absolute address).
//
// Decoded instructions are represented as one Go type per opcode, each
// carrying only the fields that opcode uses. All of them satisfy the sealed
// Instruction interface.
package isa
