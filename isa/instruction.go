package isa

import (
	"fmt"
)

// Register is a general register index, 0 through 31.
type Register uint8

const (
	REGISTER_COUNT = 32
	REGISTER_ZERO  = Register(0)
)

// Valid returns true if the register index is in range.
func (r Register) Valid() bool {
	return r < REGISTER_COUNT
}

func (r Register) String() string {
	return fmt.Sprintf("R%d", uint8(r))
}

// Instruction is a decoded instruction word. The set of implementations is
// closed: one type per opcode.
type Instruction interface {
	// Opcode returns the operation selector.
	Opcode() Opcode
	// Word encodes the instruction as a 32-bit word.
	Word() uint32
	// String returns the assembly text of the instruction.
	String() string
	// Reads returns the source registers in operand order.
	Reads() []Register
	// Writes returns the destination register, if any.
	Writes() (rd Register, ok bool)

	isInstruction()
}

func packR(op Opcode, rd, rs, rt Register, shamt uint16) uint32 {
	return (uint32(op) << OPCODE_SHIFT) |
		((uint32(rd) & REGISTER_MASK) << FIELD_A_SHIFT) |
		((uint32(rs) & REGISTER_MASK) << FIELD_B_SHIFT) |
		((uint32(rt) & REGISTER_MASK) << FIELD_C_SHIFT) |
		(uint32(shamt) & SHAMT_MASK)
}

func packI(op Opcode, a, b Register, imm int32) uint32 {
	return (uint32(op) << OPCODE_SHIFT) |
		((uint32(a) & REGISTER_MASK) << FIELD_A_SHIFT) |
		((uint32(b) & REGISTER_MASK) << FIELD_B_SHIFT) |
		(uint32(imm) & IMMEDIATE_MASK)
}

func fmtR3(op Opcode, a, b, c Register) string {
	return fmt.Sprintf("%v %v %v %v", op, a, b, c)
}

func fmtI(op Opcode, a, b Register, imm int32) string {
	return fmt.Sprintf("%v %v %v %d", op, a, b, imm)
}

// Add is ADD Rd Rs Rt: Rd = Rs + Rt.
type Add struct{ Rd, Rs, Rt Register }

func (Add) Opcode() Opcode { return OP_ADD }
func (in Add) Word() uint32 { return packR(OP_ADD, in.Rd, in.Rs, in.Rt, 0) }
func (in Add) String() string { return fmtR3(OP_ADD, in.Rd, in.Rs, in.Rt) }
func (in Add) Reads() []Register { return []Register{in.Rs, in.Rt} }
func (in Add) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Add) isInstruction() {}

// Sub is SUB Rd Rs Rt: Rd = Rs - Rt.
type Sub struct{ Rd, Rs, Rt Register }

func (Sub) Opcode() Opcode { return OP_SUB }
func (in Sub) Word() uint32 { return packR(OP_SUB, in.Rd, in.Rs, in.Rt, 0) }
func (in Sub) String() string { return fmtR3(OP_SUB, in.Rd, in.Rs, in.Rt) }
func (in Sub) Reads() []Register { return []Register{in.Rs, in.Rt} }
func (in Sub) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Sub) isInstruction() {}

// Sll is SLL Rd Rs shamt: Rd = Rs << shamt.
type Sll struct {
	Rd, Rs Register
	Shamt  uint16
}

func (Sll) Opcode() Opcode { return OP_SLL }
func (in Sll) Word() uint32 { return packR(OP_SLL, in.Rd, in.Rs, 0, in.Shamt) }
func (in Sll) String() string { return fmt.Sprintf("SLL %v %v %d", in.Rd, in.Rs, in.Shamt) }
func (in Sll) Reads() []Register { return []Register{in.Rs} }
func (in Sll) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Sll) isInstruction() {}

// Srl is SRL Rd Rs shamt: Rd = Rs >> shamt, zero filled.
type Srl struct {
	Rd, Rs Register
	Shamt  uint16
}

func (Srl) Opcode() Opcode { return OP_SRL }
func (in Srl) Word() uint32 { return packR(OP_SRL, in.Rd, in.Rs, 0, in.Shamt) }
func (in Srl) String() string { return fmt.Sprintf("SRL %v %v %d", in.Rd, in.Rs, in.Shamt) }
func (in Srl) Reads() []Register { return []Register{in.Rs} }
func (in Srl) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Srl) isInstruction() {}

// Muli is MULI Rd Rs imm: Rd = Rs * imm.
type Muli struct {
	Rd, Rs Register
	Imm    int32
}

func (Muli) Opcode() Opcode { return OP_MULI }
func (in Muli) Word() uint32 { return packI(OP_MULI, in.Rd, in.Rs, in.Imm) }
func (in Muli) String() string { return fmtI(OP_MULI, in.Rd, in.Rs, in.Imm) }
func (in Muli) Reads() []Register { return []Register{in.Rs} }
func (in Muli) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Muli) isInstruction() {}

// Addi is ADDI Rd Rs imm: Rd = Rs + imm.
type Addi struct {
	Rd, Rs Register
	Imm    int32
}

func (Addi) Opcode() Opcode { return OP_ADDI }
func (in Addi) Word() uint32 { return packI(OP_ADDI, in.Rd, in.Rs, in.Imm) }
func (in Addi) String() string { return fmtI(OP_ADDI, in.Rd, in.Rs, in.Imm) }
func (in Addi) Reads() []Register { return []Register{in.Rs} }
func (in Addi) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Addi) isInstruction() {}

// Andi is ANDI Rd Rs imm: Rd = Rs & imm.
type Andi struct {
	Rd, Rs Register
	Imm    int32
}

func (Andi) Opcode() Opcode { return OP_ANDI }
func (in Andi) Word() uint32 { return packI(OP_ANDI, in.Rd, in.Rs, in.Imm) }
func (in Andi) String() string { return fmtI(OP_ANDI, in.Rd, in.Rs, in.Imm) }
func (in Andi) Reads() []Register { return []Register{in.Rs} }
func (in Andi) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Andi) isInstruction() {}

// Ori is ORI Rd Rs imm: Rd = Rs | imm.
type Ori struct {
	Rd, Rs Register
	Imm    int32
}

func (Ori) Opcode() Opcode { return OP_ORI }
func (in Ori) Word() uint32 { return packI(OP_ORI, in.Rd, in.Rs, in.Imm) }
func (in Ori) String() string { return fmtI(OP_ORI, in.Rd, in.Rs, in.Imm) }
func (in Ori) Reads() []Register { return []Register{in.Rs} }
func (in Ori) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Ori) isInstruction() {}

// Bne is BNE Rs Rt imm: if Rs != Rt, branch to pc + 1 + imm.
type Bne struct {
	Rs, Rt Register
	Imm    int32
}

func (Bne) Opcode() Opcode { return OP_BNE }
func (in Bne) Word() uint32 { return packI(OP_BNE, in.Rs, in.Rt, in.Imm) }
func (in Bne) String() string { return fmtI(OP_BNE, in.Rs, in.Rt, in.Imm) }
func (in Bne) Reads() []Register { return []Register{in.Rs, in.Rt} }
func (in Bne) Writes() (rd Register, ok bool) { return }
func (Bne) isInstruction() {}

// Target returns the taken destination of a branch at pc.
func (in Bne) Target(pc uint32) uint32 {
	return pc + 1 + uint32(in.Imm)
}

// Lw is LW Rd Rbase imm: Rd = mem[Rbase + imm + 1024].
type Lw struct {
	Rd, Base Register
	Imm      int32
}

func (Lw) Opcode() Opcode { return OP_LW }
func (in Lw) Word() uint32 { return packI(OP_LW, in.Rd, in.Base, in.Imm) }
func (in Lw) String() string { return fmtI(OP_LW, in.Rd, in.Base, in.Imm) }
func (in Lw) Reads() []Register { return []Register{in.Base} }
func (in Lw) Writes() (rd Register, ok bool) { return in.Rd, true }
func (Lw) isInstruction() {}

// Sw is SW Rsrc Rbase imm: mem[Rbase + imm + 1024] = Rsrc.
type Sw struct {
	Src, Base Register
	Imm       int32
}

func (Sw) Opcode() Opcode { return OP_SW }
func (in Sw) Word() uint32 { return packI(OP_SW, in.Src, in.Base, in.Imm) }
func (in Sw) String() string { return fmtI(OP_SW, in.Src, in.Base, in.Imm) }
func (in Sw) Reads() []Register { return []Register{in.Base, in.Src} }
func (in Sw) Writes() (rd Register, ok bool) { return }
func (Sw) isInstruction() {}

// Jump is J address: pc = pc[31:28] | address.
type Jump struct {
	Address uint32
}

func (Jump) Opcode() Opcode { return OP_J }
func (in Jump) Word() uint32 {
	return (uint32(OP_J) << OPCODE_SHIFT) | (in.Address & ADDRESS_MASK)
}
func (in Jump) String() string { return fmt.Sprintf("J %d", in.Address) }
func (in Jump) Reads() []Register { return nil }
func (in Jump) Writes() (rd Register, ok bool) { return }
func (Jump) isInstruction() {}

// Target returns the destination of a jump located at pc.
func (in Jump) Target(pc uint32) uint32 {
	return (pc & PC_REGION_MASK) | (in.Address & ADDRESS_MASK)
}
