package pipeline

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func decoded(in isa.Instruction) Slot {
	slot := Slot{Valid: true, Word: in.Word(), CyclesSpent: 1}
	Expect(slot.decode()).To(Succeed())
	return slot
}

var _ = Describe("HazardUnit", func() {
	var (
		hu      *HazardUnit
		decode  Slot
		execute Slot
		memory  Slot
	)

	BeforeEach(func() {
		hu = &HazardUnit{LoadUseStall: LOAD_USE_STALL}
		decode = decoded(isa.Add{Rd: 3, Rs: 1, Rt: 2})
		execute = Slot{}
		memory = Slot{}
	})

	It("should not forward with empty stages", func() {
		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec).To(Equal(Decision{}))
	})

	It("should forward a computed result from execute", func() {
		execute = decoded(isa.Addi{Rd: 1, Rs: 0, Imm: 5})
		execute.CyclesSpent = EXECUTE_CYCLES
		execute.Result = 5

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.Forward).To(Equal([2]ForwardSource{FORWARD_EXECUTE, FORWARD_NONE}))
		Expect(hu.Forwarded(1, 0, &execute, &memory)).To(Equal(int32(5)))
		Expect(hu.Forwarded(2, 9, &execute, &memory)).To(Equal(int32(9)))
	})

	It("should not forward from execute before it computes", func() {
		execute = decoded(isa.Addi{Rd: 1, Rs: 0, Imm: 5})

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.Forward[0]).To(Equal(FORWARD_NONE))
	})

	It("should prefer execute over memory", func() {
		execute = decoded(isa.Addi{Rd: 2, Rs: 0, Imm: 5})
		execute.CyclesSpent = EXECUTE_CYCLES
		execute.Result = 5
		memory = decoded(isa.Addi{Rd: 2, Rs: 0, Imm: 7})
		memory.Result = 7

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.Forward).To(Equal([2]ForwardSource{FORWARD_NONE, FORWARD_EXECUTE}))
		Expect(hu.Forwarded(2, 0, &execute, &memory)).To(Equal(int32(5)))
	})

	It("should forward a loaded value from memory", func() {
		memory = decoded(isa.Lw{Rd: 1, Base: 0, Imm: 0})
		memory.Result = 21

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.Forward[0]).To(Equal(FORWARD_MEMORY))
		Expect(dec.LoadUse).To(BeFalse())
		Expect(hu.Forwarded(1, 0, &execute, &memory)).To(Equal(int32(21)))
	})

	It("should never forward register zero", func() {
		decode = decoded(isa.Add{Rd: 3, Rs: 0, Rt: 0})
		execute = decoded(isa.Addi{Rd: 0, Rs: 1, Imm: 5})
		execute.CyclesSpent = EXECUTE_CYCLES
		execute.Result = 5

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.Forward).To(Equal([2]ForwardSource{FORWARD_NONE, FORWARD_NONE}))
		Expect(hu.Forwarded(0, 0, &execute, &memory)).To(Equal(int32(0)))
	})

	It("should detect a load-use hazard", func() {
		execute = decoded(isa.Lw{Rd: 2, Base: 0, Imm: 0})

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.LoadUse).To(BeTrue())
		Expect(dec.Forward[1]).To(Equal(FORWARD_NONE))
	})

	It("should detect a load-use hazard on a store value", func() {
		decode = decoded(isa.Sw{Src: 4, Base: 0, Imm: 0})
		execute = decoded(isa.Lw{Rd: 4, Base: 0, Imm: 0})

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.LoadUse).To(BeTrue())
	})

	It("should ignore an unrelated load", func() {
		execute = decoded(isa.Lw{Rd: 9, Base: 0, Imm: 0})

		dec := hu.Detect(&decode, &execute, &memory)
		Expect(dec.LoadUse).To(BeFalse())
		Expect(dec.Structural).To(BeFalse())
	})

	It("should detect the memory port conflict", func() {
		execute = decoded(isa.Sw{Src: 9, Base: 0, Imm: 0})
		execute.CyclesSpent = EXECUTE_CYCLES

		dec := hu.Detect(&Slot{}, &execute, &memory)
		Expect(dec.Structural).To(BeTrue())
	})
})

var _ = Describe("Predictor", func() {
	It("should saturate", func() {
		bp := NewPredictor(0)
		Expect(bp.Predict()).To(BeFalse())

		bp.Update(false)
		Expect(bp.Counter).To(Equal(uint8(0)))

		bp.Update(true)
		Expect(bp.Predict()).To(BeFalse())
		bp.Update(true)
		Expect(bp.Predict()).To(BeTrue())
		bp.Update(true)
		bp.Update(true)
		Expect(bp.Counter).To(Equal(uint8(PREDICTOR_MAX)))

		bp.Update(false)
		Expect(bp.Counter).To(Equal(uint8(2)))
		Expect(bp.Predict()).To(BeTrue())

		bp.Reset()
		Expect(bp.Counter).To(Equal(uint8(0)))
	})

	It("should clamp the initial value", func() {
		bp := NewPredictor(9)
		Expect(bp.Counter).To(Equal(uint8(PREDICTOR_MAX)))
		Expect(bp.Predict()).To(BeTrue())
	})
})

var _ = Describe("Statistics", func() {
	It("should derive CPI and accuracy", func() {
		st := Statistics{}
		Expect(st.CPI()).To(BeZero())
		Expect(st.Accuracy()).To(BeZero())

		st = Statistics{Cycles: 9, Instructions: 2, Predictions: 4, Mispredictions: 1}
		Expect(st.CPI()).To(Equal(4.5))
		Expect(st.Accuracy()).To(Equal(0.75))
		Expect(st.String()).To(ContainSubstring("cycles=9"))
	})
})
