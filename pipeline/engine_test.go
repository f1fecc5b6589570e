package pipeline

import (
	"errors"
	"fmt"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/machine"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

func assemble(lines ...string) (words []uint32) {
	for _, line := range lines {
		word, err := isa.EncodeLine(line)
		Expect(err).NotTo(HaveOccurred(), line)
		words = append(words, word)
	}
	return
}

func load(words []uint32) (*machine.State, *Engine) {
	st := &machine.State{}
	Expect(st.LoadProgram(words)).To(Succeed())
	return st, NewEngine(st, len(words))
}

// drain ticks until done, failing on any fault.
func drain(e *Engine) uint64 {
	for range 1000 {
		done, err := e.Tick()
		Expect(err).NotTo(HaveOccurred())
		if done {
			return e.Cycle()
		}
	}
	Fail("engine did not finish")
	return 0
}

func reg(st *machine.State, r isa.Register) int32 {
	return st.Registers.Read(r)
}

var _ = Describe("Engine", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should finish an empty program without cycling", func() {
		_, e := load(nil)

		done, err := e.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(e.Cycle()).To(BeZero())
	})

	DescribeTable("should retire independent instructions two cycles apart",
		func(n int) {
			var lines []string
			for r := 1; r <= n; r++ {
				lines = append(lines, fmt.Sprintf("ADDI R%d R0 %d", r, r*10))
			}
			st, e := load(assemble(lines...))

			Expect(drain(e)).To(Equal(uint64(7 + (n-1)*2)))
			Expect(e.Stats.Instructions).To(Equal(uint64(n)))
			Expect(e.Stats.Fetched).To(Equal(uint64(n)))
			for r := 1; r <= n; r++ {
				Expect(reg(st, isa.Register(r))).To(Equal(int32(r * 10)))
			}
		},
		Entry("one", 1),
		Entry("two", 2),
		Entry("three", 3),
		Entry("eight", 8),
	)

	It("should not count ticks after completion", func() {
		_, e := load(assemble("ADDI R1 R0 1"))

		Expect(drain(e)).To(Equal(uint64(7)))
		done, err := e.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(e.Cycle()).To(Equal(uint64(7)))
		Expect(e.Stats.Cycles).To(Equal(uint64(7)))
	})

	It("should forward from execute without stalling", func() {
		st, e := load(assemble(
			"ADDI R1 R0 5",
			"ADD R2 R1 R1",
		))

		Expect(drain(e)).To(Equal(uint64(9)))
		Expect(reg(st, 2)).To(Equal(int32(10)))
		Expect(e.Stats.Stalls).To(BeZero())
		Expect(e.Stats.Forwards).To(BeNumerically(">", 0))
	})

	It("should forward from memory", func() {
		st, e := load(assemble(
			"ADDI R1 R0 5",
			"ADDI R9 R0 1",
			"SUB R2 R1 R9",
		))

		Expect(drain(e)).To(Equal(uint64(11)))
		Expect(reg(st, 2)).To(Equal(int32(4)))
		Expect(e.Stats.Stalls).To(BeZero())
	})

	It("should forward a store value", func() {
		st, e := load(assemble(
			"ADDI R2 R0 9",
			"SW R2 R0 5",
		))

		drain(e)
		value, err := st.Memory.Read(machine.DATA_BASE + 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(int32(9)))
	})

	It("should stall decode behind a load", func() {
		st, e := load(assemble(
			"LW R1 R0 0",
			"ADD R2 R1 R1",
		))
		Expect(st.Memory.Write(machine.DATA_BASE, 21)).To(Succeed())

		Expect(drain(e)).To(Equal(uint64(10)))
		Expect(reg(st, 1)).To(Equal(int32(21)))
		Expect(reg(st, 2)).To(Equal(int32(42)))
		Expect(e.Stats.Stalls).To(Equal(uint64(LOAD_USE_STALL)))
	})

	It("should flush a mispredicted branch", func() {
		st, e := load(assemble(
			"ADDI R1 R0 1",
			"BNE R1 R0 2",
			"ADDI R2 R0 99",
			"ADDI R3 R0 99",
			"ADDI R4 R0 7",
		))

		Expect(drain(e)).To(Equal(uint64(15)))
		Expect(reg(st, 2)).To(BeZero())
		Expect(reg(st, 3)).To(BeZero())
		Expect(reg(st, 4)).To(Equal(int32(7)))
		Expect(e.Predictor.Counter).To(Equal(uint8(1)))
		Expect(e.Stats.Flushes).To(Equal(uint64(1)))
		Expect(e.Stats.Squashed).To(Equal(uint64(2)))
		Expect(e.Stats.Mispredictions).To(Equal(uint64(1)))
		Expect(e.Stats.Instructions).To(Equal(uint64(3)))
	})

	It("should follow a branch predicted taken without a flush", func() {
		st, e := load(assemble(
			"ADDI R1 R0 1",
			"BNE R1 R0 2",
			"ADDI R2 R0 99",
			"ADDI R3 R0 99",
			"ADDI R4 R0 7",
		))
		e.Predictor = NewPredictor(3)

		Expect(drain(e)).To(Equal(uint64(11)))
		Expect(reg(st, 2)).To(BeZero())
		Expect(reg(st, 3)).To(BeZero())
		Expect(reg(st, 4)).To(Equal(int32(7)))
		Expect(e.Stats.Redirects).To(Equal(uint64(1)))
		Expect(e.Stats.Flushes).To(BeZero())
		Expect(e.Stats.Squashed).To(Equal(uint64(1)))
		Expect(e.Predictor.Counter).To(Equal(uint8(3)))
	})

	It("should recover from a branch wrongly predicted taken", func() {
		st, e := load(assemble(
			"ADDI R1 R0 0",
			"BNE R1 R0 2",
			"ADDI R2 R0 5",
			"ADDI R3 R0 6",
			"ADDI R4 R0 7",
		))
		e.Predictor = NewPredictor(2)

		Expect(drain(e)).To(Equal(uint64(19)))
		Expect(reg(st, 2)).To(Equal(int32(5)))
		Expect(reg(st, 3)).To(Equal(int32(6)))
		Expect(reg(st, 4)).To(Equal(int32(7)))
		Expect(e.Stats.Redirects).To(Equal(uint64(1)))
		Expect(e.Stats.Mispredictions).To(Equal(uint64(1)))
		Expect(e.Predictor.Counter).To(Equal(uint8(1)))
	})

	It("should train the predictor over a loop", func() {
		st, e := load(assemble(
			"ADDI R1 R0 3",
			"ADDI R1 R1 -1",
			"BNE R1 R0 -2",
		))

		drain(e)
		Expect(reg(st, 1)).To(BeZero())
		Expect(e.Stats.Predictions).To(Equal(uint64(3)))
		Expect(e.Stats.Mispredictions).To(Equal(uint64(3)))
		Expect(e.Predictor.Counter).To(Equal(uint8(1)))
	})

	It("should always flush on a jump", func() {
		st, e := load(assemble(
			"J 2",
			"ADDI R1 R0 1",
			"ADDI R2 R0 2",
		))

		Expect(drain(e)).To(Equal(uint64(13)))
		Expect(reg(st, 1)).To(BeZero())
		Expect(reg(st, 2)).To(Equal(int32(2)))
		Expect(e.Stats.Flushes).To(Equal(uint64(1)))
		Expect(e.Stats.Squashed).To(Equal(uint64(2)))
		Expect(e.Stats.Predictions).To(BeZero())
	})

	It("should delay fetch while a load takes the memory port", func() {
		_, e := load(assemble(
			"LW R1 R0 0",
			"ADDI R2 R0 1",
			"ADDI R3 R0 2",
			"ADDI R4 R0 3",
		))

		var fetched []uint64
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			if ctx.Pos == HOOK_FETCH {
				fetched = append(fetched, ctx.Cycle)
			}
		}).AnyTimes()
		e.AcceptHook(hook)

		drain(e)
		Expect(fetched).To(Equal([]uint64{1, 2, 4, 7}))
		Expect(e.Stats.StructuralStalls).To(Equal(uint64(1)))
	})

	It("should keep register zero at zero", func() {
		st, e := load(assemble(
			"ADDI R0 R0 5",
			"ADD R1 R0 R0",
		))

		drain(e)
		Expect(reg(st, 0)).To(BeZero())
		Expect(reg(st, 1)).To(BeZero())
		Expect(e.Stats.Forwards).To(BeZero())
	})

	It("should report faults and keep running", func() {
		words := assemble(
			"LW R1 R0 2000",
			"ADDI R2 R0 3",
		)
		words = append([]uint32{0xf000_0000}, words...)
		st, e := load(words)

		var faults []error
		for !e.Done() {
			_, err := e.Tick()
			if err != nil {
				faults = append(faults, err)
			}
		}

		Expect(faults).To(HaveLen(2))
		Expect(errors.Is(faults[0], isa.ErrOpcodeInvalid)).To(BeTrue())
		Expect(errors.Is(faults[1], machine.ErrOutOfBounds)).To(BeTrue())

		var cycleErr ErrCycle
		Expect(errors.As(faults[1], &cycleErr)).To(BeTrue())
		Expect(cycleErr.Pc).To(Equal(uint32(1)))

		Expect(reg(st, 1)).To(BeZero())
		Expect(reg(st, 2)).To(Equal(int32(3)))
		Expect(e.Stats.Faults).To(Equal(uint64(2)))
	})

	It("should report a store out of bounds and leave memory alone", func() {
		st, e := load(assemble(
			"ADDI R1 R0 9",
			"SW R1 R0 2000",
			"SW R1 R0 4",
		))

		var stores []Stage
		e.AcceptHook(HookFunc(func(ctx HookCtx) {
			if ctx.Pos == HOOK_FAULT && ctx.Slot.Opcode() == isa.OP_SW {
				stores = append(stores, ctx.Stage)
			}
		}))

		var faults []error
		for !e.Done() {
			_, err := e.Tick()
			if err != nil {
				faults = append(faults, err)
			}
		}

		Expect(faults).To(HaveLen(1))
		Expect(errors.Is(faults[0], machine.ErrOutOfBounds)).To(BeTrue())

		var cycleErr ErrCycle
		Expect(errors.As(faults[0], &cycleErr)).To(BeTrue())
		Expect(cycleErr.Pc).To(Equal(uint32(1)))

		Expect(stores).To(Equal([]Stage{STAGE_MEMORY}))
		Expect(e.Stats.Faults).To(Equal(uint64(1)))
		Expect(e.Stats.Instructions).To(Equal(uint64(3)))

		for addr, value := range st.Memory.Cells(machine.DATA_BASE, machine.MEMORY_SIZE) {
			if addr == machine.DATA_BASE+4 {
				Expect(value).To(Equal(int32(9)))
			} else {
				Expect(value).To(BeZero(), "mem[%d]", addr)
			}
		}
	})

	It("should invoke hooks for every retire and cycle", func() {
		_, e := load(assemble(
			"ADDI R1 R0 1",
			"ADDI R2 R0 2",
		))

		calls := map[string]int{}
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Engine).To(BeIdenticalTo(e))
			calls[ctx.Pos.Name]++
		}).Times(2 + 2 + 9)
		e.AcceptHook(hook)

		Expect(drain(e)).To(Equal(uint64(9)))
		Expect(calls).To(Equal(map[string]int{
			HOOK_FETCH.Name:     2,
			HOOK_RETIRE.Name:    2,
			HOOK_CYCLE_END.Name: 9,
		}))
		Expect(e.NumHooks()).To(Equal(1))
	})

	It("should restart after Reset", func() {
		st, e := load(assemble("ADDI R1 R1 1"))

		drain(e)
		Expect(reg(st, 1)).To(Equal(int32(1)))

		e.Reset()
		Expect(e.Done()).To(BeFalse())
		Expect(e.Stats).To(Equal(Statistics{}))

		Expect(drain(e)).To(Equal(uint64(7)))
		Expect(reg(st, 1)).To(Equal(int32(2)))
	})

	It("should run a new length after Load", func() {
		st, e := load(assemble("ADDI R1 R0 1", "ADDI R2 R0 2"))
		e.Load(1)

		Expect(e.Length()).To(Equal(1))
		Expect(drain(e)).To(Equal(uint64(7)))
		Expect(reg(st, 1)).To(Equal(int32(1)))
		Expect(reg(st, 2)).To(BeZero())

		e.Load(machine.PROGRAM_LIMIT + 1)
		Expect(e.Length()).To(Equal(machine.PROGRAM_LIMIT))
	})

	It("should expose the stage records", func() {
		_, e := load(assemble("ADDI R1 R0 1", "ADDI R2 R0 2"))

		_, err := e.Tick()
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Tick()
		Expect(err).NotTo(HaveOccurred())

		slots := e.Slots()
		Expect(slots[STAGE_DECODE].String()).To(Equal("ADDI R1 R0 1"))
		Expect(slots[STAGE_FETCH].String()).To(Equal("ADDI R2 R0 2"))
		ex := e.Slot(STAGE_EXECUTE)
		Expect(ex.String()).To(Equal("-"))
		Expect(STAGE_DECODE.Latency()).To(Equal(2))
		Expect(STAGE_MEMORY.String()).To(Equal("MEM"))
	})
})
