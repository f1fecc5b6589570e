package pipeline

import (
	"errors"
	"log"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/machine"
)

// Engine drives the pipeline over an architectural state.
type Engine struct {
	Verbose bool // If set, logs every stage transition.

	HazardUnit HazardUnit
	Predictor  Predictor
	Stats      Statistics

	hookable

	state  *machine.State
	length uint32

	slot         [STAGE_COUNT]Slot
	cycle        uint64
	seq          uint64
	flushPending bool // Fetch waits for a redirect to reach writeback.

	errs []error
}

// NewEngine creates an engine executing the first length words of the
// state's memory.
func NewEngine(state *machine.State, length int) (e *Engine) {
	e = &Engine{
		HazardUnit: HazardUnit{LoadUseStall: LOAD_USE_STALL},
		state:      state,
		length:     uint32(max(0, min(length, machine.PROGRAM_LIMIT))),
	}

	return
}

// State returns the architectural state the engine executes.
func (e *Engine) State() *machine.State {
	return e.state
}

// Length returns the number of program words.
func (e *Engine) Length() int {
	return int(e.length)
}

// Cycle returns the number of cycles executed since Reset.
func (e *Engine) Cycle() uint64 {
	return e.cycle
}

// Slots returns a copy of every stage record.
func (e *Engine) Slots() (slots [STAGE_COUNT]Slot) {
	return e.slot
}

// Slot returns a copy of one stage record.
func (e *Engine) Slot(stage Stage) Slot {
	return e.slot[stage]
}

// FlushPending returns true while fetch waits for a redirect.
func (e *Engine) FlushPending() bool {
	return e.flushPending
}

// Reset empties the pipeline, the counters and the predictor, and sets the
// program counter to 0. Memory and registers are left alone.
func (e *Engine) Reset() {
	clear(e.slot[:])
	e.cycle = 0
	e.seq = 0
	e.flushPending = false
	e.Stats = Statistics{}
	e.Predictor.Reset()
	e.state.Pc = 0
}

// Load sets the number of program words and resets the engine.
func (e *Engine) Load(length int) {
	e.length = uint32(max(0, min(length, machine.PROGRAM_LIMIT)))
	e.Reset()
}

// Done returns true once the program counter has left the program, no
// redirect is pending, and the pipeline has drained.
func (e *Engine) Done() bool {
	if e.state.Pc < e.length || e.flushPending {
		return false
	}

	for _, stage := range []Stage{STAGE_FETCH, STAGE_DECODE, STAGE_EXECUTE, STAGE_MEMORY} {
		if e.slot[stage].Valid {
			return false
		}
	}

	return true
}

func (e *Engine) invoke(pos *HookPos, stage Stage, slot *Slot, err error) {
	if len(e.hookList) == 0 {
		return
	}

	e.invokeHook(HookCtx{
		Engine: e,
		Pos:    pos,
		Cycle:  e.cycle,
		Stage:  stage,
		Slot:   slot,
		Err:    err,
	})
}

// fault reports a non-fatal fault for the instruction in a stage.
func (e *Engine) fault(stage Stage, slot *Slot, err error) {
	err = ErrCycle{Cycle: e.cycle, Pc: slot.Pc, Err: err}
	e.errs = append(e.errs, err)
	e.Stats.Faults++

	if e.Verbose {
		log.Printf("pipeline: %v: %v", stage, err)
	}

	e.invoke(HOOK_FAULT, stage, slot, err)
}

// discard squashes the instruction in a stage.
func (e *Engine) discard(stage Stage) {
	slot := &e.slot[stage]
	if !slot.Valid {
		return
	}

	gone := *slot
	*slot = Slot{}
	e.Stats.Squashed++

	if e.Verbose {
		log.Printf("pipeline: %v: squash %v", stage, &gone)
	}

	e.invoke(HOOK_FLUSH, stage, &gone, nil)
}

// Tick advances the pipeline by one cycle. Faults raised during the cycle
// are returned joined, and do not stop the engine.
func (e *Engine) Tick() (done bool, err error) {
	if e.Done() {
		done = true
		return
	}

	e.cycle++
	e.Stats.Cycles++
	e.errs = e.errs[:0]
	e.state.ClearChanges()

	decode := &e.slot[STAGE_DECODE]
	execute := &e.slot[STAGE_EXECUTE]
	memory := &e.slot[STAGE_MEMORY]

	decision := e.HazardUnit.Detect(decode, execute, memory)

	// Bypass newer values into the decode operands before decode can
	// advance into execute.
	for n, r := range decode.Sources {
		if n >= len(decision.Forward) || decision.Forward[n] == FORWARD_NONE {
			continue
		}
		decode.Operands[n] = e.HazardUnit.Forwarded(r, decode.Operands[n], execute, memory)
		e.Stats.Forwards++
		if e.Verbose {
			log.Printf("pipeline: ID: forward %v from %v to %v", r, decision.Forward[n], decode)
		}
	}

	if decision.LoadUse && decode.StallCycles == 0 && !decode.loadUse {
		decode.StallCycles = e.HazardUnit.LoadUseStall
		decode.loadUse = true
	}

	frozen := decode.Valid && decode.StallCycles > 0

	e.writeback()
	e.memory()
	e.execute()
	e.decode()
	e.fetch(frozen, decision.Structural)

	e.invoke(HOOK_CYCLE_END, STAGE_WRITEBACK, nil, nil)

	if len(e.errs) > 0 {
		err = errors.Join(e.errs...)
	}

	done = e.Done()

	return
}

func (e *Engine) writeback() {
	wb := &e.slot[STAGE_WRITEBACK]
	mem := &e.slot[STAGE_MEMORY]

	*wb = Slot{}
	if !mem.Valid {
		return
	}

	*wb = *mem
	*mem = Slot{}
	wb.CyclesSpent = 1

	if wb.RegWrite && wb.Dest != isa.REGISTER_ZERO && wb.Fault == nil {
		err := e.state.Registers.Write(wb.Dest, wb.Result)
		if err != nil {
			e.fault(STAGE_WRITEBACK, wb, err)
		}
	}

	if wb.Redirect {
		e.state.Pc = wb.Target
		e.flushPending = false
		if e.Verbose {
			log.Printf("pipeline: WB: redirect to %d", wb.Target)
		}
	}

	e.Stats.Instructions++

	if e.Verbose {
		log.Printf("pipeline: WB: retire %v", wb)
	}

	e.invoke(HOOK_RETIRE, STAGE_WRITEBACK, wb, nil)
}

func (e *Engine) memory() {
	mem := &e.slot[STAGE_MEMORY]
	ex := &e.slot[STAGE_EXECUTE]

	if !ex.Valid || ex.CyclesSpent < EXECUTE_CYCLES {
		return
	}

	*mem = *ex
	*ex = Slot{}
	mem.CyclesSpent = 1

	if !mem.MemRead && !mem.MemWrite {
		return
	}

	if mem.Fault != nil {
		e.fault(STAGE_MEMORY, mem, mem.Fault)
		return
	}

	var err error
	switch {
	case mem.MemRead:
		mem.Result, err = e.state.Memory.Read(mem.Address)
	case mem.MemWrite:
		err = e.state.Memory.Write(mem.Address, mem.Operands[1])
	}

	if err != nil {
		mem.Fault = err
		e.fault(STAGE_MEMORY, mem, err)
	}
}

func (e *Engine) execute() {
	ex := &e.slot[STAGE_EXECUTE]
	id := &e.slot[STAGE_DECODE]

	if !ex.Valid {
		if id.Valid && id.CyclesSpent >= DECODE_CYCLES && id.StallCycles == 0 {
			*ex = *id
			*id = Slot{}
			ex.CyclesSpent = 1
			if e.Verbose {
				log.Printf("pipeline: EX: %v", ex)
			}
		}
		return
	}

	if ex.CyclesSpent >= EXECUTE_CYCLES {
		return
	}

	ex.CyclesSpent++
	e.compute(ex)
}

// compute performs the execute stage work for an instruction.
func (e *Engine) compute(ex *Slot) {
	a, b := ex.Operands[0], ex.Operands[1]

	switch in := ex.Instruction.(type) {
	case isa.Add:
		ex.Result = a + b
	case isa.Sub:
		ex.Result = a - b
	case isa.Sll:
		ex.Result = int32(uint32(a) << in.Shamt)
	case isa.Srl:
		ex.Result = int32(uint32(a) >> in.Shamt)
	case isa.Muli:
		ex.Result = a * in.Imm
	case isa.Addi:
		ex.Result = a + in.Imm
	case isa.Andi:
		ex.Result = a & in.Imm
	case isa.Ori:
		ex.Result = a | in.Imm
	case isa.Lw:
		ex.Address, ex.Fault = machine.DataAddress(a, in.Imm)
	case isa.Sw:
		ex.Address, ex.Fault = machine.DataAddress(a, in.Imm)
	case isa.Bne:
		ex.Taken = a != b
		e.Predictor.Update(ex.Taken)
		e.Stats.Predictions++
		if ex.Taken != ex.Predicted {
			e.Stats.Mispredictions++
			ex.Target = ex.Pc + 1
			if ex.Taken {
				ex.Target = in.Target(ex.Pc)
			}
			e.flush(ex)
		}
	case isa.Jump:
		ex.Taken = true
		ex.Target = in.Target(ex.Pc)
		e.flush(ex)
	}

	if e.Verbose {
		log.Printf("pipeline: EX: computed %v result=%d", ex, ex.Result)
	}
}

// flush discards fetch and decode and holds fetch until the redirect
// commits at writeback.
func (e *Engine) flush(ex *Slot) {
	ex.Redirect = true
	e.flushPending = true
	e.Stats.Flushes++

	if e.Verbose {
		log.Printf("pipeline: EX: flush, redirect to %d", ex.Target)
	}

	e.discard(STAGE_DECODE)
	e.discard(STAGE_FETCH)
}

func (e *Engine) decode() {
	id := &e.slot[STAGE_DECODE]
	fe := &e.slot[STAGE_FETCH]

	if id.Valid {
		id.CyclesSpent++

		if id.StallCycles > 0 {
			id.StallCycles--
			e.Stats.Stalls++
			if e.Verbose {
				log.Printf("pipeline: ID: load-use stall %v", id)
			}
			e.invoke(HOOK_STALL, STAGE_DECODE, id, nil)
		}

		if id.CyclesSpent == DECODE_CYCLES && id.Predicted {
			if bne, ok := id.Instruction.(isa.Bne); ok {
				e.discard(STAGE_FETCH)
				e.state.Pc = bne.Target(id.Pc)
				e.Stats.Redirects++
				if e.Verbose {
					log.Printf("pipeline: ID: predicted taken, fetch from %d", e.state.Pc)
				}
			}
		}
		return
	}

	if !fe.Valid {
		return
	}

	*id = *fe
	*fe = Slot{}
	id.CyclesSpent = 1

	err := id.decode()
	if err != nil {
		e.fault(STAGE_DECODE, id, err)
		*id = Slot{}
		return
	}

	for n, r := range id.Sources {
		if n < len(id.Operands) {
			id.Operands[n] = e.state.Registers.Read(r)
		}
	}

	if e.Verbose {
		log.Printf("pipeline: ID: %v", id)
	}
}

func (e *Engine) fetch(frozen bool, structural bool) {
	fe := &e.slot[STAGE_FETCH]
	pc := e.state.Pc

	if fe.Valid || e.flushPending || frozen || pc >= e.length {
		return
	}

	if structural {
		e.Stats.StructuralStalls++
		if e.Verbose {
			log.Printf("pipeline: IF: memory port busy")
		}
		e.invoke(HOOK_STALL, STAGE_FETCH, nil, nil)
		return
	}

	value, err := e.state.Memory.Read(int(pc))
	if err != nil {
		e.fault(STAGE_FETCH, &Slot{Pc: pc}, err)
		return
	}

	e.seq++
	*fe = Slot{
		Valid:       true,
		Seq:         e.seq,
		Word:        uint32(value),
		Pc:          pc,
		CyclesSpent: 1,
	}

	if fe.Opcode() == isa.OP_BNE {
		fe.Predicted = e.Predictor.Predict()
	}

	e.state.Pc = pc + 1
	e.Stats.Fetched++

	if e.Verbose {
		log.Printf("pipeline: IF: %d: %v", pc, fe)
	}

	e.invoke(HOOK_FETCH, STAGE_FETCH, fe, nil)
}
