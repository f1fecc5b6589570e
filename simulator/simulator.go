package simulator

import (
	"errors"
	"iter"
	"log"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/asm"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/machine"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
)

// DEFAULT_MAX_CYCLES bounds Run for programs that never complete.
const DEFAULT_MAX_CYCLES = 100_000

// Result summarizes a run.
type Result struct {
	Cycles    uint64              `json:"cycles"`
	Stats     pipeline.Statistics `json:"stats"`
	Faults    []error             `json:"-"`
	Completed bool                `json:"completed"`
}

// Simulator state. Architectural state + pipeline engine.
type Simulator struct {
	Verbose       bool         // If set, enables verbose logging.
	Program       *asm.Program // Currently loaded program listing.
	MaxCycles     uint64       // Cycle cap for Run; 0 means DEFAULT_MAX_CYCLES.
	PredictorInit uint8        // Initial branch predictor counter.

	State  *machine.State   // Architectural state.
	Engine *pipeline.Engine // Pipeline driving State.
}

// NewSimulator creates a new simulator with an empty program.
func NewSimulator() (sim *Simulator) {
	state := &machine.State{}

	sim = &Simulator{
		Program:   &asm.Program{},
		MaxCycles: DEFAULT_MAX_CYCLES,
		State:     state,
		Engine:    pipeline.NewEngine(state, 0),
	}

	return
}

// Reset loads the program image and resets the engine.
func (sim *Simulator) Reset() (err error) {
	if sim.Program == nil {
		err = ErrNoProgram
		return
	}

	sim.State.Verbose = sim.Verbose
	err = sim.State.LoadProgram(sim.Program.Binary())
	if err != nil {
		return
	}

	sim.Engine.Predictor = pipeline.NewPredictor(sim.PredictorInit)
	sim.Engine.Load(sim.Program.Len())

	if sim.Verbose {
		log.Printf("simulator: reset, %d words, predictor %d", sim.Program.Len(), sim.Engine.Predictor.Counter)
	}

	return
}

// Cycle returns the number of cycles executed since Reset.
func (sim *Simulator) Cycle() uint64 {
	return sim.Engine.Cycle()
}

// Done returns true once the program has drained from the pipeline.
func (sim *Simulator) Done() bool {
	return sim.Engine.Done()
}

// LineNo returns the source line number of the instruction at pc, or 0.
func (sim *Simulator) LineNo(pc uint32) int {
	return sim.Program.LineNo(int(pc))
}

// Tick performs a single cycle. Faults of the cycle are returned joined,
// each located by its source line.
func (sim *Simulator) Tick() (done bool, err error) {
	done, faults := sim.tick()
	err = errors.Join(faults...)
	return
}

func (sim *Simulator) tick() (done bool, faults []error) {
	sim.Engine.Verbose = sim.Verbose

	done, err := sim.Engine.Tick()
	if err == nil {
		return
	}

	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	for _, fault := range errs {
		runtime := &ErrRuntime{Cycle: sim.Cycle(), Err: fault}
		var cycle pipeline.ErrCycle
		if errors.As(fault, &cycle) {
			runtime.LineNo = sim.LineNo(cycle.Pc)
			runtime.Cycle = cycle.Cycle
		}
		faults = append(faults, runtime)
	}

	return
}

// Run ticks until the program completes or the cycle cap is reached.
// Faults do not stop the run; they are collected in the result.
func (sim *Simulator) Run() (result Result, err error) {
	limit := sim.MaxCycles
	if limit == 0 {
		limit = DEFAULT_MAX_CYCLES
	}

	done := sim.Done()
	for !done && sim.Cycle() < limit {
		var faults []error
		done, faults = sim.tick()
		result.Faults = append(result.Faults, faults...)
	}

	result.Cycles = sim.Cycle()
	result.Stats = sim.Engine.Stats
	result.Completed = done

	if !done {
		err = ErrIncomplete
		if sim.Verbose {
			log.Printf("simulator: stopped after %d cycles", result.Cycles)
		}
	}

	return
}

// Data iterates over the non-zero cells of the data segment.
func (sim *Simulator) Data() iter.Seq2[int, int32] {
	return func(yield func(addr int, value int32) bool) {
		for addr, value := range sim.State.Memory.Cells(machine.DATA_BASE, machine.MEMORY_SIZE) {
			if value != 0 && !yield(addr, value) {
				return
			}
		}
	}
}
