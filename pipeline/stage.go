package pipeline

// Stage identifies a pipeline stage.
type Stage int

//go:generate go tool stringer -linecomment -type=Stage,ForwardSource -output=stage_string.go
const (
	STAGE_FETCH     = Stage(iota) // IF
	STAGE_DECODE                  // ID
	STAGE_EXECUTE                 // EX
	STAGE_MEMORY                  // MEM
	STAGE_WRITEBACK               // WB
	STAGE_COUNT                   // -
)

// Multi-cycle stage latencies. All other stages take one cycle.
const (
	DECODE_CYCLES  = 2
	EXECUTE_CYCLES = 2
)

// Latency returns the number of cycles an instruction spends in the stage.
func (st Stage) Latency() int {
	switch st {
	case STAGE_DECODE:
		return DECODE_CYCLES
	case STAGE_EXECUTE:
		return EXECUTE_CYCLES
	default:
		return 1
	}
}

// Stages iterates over the five stages in program order.
func Stages() []Stage {
	return []Stage{STAGE_FETCH, STAGE_DECODE, STAGE_EXECUTE, STAGE_MEMORY, STAGE_WRITEBACK}
}
