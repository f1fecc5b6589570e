package monitor

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
)

type errorRsp struct {
	Error string `json:"error"`
}

type stageRsp struct {
	Stage       string `json:"stage"`
	Valid       bool   `json:"valid"`
	Pc          uint32 `json:"pc"`
	Instruction string `json:"instruction"`
	LineNo      int    `json:"line_no,omitempty"`
	CyclesSpent int    `json:"cycles_spent"`
	StallCycles int    `json:"stall_cycles"`
}

type stateRsp struct {
	Cycle        uint64     `json:"cycle"`
	Pc           uint32     `json:"pc"`
	Done         bool       `json:"done"`
	FlushPending bool       `json:"flush_pending"`
	Stages       []stageRsp `json:"stages"`
	Changes      []string   `json:"changes,omitempty"`
	Faults       []string   `json:"faults,omitempty"`
}

type cellRsp struct {
	Address int   `json:"address"`
	Value   int32 `json:"value"`
}

type changeRsp struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Old   int32  `json:"old"`
	New   int32  `json:"new"`
}

type statsRsp struct {
	pipeline.Statistics
	CPI      float64 `json:"cpi"`
	Accuracy float64 `json:"accuracy"`
	Toggles  int     `json:"toggles"`
}

type runRsp struct {
	Cycles    uint64              `json:"cycles"`
	Stats     pipeline.Statistics `json:"stats"`
	Completed bool                `json:"completed"`
	Faults    []string            `json:"faults,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}
