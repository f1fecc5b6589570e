package pipeline

import (
	"fmt"
)

// Statistics are the engine's running counters.
type Statistics struct {
	Cycles           uint64 `json:"cycles"`
	Fetched          uint64 `json:"fetched"`
	Instructions     uint64 `json:"instructions"`      // Retired.
	Stalls           uint64 `json:"stalls"`            // Load-use decode stall cycles.
	StructuralStalls uint64 `json:"structural_stalls"` // Fetches skipped for the memory port.
	Flushes          uint64 `json:"flushes"`
	Squashed         uint64 `json:"squashed"` // Instructions discarded by flushes and redirects.
	Redirects        uint64 `json:"redirects"`
	Predictions      uint64 `json:"predictions"`
	Mispredictions   uint64 `json:"mispredictions"`
	Forwards         uint64 `json:"forwards"`
	Faults           uint64 `json:"faults"`
}

// CPI returns cycles per retired instruction, or 0 before any retire.
func (st *Statistics) CPI() float64 {
	if st.Instructions == 0 {
		return 0
	}
	return float64(st.Cycles) / float64(st.Instructions)
}

// Accuracy returns the fraction of correctly predicted branches, or 0
// before any branch resolved.
func (st *Statistics) Accuracy() float64 {
	if st.Predictions == 0 {
		return 0
	}
	return float64(st.Predictions-st.Mispredictions) / float64(st.Predictions)
}

func (st *Statistics) String() string {
	return fmt.Sprintf("cycles=%d retired=%d cpi=%.2f stalls=%d structural=%d flushes=%d squashed=%d redirects=%d branches=%d mispredicted=%d accuracy=%.2f forwards=%d faults=%d",
		st.Cycles, st.Instructions, st.CPI(), st.Stalls, st.StructuralStalls,
		st.Flushes, st.Squashed, st.Redirects, st.Predictions, st.Mispredictions,
		st.Accuracy(), st.Forwards, st.Faults)
}
