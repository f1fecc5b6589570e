package machine

import (
	"iter"
)

const (
	MEMORY_SIZE   = 2048 // Total memory cells.
	DATA_BASE     = 1024 // First cell of the data segment.
	PROGRAM_LIMIT = 1024 // Maximum program length, in words.
)

// Memory is the unified instruction and data store.
type Memory struct {
	cell [MEMORY_SIZE]int32
	journal
}

func inBounds(addr int64, low, high int64) bool {
	return addr >= low && addr < high
}

// Read returns the cell at addr.
func (mem *Memory) Read(addr int) (value int32, err error) {
	if !inBounds(int64(addr), 0, MEMORY_SIZE) {
		err = ErrAddress(addr)
		return
	}

	value = mem.cell[addr]
	return
}

// Write stores value at addr. An out of bounds store changes nothing.
func (mem *Memory) Write(addr int, value int32) (err error) {
	if !inBounds(int64(addr), 0, MEMORY_SIZE) {
		err = ErrAddress(addr)
		return
	}

	mem.record(CHANGE_MEMORY, addr, mem.cell[addr], value)
	mem.cell[addr] = value

	return
}

// Cells iterates over the addresses in [from, to) that lie inside memory.
func (mem *Memory) Cells(from, to int) iter.Seq2[int, int32] {
	return func(yield func(int, int32) bool) {
		from = max(from, 0)
		to = min(to, MEMORY_SIZE)
		for addr := from; addr < to; addr++ {
			if !yield(addr, mem.cell[addr]) {
				return
			}
		}
	}
}

// Reset zeros every cell.
func (mem *Memory) Reset() {
	clear(mem.cell[:])
	mem.journal = journal{}
}
