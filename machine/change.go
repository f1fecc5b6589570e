package machine

import (
	"fmt"
)

// ChangeKind selects the storage a Change applies to.
type ChangeKind int

//go:generate go tool stringer -linecomment -type=ChangeKind
const (
	CHANGE_REGISTER = ChangeKind(iota) // register
	CHANGE_MEMORY                      // memory
)

// Change is a committed write that altered a value.
type Change struct {
	Kind  ChangeKind
	Index int
	Old   int32
	New   int32
}

func (ch Change) String() string {
	switch ch.Kind {
	case CHANGE_REGISTER:
		return fmt.Sprintf("R%d: %d -> %d", ch.Index, ch.Old, ch.New)
	default:
		return fmt.Sprintf("mem[%d]: %d -> %d", ch.Index, ch.Old, ch.New)
	}
}

// journal records changes and counts the bits they flip.
type journal struct {
	changes []Change
	toggles int
}

func (jn *journal) record(kind ChangeKind, index int, old, value int32) {
	if old == value {
		return
	}
	jn.changes = append(jn.changes, Change{Kind: kind, Index: index, Old: old, New: value})
	jn.toggles += onesCount(old ^ value)
}

func (jn *journal) truncate() {
	jn.changes = jn.changes[:0]
}
