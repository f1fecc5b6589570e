package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
)

// Printer is a hook that writes the occupant of every stage, and the state
// changes committed, at the end of each cycle.
type Printer struct {
	Writer io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{Writer: w}
}

// Func implements pipeline.Hook.
func (p *Printer) Func(ctx pipeline.HookCtx) {
	switch ctx.Pos {
	case pipeline.HOOK_FAULT:
		fmt.Fprintf(p.Writer, "[%5d] %v: fault: %v\n", ctx.Cycle, ctx.Stage, ctx.Err)
	case pipeline.HOOK_CYCLE_END:
		p.cycle(ctx)
	}
}

func (p *Printer) cycle(ctx pipeline.HookCtx) {
	e := ctx.Engine
	slots := e.Slots()

	columns := make([]string, 0, pipeline.STAGE_COUNT)
	for _, stage := range pipeline.Stages() {
		columns = append(columns, fmt.Sprintf("%v: %-16v", stage, &slots[stage]))
	}

	fmt.Fprintf(p.Writer, "[%5d] pc=%-4d %s\n", ctx.Cycle, e.State().Pc, strings.Join(columns, " | "))

	for change := range e.State().Changes() {
		fmt.Fprintf(p.Writer, "%20s%v\n", "", change)
	}
}
