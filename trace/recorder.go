package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	// Pure Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
)

// DEFAULT_BATCH_SIZE is the number of buffered rows that forces a flush.
const DEFAULT_BATCH_SIZE = 10_000

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cycles (
		run_id TEXT, cycle INTEGER, pc INTEGER,
		fetch TEXT, decode TEXT, execute TEXT, memory TEXT, writeback TEXT)`,
	`CREATE TABLE IF NOT EXISTS changes (
		run_id TEXT, cycle INTEGER, kind TEXT, idx INTEGER, old INTEGER, new INTEGER)`,
	`CREATE TABLE IF NOT EXISTS events (
		run_id TEXT, cycle INTEGER, event TEXT, stage TEXT, pc INTEGER, seq INTEGER,
		instruction TEXT, error TEXT)`,
}

const (
	insertCycle  = `INSERT INTO cycles VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertChange = `INSERT INTO changes VALUES (?, ?, ?, ?, ?, ?)`
	insertEvent  = `INSERT INTO events VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

type cycleRow struct {
	cycle  uint64
	pc     uint32
	stages [pipeline.STAGE_COUNT]string
}

type changeRow struct {
	cycle uint64
	kind  string
	index int
	old   int32
	new   int32
}

type eventRow struct {
	cycle       uint64
	event       string
	stage       string
	pc          uint32
	seq         uint64
	instruction string
	err         string
}

// Recorder is a hook that records every cycle, state change and pipeline
// event of a run into a SQLite database.
type Recorder struct {
	Verbose   bool   // If set, logs every flush.
	RunID     string // Identifies the run's rows.
	BatchSize int    // Buffered rows that force a flush.

	path string
	db   *sql.DB

	cycles  []cycleRow
	changes []changeRow
	events  []eventRow
	rows    int
	err     error
}

// NewRecorder creates the database at path, or at a unique name in the
// current directory if path is empty. An existing file is not overwritten.
// Buffered rows are flushed at atexit.Exit.
func NewRecorder(path string) (rec *Recorder, err error) {
	runID := xid.New().String()
	if path == "" {
		path = "pipesim_trace_" + runID + ".sqlite3"
	}

	_, err = os.Stat(path)
	if err == nil {
		err = ErrTraceExists(path)
		return
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return
	}

	for _, stmt := range schema {
		_, err = db.Exec(stmt)
		if err != nil {
			db.Close()
			return
		}
	}

	rec = &Recorder{
		RunID:     runID,
		BatchSize: DEFAULT_BATCH_SIZE,
		path:      path,
		db:        db,
	}

	atexit.Register(func() {
		if rec.db == nil {
			return
		}
		if err := rec.Flush(); err != nil {
			log.Printf("trace: %v", err)
		}
	})

	return
}

// Path returns the database file name.
func (rec *Recorder) Path() string {
	return rec.path
}

// Err returns the first error raised by a flush forced from within a hook.
func (rec *Recorder) Err() error {
	return rec.err
}

// Func implements pipeline.Hook.
func (rec *Recorder) Func(ctx pipeline.HookCtx) {
	if rec.db == nil {
		return
	}

	switch ctx.Pos {
	case pipeline.HOOK_CYCLE_END:
		rec.recordCycle(ctx)
	default:
		row := eventRow{
			cycle: ctx.Cycle,
			event: ctx.Pos.Name,
			stage: ctx.Stage.String(),
		}
		if ctx.Slot != nil {
			row.pc = ctx.Slot.Pc
			row.seq = ctx.Slot.Seq
			row.instruction = ctx.Slot.String()
		}
		if ctx.Err != nil {
			row.err = ctx.Err.Error()
		}
		rec.events = append(rec.events, row)
		rec.rows++
	}

	if rec.rows >= max(1, rec.BatchSize) {
		err := rec.Flush()
		if err != nil && rec.err == nil {
			rec.err = err
		}
	}
}

func (rec *Recorder) recordCycle(ctx pipeline.HookCtx) {
	e := ctx.Engine
	slots := e.Slots()

	row := cycleRow{cycle: ctx.Cycle, pc: e.State().Pc}
	for _, stage := range pipeline.Stages() {
		row.stages[stage] = slots[stage].String()
	}
	rec.cycles = append(rec.cycles, row)
	rec.rows++

	for change := range e.State().Changes() {
		rec.changes = append(rec.changes, changeRow{
			cycle: ctx.Cycle,
			kind:  change.Kind.String(),
			index: change.Index,
			old:   change.Old,
			new:   change.New,
		})
		rec.rows++
	}
}

// Flush writes the buffered rows in a single transaction.
func (rec *Recorder) Flush() (err error) {
	if rec.db == nil {
		err = ErrRecorderClosed
		return
	}

	if rec.rows == 0 {
		return
	}

	tx, err := rec.db.Begin()
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	err = rec.insert(tx, insertCycle, len(rec.cycles), func(n int) []any {
		row := &rec.cycles[n]
		return []any{rec.RunID, row.cycle, row.pc,
			row.stages[pipeline.STAGE_FETCH], row.stages[pipeline.STAGE_DECODE],
			row.stages[pipeline.STAGE_EXECUTE], row.stages[pipeline.STAGE_MEMORY],
			row.stages[pipeline.STAGE_WRITEBACK]}
	})
	if err != nil {
		return
	}

	err = rec.insert(tx, insertChange, len(rec.changes), func(n int) []any {
		row := &rec.changes[n]
		return []any{rec.RunID, row.cycle, row.kind, row.index, row.old, row.new}
	})
	if err != nil {
		return
	}

	err = rec.insert(tx, insertEvent, len(rec.events), func(n int) []any {
		row := &rec.events[n]
		return []any{rec.RunID, row.cycle, row.event, row.stage, row.pc, row.seq, row.instruction, row.err}
	})
	if err != nil {
		return
	}

	if rec.Verbose {
		log.Printf("trace: flushed %d rows to %s", rec.rows, rec.path)
	}

	rec.cycles = rec.cycles[:0]
	rec.changes = rec.changes[:0]
	rec.events = rec.events[:0]
	rec.rows = 0

	return
}

func (rec *Recorder) insert(tx *sql.Tx, query string, count int, args func(n int) []any) (err error) {
	if count == 0 {
		return
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return
	}
	defer stmt.Close()

	for n := range count {
		_, err = stmt.Exec(args(n)...)
		if err != nil {
			err = fmt.Errorf("%s: %w", rec.path, err)
			return
		}
	}

	return
}

// Close flushes the buffered rows and closes the database.
func (rec *Recorder) Close() (err error) {
	if rec.db == nil {
		return
	}

	err = rec.Flush()
	err = errors.Join(err, rec.db.Close())
	rec.db = nil

	return
}
