package trace

import (
	"errors"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	ErrRecorderClosed = errors.New(f("recorder closed"))
)

// ErrTraceExists reports a recording file that would be overwritten.
type ErrTraceExists string

func (err ErrTraceExists) Error() string {
	return f("trace file %s already exists", string(err))
}
