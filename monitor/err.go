package monitor

import (
	"errors"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

var (
	ErrComponentUnknown = errors.New(f("unknown component"))
	ErrChangeKind       = errors.New(f("unknown change kind"))
)

// ErrQuery reports an invalid query parameter.
type ErrQuery struct {
	Name  string
	Value string
}

func (err ErrQuery) Error() string {
	return f("invalid %s: %q", err.Name, err.Value)
}
