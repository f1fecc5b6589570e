package config

import (
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/translate"
)

var f = translate.From

// ErrConfigValue reports a setting that could not be used.
type ErrConfigValue struct {
	Name  string
	Value string
	Err   error
}

func (err ErrConfigValue) Error() string {
	if err.Err == nil {
		return f("%s: invalid value %q", err.Name, err.Value)
	}
	return f("%s: invalid value %q: %v", err.Name, err.Value, err.Err)
}

func (err ErrConfigValue) Unwrap() error {
	return err.Err
}

func (err ErrConfigValue) Is(target error) bool {
	_, ok := target.(ErrConfigValue)
	return ok
}
