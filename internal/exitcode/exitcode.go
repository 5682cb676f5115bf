package exitcode

import (
	"context"
	"errors"
	"os"
)

const (
	Success = 0

	// At least one input had a syntax error or couldn't be transformed
	TransformFailed = 1

	// A flag or the config file is invalid
	Usage = 2

	// An input couldn't be read or an output couldn't be written
	IO = 3

	// The run was stopped by an interrupt
	Interrupted = 130
)

// Coder is an interface to control what value Get returns.
type Coder interface {
	error
	ExitCode() int
}

// Get gets the exit code associated with an error. Cases:
//
//	nil => Success
//	errors implementing Coder => value returned by ExitCode
//	context.Canceled => Interrupted
//	all other errors => TransformFailed
func Get(err error) int {
	if err == nil {
		return Success
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	return TransformFailed
}

// Set wraps an error in a Coder, setting its exit code.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

var _ Coder = coder{}

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}

// Exit calls os.Exit with the exit code associated with err.
func Exit(err error) {
	os.Exit(Get(err))
}
