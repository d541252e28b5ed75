package app

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the process exit code.
type Kind int

const (
	KindSetup    Kind = 1
	KindInput    Kind = 2
	KindRuntime  Kind = 3
	KindPlatform Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindInput:
		return "input"
	case KindRuntime:
		return "runtime"
	case KindPlatform:
		return "platform"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error tags err with the failure kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// ExitCode maps err to the process exit code: 0 for nil, the Kind for an
// *Error, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ae *Error
	if errors.As(err, &ae) {
		return int(ae.Kind)
	}
	return int(KindSetup)
}
