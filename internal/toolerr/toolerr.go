// Package toolerr classifies the fatal failures of the repokit tools.
package toolerr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of a fatal error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig covers a missing or invalid config file, a missing required key,
	// or an unusable setting such as an unrecognized repo identifier.
	KindConfig
	// KindInput covers a required input file that is absent or unreadable.
	KindInput
	// KindNetwork covers transport failures, non-2xx statuses and malformed bodies.
	KindNetwork
	// KindOutput covers write failures.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindInput:
		return "input error"
	case KindNetwork:
		return "network error"
	case KindOutput:
		return "output error"
	default:
		return "error"
	}
}

// Error is a classified failure. Cause may be nil.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Configf returns a configuration error.
func Configf(format string, args ...any) error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

// Inputf returns an input error.
func Inputf(format string, args ...any) error {
	return &Error{Kind: KindInput, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf reports the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
