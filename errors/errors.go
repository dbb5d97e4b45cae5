package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type divides failures by which part of a cycle they came from, so
// the process can exit with a status that says what went wrong:
//  - could we not reach the database at all?
//  - did we reach it, but fail to read its status?
//  - did we read and compare it, but fail to write the report?
type Type string

const (
	Connect Type = "connect"
	Fetch   Type = "fetch"
	Report  Type = "report"
	Usage   Type = "usage"
)

// Exit statuses; a usage error exits the way a flag parsing error does.
const (
	ExitOK      = 0
	ExitConnect = 1
	ExitFetch   = 2
	ExitReport  = 3
	ExitUsage   = 2
	ExitUnknown = 1
)

type Error struct {
	Type Type `json:"type"`
	// a message that can be printed out for the user
	Help string `json:"help"`
	// the underlying error that can be e.g., logged for developers to look at
	Err error `json:"-"`
}

func Wrap(t Type, err error, help string) *Error {
	return &Error{Type: t, Help: help, Err: err}
}

func Wrapf(t Type, err error, format string, args ...interface{}) *Error {
	return Wrap(t, err, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Help
	case e.Help == "":
		return e.Err.Error()
	}
	return e.Help + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RootCause follows the chain of wrapped errors to the innermost.
func (e *Error) RootCause() error {
	var err error = e
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func (e *Error) MarshalJSON() ([]byte, error) {
	var errMsg string
	if e.Err != nil {
		errMsg = e.Err.Error()
	}
	jsonable := &struct {
		Type Type   `json:"type"`
		Help string `json:"help"`
		Err  string `json:"error,omitempty"`
	}{
		Type: e.Type,
		Help: e.Help,
		Err:  errMsg,
	}
	return json.Marshal(jsonable)
}

// TypeOf finds the first categorised error in err's chain.
func TypeOf(err error) (Type, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

// ExitCode maps an error to the status the process should exit with.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	t, ok := TypeOf(err)
	if !ok {
		return ExitUnknown
	}
	switch t {
	case Connect:
		return ExitConnect
	case Fetch:
		return ExitFetch
	case Report:
		return ExitReport
	case Usage:
		return ExitUsage
	}
	return ExitUnknown
}
