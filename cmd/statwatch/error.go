package main

import (
	swerrors "github.com/fluxcd/statwatch/errors"
)

func newUsageError(msg string) error {
	return swerrors.Wrap(swerrors.Usage, nil, msg)
}

func isUsageError(err error) bool {
	t, ok := swerrors.TypeOf(err)
	return ok && t == swerrors.Usage
}

var errorTooManyArgs = newUsageError("too many arguments")
var errorInvalidOutputFormat = newUsageError("invalid output format specified")
