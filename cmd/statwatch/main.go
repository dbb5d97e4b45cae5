package main

import (
	"fmt"
	"os"

	swerrors "github.com/fluxcd/statwatch/errors"
)

func main() {
	rootCmd := newRoot().Command()
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		if isUsageError(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			printUsage(cmd, os.Stderr)
		}
		os.Exit(swerrors.ExitCode(err))
	}
}
