// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"errors"
	"os"
	"path/filepath"
)

// Process exit codes for the failures reported by the commands.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ProgramName is used in the usage messages.
var ProgramName = filepath.Base(os.Args[0])

var ErrMissingWallet = errors.New("missing wallet address")

// ExitError is returned by commands that already printed their diagnostics
// and only need the process to exit with Code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
