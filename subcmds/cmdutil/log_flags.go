// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/visvasity/sglog"
)

type LogFlags struct {
	LogDir string
	Debug  bool
}

func (lf *LogFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&lf.LogDir, "log-dir", "", "when non-empty, log messages are written to files in this directory")
	fset.BoolVar(&lf.Debug, "debug", false, "when true, debug log messages are also written")
}

// Setup configures the default slog logger. Returned function must be called
// to flush the log files before exit.
func (lf *LogFlags) Setup() (func(), error) {
	if len(lf.LogDir) == 0 {
		if lf.Debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return func() {}, nil
	}

	if err := os.MkdirAll(lf.LogDir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	backend := sglog.NewBackend(&sglog.Options{
		LogDirs: []string{lf.LogDir},
	})
	if lf.Debug {
		backend.SetLevel(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(backend.Handler()))
	return backend.Close, nil
}
