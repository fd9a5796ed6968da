package main

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/als-project/als/alserr"
)

// openInput opens path for reading, or returns stdin when path is empty.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, alserr.Wrap(alserr.KindIO, err, "opening input file %s", path)
	}
	return f, nil
}

// openOutput opens path for writing, truncating it, or returns stdout when
// path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, alserr.Wrap(alserr.KindIO, err, "creating output file %s", path)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newLogger builds the CLI's logger from the --verbose/--quiet flags:
// verbose gets debug-level console output, quiet suppresses everything but
// errors, and the default is info-level. All three write to stderr so
// stdout stays reserved for pipeable command output.
func newLogger(verbose, quiet bool) *zap.Logger {
	if quiet && verbose {
		quiet = false
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	switch {
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// exitCodeFor maps an error to the CLI's exit code convention: 0 success
// (never reached here, only errors flow through this function), 1 for
// user-facing input/semantic problems, 2 for I/O failures.
func exitCodeFor(err error) int {
	var alsErr *alserr.Error
	if errors.As(err, &alsErr) && alsErr.Kind == alserr.KindIO {
		return 2
	}
	return 1
}
