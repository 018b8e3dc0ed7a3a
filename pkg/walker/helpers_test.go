package walker_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/module"
	"github.com/proteinlang/protein/pkg/walker"
)

func newInterpreter() *walker.Interpreter {
	return walker.New(context.Background(), module.NewRegistry(), ".", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newInterpreterInDir is newInterpreter with a caller-chosen SourceDir, for
// tests that exercise .load/.export/.save_buffer/.write against real files
// instead of the package directory newInterpreter defaults to.
func newInterpreterInDir(dir string) *walker.Interpreter {
	return walker.New(context.Background(), module.DefaultRegistry(), dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newInterpreterWithLogger is newInterpreter with a caller-supplied logger,
// for tests that need to inspect what .print wrote.
func newInterpreterWithLogger(logger *slog.Logger) *walker.Interpreter {
	return walker.New(context.Background(), module.DefaultRegistry(), ".", logger)
}

func errorsAsProteinError(err error) (*errors.ProteinError, bool) {
	return errors.AsProteinError(err)
}
