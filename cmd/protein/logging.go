package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
)

// newLogger builds the single ambient slog.Logger threaded into the
// interpreter, configured from PROTEIN_LOG_LEVEL/PROTEIN_LOG_FORMAT per
// §10.1/§10.3's env-then-default configuration layer. `.print` writes
// through it at Info level, always to stderr, so stdout stays reserved for
// `-o -` piped output.
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("PROTEIN_LOG_LEVEL"))}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("PROTEIN_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logErrorToStderr formats a run error for a human, mirroring §10.2's
// "cmd/protein is the only place that formats an error" contract: a
// tagged Protein error prints its tag, message, file and line; anything
// else prints as-is.
func logErrorToStderr(err error) {
	if pe, ok := errors.AsProteinError(err); ok {
		loc := ""
		if pe.Line > 0 {
			loc = fmt.Sprintf(" at %s:%d", fileOrStdin(pe.File), pe.Line)
		}
		fmt.Fprintf(os.Stderr, "protein: %s: %s%s\n", pe.Tag, pe.Message, loc)
		return
	}
	fmt.Fprintf(os.Stderr, "protein: %v\n", err)
}

func fileOrStdin(file string) string {
	if file == "" {
		return "<input>"
	}
	return file
}
