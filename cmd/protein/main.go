// Package main is the entry point for the protein CLI: render a Protein
// YAML-tree macro document to a data tree and emit it in one of the
// supported formats. Grounded on cmd/gcw-emulator/main.go's cobra wiring
// (flags, env-backed defaults, RunE), repurposed from a long-running
// server's flag set to a single render-and-emit command's.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/proteinlang/protein/pkg/errors"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "protein <input>",
	Short:         "Render a Protein YAML-tree macro document",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("protein version {{.Version}}\n")

	rootCmd.Flags().StringP("output", "o", "-", "output file, or - for stdout")
	rootCmd.Flags().StringSlice("set", nil, `override a ".define" binding, name=value (value is YAML-parsed, so compound values like '[a, b]' work)`)
	rootCmd.Flags().String("format", "", "output format: yaml|json|toml|python (default: inferred from -o's extension, falling back to yaml)")
}

func main() {
	err := rootCmd.Execute()
	code := exitCode(err)
	if err != nil && code != 0 {
		logErrorToStderr(err)
	}
	os.Exit(code)
}

// exitCode maps an error from run to the exit code §6 specifies: 0 on
// success, an `.exit` construct's own code propagated as-is, 2 for a
// tagged Protein error (a preprocessing error with a known location), and
// 1 for anything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ex, ok := errors.AsExit(err); ok {
		return ex.Code
	}
	if _, ok := errors.AsProteinError(err); ok {
		return 2
	}
	return 1
}
