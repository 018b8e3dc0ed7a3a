package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/proteinlang/protein/pkg/emit"
	"github.com/proteinlang/protein/pkg/module"
	"github.com/proteinlang/protein/pkg/parser"
	"github.com/proteinlang/protein/pkg/walker"
)

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	output, _ := cmd.Flags().GetString("output")
	sets, _ := cmd.Flags().GetStringSlice("set")
	format, _ := cmd.Flags().GetString("format")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	root, err := parser.Parse(source, inputPath)
	if err != nil {
		return err
	}

	root, err = applyOverrides(root, sets)
	if err != nil {
		return err
	}

	interp := walker.New(ctx, module.DefaultRegistry(), filepath.Dir(inputPath), logger)
	rendered, err := interp.Render(root)
	if err != nil {
		return err
	}

	if format == "" {
		format = emit.InferFormat(output)
	}
	data, err := emit.Emit(rendered, format, emit.DefaultOptions(format))
	if err != nil {
		return err
	}

	if output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
