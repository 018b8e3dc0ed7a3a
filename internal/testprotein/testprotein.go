// Package testprotein is the shared test helper package used across
// pkg/walker's tests, analogous to the teacher's runWorkflow/
// runWorkflowExpectError helpers in pkg/runtime/engine_test.go: drive a
// full render from source text in one call instead of repeating
// parser+interpreter wiring in every test.
package testprotein

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/pkg/module"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/parser"
	"github.com/proteinlang/protein/pkg/walker"
)

// RenderString parses and renders source, failing the test on any error.
// sets are applied as `.define`-equivalent overrides on the top-level
// frame before rendering, in `name=value` form; each value is bound as a
// plain string (unlike `--set`, which YAML-parses it).
func RenderString(t *testing.T, source string, sets ...string) node.Node {
	t.Helper()
	n, err := RenderStringErr(source, sets...)
	require.NoError(t, err)
	return n
}

// RenderStringErr is RenderString without the require.NoError assertion,
// for tests that want to inspect the error themselves.
func RenderStringErr(source string, sets ...string) (node.Node, error) {
	return RenderStringWithModules(source, nil, sets...)
}

// RenderStringWithModules is RenderStringErr with extra modules added
// alongside the built-in `text`/`servers` reference modules, for tests
// that need a collaborator beyond those two.
func RenderStringWithModules(source string, mods []module.Module, sets ...string) (node.Node, error) {
	tree, err := parser.Parse([]byte(source), "test.protein")
	if err != nil {
		return node.Node{}, err
	}

	registry := module.DefaultRegistry()
	for _, m := range mods {
		registry.Add(m)
	}

	interp := walker.New(context.Background(), registry, ".", slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, set := range sets {
		name, value := splitSet(set)
		interp.Stack.SetTop(name, node.NewString(value))
	}
	return interp.Render(tree)
}

func splitSet(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
