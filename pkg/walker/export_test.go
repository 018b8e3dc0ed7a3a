package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/pkg/parser"
)

func TestExportWritesRenderedDoResultToFile(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.export:
  .filename: out.json
  .do:
    name: Alice
    age: 30
`), "t.protein")
	require.NoError(t, err)

	out, err := newInterpreterInDir(dir).Render(tree)
	require.NoError(t, err)
	require.True(t, out.IsNull())

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"name"`)
	require.Contains(t, string(data), `"Alice"`)
}

func TestExportInfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.export:
  .filename: out.toml
  .do:
    greeting: hi
`), "t.protein")
	require.NoError(t, err)

	_, err = newInterpreterInDir(dir).Render(tree)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), `greeting = 'hi'`)
}

func TestExportPrependsComment(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.export:
  .filename: out.yaml
  .comment: "generated"
  .do:
    a: 1
`), "t.protein")
	require.NoError(t, err)

	_, err = newInterpreterInDir(dir).Render(tree)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# generated")
}
