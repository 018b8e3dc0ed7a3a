package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/pkg/parser"
)

func TestBufferOpenWriteSaveSequence(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.do:
  - .open_buffer:
      .name: buf
      .language: go
  - .write_buffer:
      .name: buf
      .text: "package main"
  - .write_buffer:
      .name: buf
      .text: "func main() {}"
      .indent: 1
  - .save_buffer:
      .name: buf
      .filename: out.go
`), "t.protein")
	require.NoError(t, err)

	_, err = newInterpreterInDir(dir).Render(tree)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.go"))
	require.NoError(t, err)
	require.Contains(t, string(data), "package main")
	require.Contains(t, string(data), "    func main() {}")
}

func TestBufferSaveRemovesBufferFromRegistry(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.do:
  - .open_buffer: {.name: buf}
  - .save_buffer: {.name: buf, .filename: first.txt}
  - .save_buffer: {.name: buf, .filename: second.txt}
`), "t.protein")
	require.NoError(t, err)

	_, err = newInterpreterInDir(dir).Render(tree)
	require.Error(t, err)
}

func TestWriteShortcutWritesFileDirectly(t *testing.T) {
	dir := t.TempDir()
	tree, err := parser.Parse([]byte(`
.write:
  .filename: direct.txt
  .text: "hello"
`), "t.protein")
	require.NoError(t, err)

	_, err = newInterpreterInDir(dir).Render(tree)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "direct.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}
