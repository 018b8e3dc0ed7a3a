package walker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/internal/testprotein"
	"github.com/proteinlang/protein/pkg/emit"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/parser"
)

// TestInvariant_NoDottedKeysInOutput covers §8 invariant 1: every
// construct consumes its own dotted key, leaving none in the emitted
// tree.
func TestInvariant_NoDottedKeysInOutput(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  x: 1
plain: "{{ x }}"
nested:
  .if:
    .cond: true
    .then:
      y: 2
`)
	assertNoDottedKeys(t, out)
}

func assertNoDottedKeys(t *testing.T, n node.Node) {
	t.Helper()
	switch n.Kind() {
	case node.KindMapping:
		n.AsMapping().Each(func(k string, v node.Node) bool {
			require.NotEqual(t, byte('.'), k[0], "dotted key %q leaked into output", k)
			assertNoDottedKeys(t, v)
			return true
		})
	case node.KindSequence:
		for _, item := range n.AsSequence() {
			assertNoDottedKeys(t, item)
		}
	}
}

// TestInvariant_DuplicateKeysRejected covers §8 invariant 2: two sibling
// keys evaluating to the same name are rejected rather than silently
// overwriting one another.
func TestInvariant_DuplicateKeysRejected(t *testing.T) {
	_, err := testprotein.RenderStringErr(`
.define:
  a: x
  b: x
result:
  "{{ a }}": 1
  "{{ b }}": 2
`)
	require.Error(t, err)
	pe, ok := errorsAsProteinError(err)
	require.True(t, ok)
	require.Equal(t, "ERR_DUP_KEY", string(pe.Tag))
}

// TestInvariant_FrameHeightRestored covers §8 invariant 3: rendering
// leaves the frame stack at the height it started at, even across nested
// `.local`/`.function`/`.call`/`.foreach` scopes.
func TestInvariant_FrameHeightRestored(t *testing.T) {
	tree, err := parser.Parse([]byte(`
.local:
  a: 1
fn:
  .function:
    .name: f
    .args: [n]
    .do: "{{ n }}"
values:
  .foreach:
    .values: [x, "[1, 2, 3]"]
    .do:
      - .call:
          .name: f
          .args: ["{{ x }}"]
`), "test.protein")
	require.NoError(t, err)

	interp := newInterpreter()
	before := interp.Stack.Height()
	_, err = interp.Render(tree)
	require.NoError(t, err)
	require.Equal(t, before, interp.Stack.Height())
}

// TestInvariant_CollapseLaw covers §8 invariant 5: the three collapse
// cases for a `.do` sequence body.
func TestInvariant_CollapseLaw(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := testprotein.RenderString(t, `
result:
  .do: []
`)
		result, ok := out.AsMapping().Get("result")
		require.True(t, ok)
		require.True(t, result.IsNull())
	})

	t.Run("singleton", func(t *testing.T) {
		out := testprotein.RenderString(t, `
result:
  .do:
    - 42
`)
		result, ok := out.AsMapping().Get("result")
		require.True(t, ok)
		require.Equal(t, int64(42), result.AsInt())
	})

	t.Run("all single-key mappings merge", func(t *testing.T) {
		out := testprotein.RenderString(t, `
result:
  .do:
    - {a: 1}
    - {b: 2}
`)
		result, ok := out.AsMapping().Get("result")
		require.True(t, ok)
		require.Equal(t, node.KindMapping, result.Kind())
		a, ok := result.AsMapping().Get("a")
		require.True(t, ok)
		require.Equal(t, int64(1), a.AsInt())
		b, ok := result.AsMapping().Get("b")
		require.True(t, ok)
		require.Equal(t, int64(2), b.AsInt())
	})
}

// TestInvariant_YAMLRoundTrip covers §8 invariant 7: re-parsing the YAML
// emission of a rendered tree reproduces the same data tree.
func TestInvariant_YAMLRoundTrip(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  name: Alice
greeting: "Hello, {{ name }}!"
numbers: [1, 2, 3]
nested:
  a: 1
  b: [true, false, null]
`)

	data, err := emit.EmitYAML(out, emit.DefaultOptions("yaml"))
	require.NoError(t, err)

	reparsed, err := parser.Parse(data, "roundtrip.yaml")
	require.NoError(t, err)

	require.True(t, out.Equal(reparsed), "round-tripped tree differs from rendered tree")
}
