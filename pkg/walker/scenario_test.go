package walker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/internal/testprotein"
	"github.com/proteinlang/protein/pkg/node"
)

// TestScenario_S1Interpolation covers §8 S1: a `.define` binding is visible
// to a later interpolation in the same mapping.
func TestScenario_S1Interpolation(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  name: Alice
message: "Hello, {{ name }}!"
`)

	require.Equal(t, node.KindMapping, out.Kind())
	msg, ok := out.AsMapping().Get("message")
	require.True(t, ok)
	require.Equal(t, "Hello, Alice!", msg.AsString())
}

// TestScenario_S2CollapseOfEmptyForeach covers §8 S2: a foreach over an
// empty iterable never collapses below a sequence, even though the general
// Collapse Rule would reduce an empty sequence to null.
func TestScenario_S2CollapseOfEmptyForeach(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  xs: []
items:
  .foreach:
    .values: [x, "{{ xs }}"]
    .do:
      - "{{ x }}"
`)

	items, ok := out.AsMapping().Get("items")
	require.True(t, ok)
	require.Equal(t, node.KindSequence, items.Kind())
	require.Empty(t, items.AsSequence())
}

// TestScenario_S3MappingMergeViaForeach covers §8 S3: collect_mappings
// defaults to true, merging every iteration's single-key mapping result
// into one mapping.
func TestScenario_S3MappingMergeViaForeach(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  users:
    - {id: 1, name: joe}
    - {id: 2, name: jill}
result:
  .foreach:
    .values: [u, "{{ users }}"]
    .do:
      "{{ u.name }}":
        id: "{{ u.id }}"
`)

	result, ok := out.AsMapping().Get("result")
	require.True(t, ok)
	require.Equal(t, node.KindMapping, result.Kind())

	joe, ok := result.AsMapping().Get("joe")
	require.True(t, ok)
	id, ok := joe.AsMapping().Get("id")
	require.True(t, ok)
	require.Equal(t, int64(1), id.AsInt())

	jill, ok := result.AsMapping().Get("jill")
	require.True(t, ok)
	id, ok = jill.AsMapping().Get("id")
	require.True(t, ok)
	require.Equal(t, int64(2), id.AsInt())
}

// TestScenario_S4CollectMappingsFalse covers §8 S4: the same foreach as S3,
// but with collect_mappings explicitly disabled, stays a sequence of
// single-key mappings.
func TestScenario_S4CollectMappingsFalse(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  users:
    - {id: 1, name: joe}
    - {id: 2, name: jill}
result:
  .foreach:
    .values: [u, "{{ users }}"]
    .collect_mappings: false
    .do:
      "{{ u.name }}":
        id: "{{ u.id }}"
`)

	result, ok := out.AsMapping().Get("result")
	require.True(t, ok)
	require.Equal(t, node.KindSequence, result.Kind())
	items := result.AsSequence()
	require.Len(t, items, 2)

	joeWrap := items[0].AsMapping()
	joe, ok := joeWrap.Get("joe")
	require.True(t, ok)
	id, ok := joe.AsMapping().Get("id")
	require.True(t, ok)
	require.Equal(t, int64(1), id.AsInt())
}

// TestScenario_S5DynamicClosureCapture covers §8 S5: a `.call` made after a
// later `.define` that rebinds a name used inside the function body still
// sees the name as it was at `.function` definition time.
func TestScenario_S5DynamicClosureCapture(t *testing.T) {
	out := testprotein.RenderString(t, `
.define:
  x: 1
fn:
  .function:
    .name: f
    .args: []
    .do: "{{ x }}"
rebind:
  .define:
    x: 2
result:
  .call:
    .name: f
    .args: []
`)

	result, ok := out.AsMapping().Get("result")
	require.True(t, ok)
	require.Equal(t, int64(1), result.AsInt())
}

// TestScenario_S6ExpressionReturningAList covers §8 S6: a module export
// returning a typed composite value (a list of tuples) is spliced in
// directly, not re-stringified, because a leaf that is exactly one
// `{{ expr }}` span takes §4.3's typed value path.
func TestScenario_S6ExpressionReturningAList(t *testing.T) {
	out := testprotein.RenderString(t, `
.import_module: servers
live: "{{ servers('live') }}"
`)

	live, ok := out.AsMapping().Get("live")
	require.True(t, ok)
	require.Equal(t, node.KindSequence, live.Kind())

	items := live.AsSequence()
	require.Len(t, items, 2)
	require.Equal(t, "apollo", items[0].AsSequence()[0].AsString())
	require.Equal(t, "192.168.1.10", items[0].AsSequence()[1].AsString())
	require.Equal(t, "athena", items[1].AsSequence()[0].AsString())
	require.Equal(t, "192.168.1.40", items[1].AsSequence()[1].AsString())
}

// TestScenario_S7LiteralPrefixSurvivesTemplating covers §8 S7: the
// `#!literal` sentinel short-circuits the expression evaluator entirely,
// so braces inside the literal text are never evaluated.
func TestScenario_S7LiteralPrefixSurvivesTemplating(t *testing.T) {
	out := testprotein.RenderString(t, `
x: "#!literal {{ not a template }}"
`)

	x, ok := out.AsMapping().Get("x")
	require.True(t, ok)
	require.Equal(t, "{{ not a template }}", x.AsString())
}

// TestScenario_S8FilterPipe covers §8 S8: a module-exported filter is
// applied through the `|` pipe syntax inside an expression.
func TestScenario_S8FilterPipe(t *testing.T) {
	out := testprotein.RenderString(t, `
.import_module: text
.define:
  name: alice
greeting: "{{ name | upper }}"
`)

	greeting, ok := out.AsMapping().Get("greeting")
	require.True(t, ok)
	require.Equal(t, "ALICE", greeting.AsString())
}

// TestScenario_S9SQLRoundTrip covers §8 S9: opening an in-memory SQLite
// engine, writing a row, and reading it back through `.load_sql`.
func TestScenario_S9SQLRoundTrip(t *testing.T) {
	out := testprotein.RenderString(t, `
.def_sql:
  .name: db
  .url: "sqlite::memory:"
create:
  .exec_sql:
    .name: db
    .statement: "create table t(x int)"
insert:
  .exec_sql:
    .name: db
    .statement: "insert into t values (1)"
rows:
  .load_sql:
    .name: db
    .query: "select x from t"
`)

	rows, ok := out.AsMapping().Get("rows")
	require.True(t, ok)
	require.Equal(t, node.KindSequence, rows.Kind())
	items := rows.AsSequence()
	require.Len(t, items, 1)
	x, ok := items[0].AsMapping().Get("x")
	require.True(t, ok)
	require.Equal(t, int64(1), x.AsInt())
}
