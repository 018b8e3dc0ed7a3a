package walker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proteinlang/protein/internal/testprotein"
)

func TestSwitchMatchesCase(t *testing.T) {
	out := testprotein.RenderString(t, `
.switch:
  .expr: "b"
  .cases:
    a: 1
    b: 2
  .default: 3
`)
	require.Equal(t, int64(2), out.AsInt())
}

func TestSwitchFallsBackToDefaultWhenUnmatched(t *testing.T) {
	out := testprotein.RenderString(t, `
.switch:
  .expr: "z"
  .cases:
    a: 1
    b: 2
  .default: 3
`)
	require.Equal(t, int64(3), out.AsInt())
}

func TestSwitchWithNoDefaultAndNoMatchIsNull(t *testing.T) {
	out := testprotein.RenderString(t, `
.switch:
  .expr: "z"
  .cases:
    a: 1
    b: 2
`)
	require.True(t, out.IsNull())
}

func TestSwitchRejectsNonScalarExpr(t *testing.T) {
	_, err := testprotein.RenderStringErr(`
.switch:
  .expr: [1, 2]
  .cases:
    a: 1
`)
	require.Error(t, err)
}
