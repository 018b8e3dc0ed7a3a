package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/frame"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/tmpl"
)

// evalName resolves a `.name`-shaped field (function name, closure name,
// buffer name, SQL engine handle name, filename, …) to a plain string,
// rendering any template text it carries. Mirrors mapping-key evaluation:
// the result is always a string regardless of what the expression itself
// produces.
func evalName(n node.Node, line int, stack *frame.Stack) (string, error) {
	if n.Kind() != node.KindString {
		return "", errors.Type(line, "expected a string, got %s", n.Kind())
	}
	if n.IsLiteral() {
		return n.AsString(), nil
	}
	return tmpl.EvalAsString(n.AsString(), line, stack)
}
