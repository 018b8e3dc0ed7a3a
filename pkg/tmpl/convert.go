package tmpl

import (
	jinja "github.com/AlexanderGrooff/jinja-go"

	"github.com/proteinlang/protein/pkg/frame"
	"github.com/proteinlang/protein/pkg/node"
)

// buildContext flattens the live frame stack into the plain
// map[string]interface{} jinja-go's evaluator expects, converting every
// bound Node to a native Go value and wrapping every HostCallable as a
// jinja.FunctionFunc so it can be invoked from an expression.
func buildContext(stack *frame.Stack) map[string]interface{} {
	snap := stack.MergedSnapshot()
	ctx := make(map[string]interface{}, snap.Len())
	snap.Each(func(k string, v node.Node) bool {
		switch v.Kind() {
		case node.KindHostCallable:
			fn := v.AsHostCallable()
			ctx[k] = jinja.FunctionFunc(func(_ *jinja.Evaluator, args ...interface{}) (interface{}, error) {
				nodeArgs := make([]node.Node, len(args))
				for i, a := range args {
					n, err := goToNode(a)
					if err != nil {
						return nil, err
					}
					nodeArgs[i] = n
				}
				result, err := fn(nodeArgs)
				if err != nil {
					return nil, err
				}
				return nodeToGo(result), nil
			})
		case node.KindHostFilter, node.KindClosure, node.KindSQLEngine:
			// not representable in the expression context; filters are
			// looked up separately by name from the frame stack, and
			// closures/SQL engines are only ever invoked through their
			// dedicated constructs (.call, .exec_sql/.load_sql).
		default:
			ctx[k] = nodeToGo(v)
		}
		return true
	})
	return ctx
}

// nodeToGo converts a pure-data Node into the native Go representation
// jinja-go's evaluator operates on.
func nodeToGo(n node.Node) interface{} {
	return n.ToGo()
}

// goToNode converts a native Go value produced by jinja-go back into a
// Node. Tuples have no Go representation of their own; a module that wants
// to return a tuple (as in S6) represents it as a []interface{}, which
// becomes a Sequence, matching the scenario's expected output.
func goToNode(v interface{}) (node.Node, error) {
	return node.FromGo(v)
}
