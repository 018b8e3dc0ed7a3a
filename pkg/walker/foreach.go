package walker

import (
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/tmpl"
)

// handleForeach implements `.foreach { .values: [name, iterable-expr], .do,
// .collect_mappings? }`.
func (i *Interpreter) handleForeach(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".foreach requires a mapping")
	}
	m := value.AsMapping()

	valuesNode, ok := m.Get(".values")
	if !ok || valuesNode.Kind() != node.KindSequence || len(valuesNode.AsSequence()) != 2 {
		return node.Node{}, errors.Arg(line, ".foreach requires .values: [name, iterable]")
	}
	pair := valuesNode.AsSequence()
	if pair[0].Kind() != node.KindString {
		return node.Node{}, errors.Type(line, ".foreach loop variable name must be a string")
	}
	name := pair[0].AsString()

	iterable, err := i.evalForeachIterable(pair[1], line)
	if err != nil {
		return node.Node{}, err
	}

	collectMappings := true
	if cmNode, ok := m.Get(".collect_mappings"); ok {
		walked, err := i.Walk(cmNode)
		if err != nil {
			return node.Node{}, err
		}
		collectMappings = walked.Truthy()
	}

	doNode, ok := m.Get(".do")
	if !ok {
		return node.Node{}, errors.Arg(line, ".foreach requires .do")
	}

	var elements []node.Node
	switch iterable.Kind() {
	case node.KindSequence:
		elements = iterable.AsSequence()
	case node.KindMapping:
		iterable.AsMapping().Each(func(k string, v node.Node) bool {
			elements = append(elements, node.NewSequence([]node.Node{node.NewString(k), v}))
			return true
		})
	default:
		return node.Node{}, errors.Type(line, ".foreach iterable must be a sequence or a mapping, got %s", iterable.Kind())
	}

	results := make([]node.Node, 0, len(elements))
	for _, elem := range elements {
		i.Stack.Push()
		i.Stack.SetTop(name, elem)
		r, err := i.handleDo(doNode, line)
		i.Stack.Pop()
		if err != nil {
			return node.Node{}, err
		}
		results = append(results, r)
	}
	return foreachCollapse(results, collectMappings, line)
}

// evalForeachIterable accepts either a bare identifier (treated as an
// implicit single-variable lookup) or a full template-expression string.
func (i *Interpreter) evalForeachIterable(n node.Node, line int) (node.Node, error) {
	if n.Kind() != node.KindString {
		return i.Walk(n)
	}
	if n.IsLiteral() {
		return node.NewString(n.AsString()), nil
	}
	text := n.AsString()
	if !strings.Contains(text, "{{") {
		text = "{{ " + text + " }}"
	}
	return tmpl.Eval(text, line, i.Stack)
}
