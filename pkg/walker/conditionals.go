package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// handleIf implements `.if { .cond, .then, .else? }`.
func (i *Interpreter) handleIf(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".if requires a mapping with .cond and .then")
	}
	m := value.AsMapping()
	condNode, ok := m.Get(".cond")
	if !ok {
		return node.Node{}, errors.Arg(line, ".if requires .cond")
	}
	cond, err := i.Walk(condNode)
	if err != nil {
		return node.Node{}, err
	}
	if cond.Truthy() {
		thenNode, ok := m.Get(".then")
		if !ok {
			return node.Node{}, errors.Arg(line, ".if requires .then")
		}
		return i.Walk(thenNode)
	}
	if elseNode, ok := m.Get(".else"); ok {
		return i.Walk(elseNode)
	}
	return node.Null, nil
}

// handleSwitch implements `.switch { .expr, .cases: {key: node, …}, .default? }`.
func (i *Interpreter) handleSwitch(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".switch requires a mapping with .expr and .cases")
	}
	m := value.AsMapping()
	exprNode, ok := m.Get(".expr")
	if !ok {
		return node.Node{}, errors.Arg(line, ".switch requires .expr")
	}
	casesNode, ok := m.Get(".cases")
	if !ok || casesNode.Kind() != node.KindMapping {
		return node.Node{}, errors.Arg(line, ".switch requires a .cases mapping")
	}

	evaluated, err := i.Walk(exprNode)
	if err != nil {
		return node.Node{}, err
	}
	key, err := nodeToSwitchKey(evaluated, line)
	if err != nil {
		return node.Node{}, err
	}

	if branch, ok := casesNode.AsMapping().Get(key); ok {
		return i.Walk(branch)
	}
	if def, ok := m.Get(".default"); ok {
		return i.Walk(def)
	}
	return node.Null, nil
}

// nodeToSwitchKey renders the evaluated `.expr` as the plain string used to
// look it up in `.cases`, per "evaluate `.expr` to a string".
func nodeToSwitchKey(n node.Node, line int) (string, error) {
	switch n.Kind() {
	case node.KindString:
		return n.AsString(), nil
	case node.KindInt, node.KindFloat, node.KindBool, node.KindNull:
		return n.String(), nil
	default:
		return "", errors.Type(line, ".switch .expr must evaluate to a scalar, got %s", n.Kind())
	}
}
