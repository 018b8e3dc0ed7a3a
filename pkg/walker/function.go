package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/frame"
	"github.com/proteinlang/protein/pkg/node"
)

// handleFunction implements `.function { .name, .args: [name…], .do }`: the
// body is captured unwalked, alongside a snapshot of the environment
// visible right now (dynamic capture, per S5).
func (i *Interpreter) handleFunction(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".function requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".function requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	var params []string
	if argsNode, ok := m.Get(".args"); ok {
		if argsNode.Kind() != node.KindSequence {
			return node.Node{}, errors.Arg(line, ".function .args must be a sequence of parameter names")
		}
		for _, p := range argsNode.AsSequence() {
			if p.Kind() != node.KindString {
				return node.Node{}, errors.Type(line, ".function parameter names must be strings")
			}
			params = append(params, p.AsString())
		}
	}

	doNode, ok := m.Get(".do")
	if !ok {
		return node.Node{}, errors.Arg(line, ".function requires .do")
	}

	closure := &node.Closure{
		Name:     name,
		Params:   params,
		Body:     doNode,
		Captured: i.Stack.MergedSnapshot(),
	}
	i.Stack.SetTop(name, node.NewClosure(closure))
	return node.Null, nil
}

// handleCall implements `.call { .name, .args: [v…] | {name: v, …} }`: the
// body is evaluated against the closure's captured environment plus the
// bound parameters, on a stack of just the builtins frame and that call
// frame; every other live frame is hidden for the duration of the call.
func (i *Interpreter) handleCall(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".call requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".call requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	closureVal, ok := i.Stack.Resolve(name)
	if !ok || closureVal.Kind() != node.KindClosure {
		return node.Node{}, errors.Undefined(line, name)
	}
	closure := closureVal.AsClosure()

	var positional []node.Node
	var named *node.Mapping
	if argsNode, ok := m.Get(".args"); ok {
		positional, named, err = i.evalArgs(argsNode, line)
		if err != nil {
			return node.Node{}, err
		}
	}
	bound, err := bindClosureArgs(closure.Params, positional, named, line)
	if err != nil {
		return node.Node{}, err
	}

	builtins := i.Stack.Builtins()
	saved := i.Stack.SnapshotFrames()

	callFrame := closure.Captured.Clone()
	bound.Each(func(k string, v node.Node) bool {
		callFrame.Set(k, v)
		return true
	})
	i.Stack.RestoreFrames([]*frame.Frame{builtins, callFrame})

	result, walkErr := i.handleDo(closure.Body, line)
	i.Stack.RestoreFrames(saved)
	if walkErr != nil {
		return node.Node{}, walkErr
	}
	return result, nil
}
