package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// evalArgs walks an `.args` value into a bound, already-evaluated argument
// set: a Sequence yields positional args, a Mapping yields named args, Null
// (no `.args` given) yields neither. Mixing positional and named arguments
// cannot occur, since a node is one Kind or the other; bindClosureArgs then
// checks the bound set against a declared parameter list.
func (i *Interpreter) evalArgs(argsValue node.Node, line int) (positional []node.Node, named *node.Mapping, err error) {
	switch argsValue.Kind() {
	case node.KindNull:
		return nil, nil, nil
	case node.KindSequence:
		items := argsValue.AsSequence()
		out := make([]node.Node, len(items))
		for idx, item := range items {
			walked, err := i.Walk(item)
			if err != nil {
				return nil, nil, err
			}
			out[idx] = walked
		}
		return out, nil, nil
	case node.KindMapping:
		out := node.NewMapping()
		var walkErr error
		argsValue.AsMapping().Each(func(k string, v node.Node) bool {
			walked, err := i.Walk(v)
			if err != nil {
				walkErr = err
				return false
			}
			out.Set(k, walked)
			return true
		})
		if walkErr != nil {
			return nil, nil, walkErr
		}
		return nil, out, nil
	default:
		return nil, nil, errors.Arg(line, ".args must be a sequence or a mapping")
	}
}

// bindClosureArgs matches a closure's declared parameters against a bound
// argument set per the argument-binding rule: positional binds by
// position and requires an exact count match; named binds by name and
// requires every parameter to appear exactly once, with no extra keys.
func bindClosureArgs(params []string, positional []node.Node, named *node.Mapping, line int) (*node.Mapping, error) {
	bound := node.NewMapping()
	if named != nil {
		if named.Len() != len(params) {
			return nil, errors.Arg(line, "expected %d named argument(s), got %d", len(params), named.Len())
		}
		for _, p := range params {
			v, ok := named.Get(p)
			if !ok {
				return nil, errors.Arg(line, "missing argument %q", p)
			}
			bound.Set(p, v)
		}
		return bound, nil
	}
	if len(positional) != len(params) {
		return nil, errors.Arg(line, "expected %d positional argument(s), got %d", len(params), len(positional))
	}
	for idx, p := range params {
		bound.Set(p, positional[idx])
	}
	return bound, nil
}
