package walker

import (
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/tmpl"
)

// walkMapping is the entry point for a Mapping-kind node: it special-cases
// `.local` (a scope boundary spanning the *whole* containing mapping, not
// just its own value) and otherwise defers to dispatchMapping.
func (i *Interpreter) walkMapping(n node.Node) (node.Node, error) {
	m := n.AsMapping()
	line := n.Line()

	localVal, hasLocal := m.Get(".local")
	if !hasLocal {
		return i.dispatchMapping(n)
	}
	if localVal.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".local requires a mapping of bindings")
	}

	i.Stack.Push()
	defer i.Stack.Pop()

	var bindErr error
	localVal.AsMapping().Each(func(k string, v node.Node) bool {
		walked, err := i.Walk(v)
		if err != nil {
			bindErr = err
			return false
		}
		i.Stack.SetTop(k, walked)
		return true
	})
	if bindErr != nil {
		return node.Node{}, bindErr
	}

	rest := node.NewMapping()
	m.Each(func(k string, v node.Node) bool {
		if k != ".local" {
			rest.Set(k, v)
		}
		return true
	})
	return i.dispatchMapping(node.NewMappingNode(rest).WithLine(line))
}

// dispatchMapping implements the general key-scan algorithm of §4.4: a sole
// dotted key's result replaces the whole node; in a mapping with several
// keys, construct results are accumulated (Null dropped, Mapping merged)
// alongside evaluated plain entries. A mapping whose only non-Null result
// is one non-mapping construct value (e.g. `{.define: …, .do: "{{ x }}"}`)
// yields that value, as a sole construct would; such a value beside any
// other entries is ERR_TYPE.
func (i *Interpreter) dispatchMapping(n node.Node) (node.Node, error) {
	m := n.AsMapping()
	line := n.Line()
	keys := m.Keys()

	if len(keys) == 1 && strings.HasPrefix(keys[0], ".") {
		v, _ := m.Get(keys[0])
		return i.dispatchConstruct(keys[0], v, line)
	}

	result := node.NewMapping()
	var sole *node.Node
	for _, k := range keys {
		v, _ := m.Get(k)
		if strings.HasPrefix(k, ".") {
			r, err := i.dispatchConstruct(k, v, line)
			if err != nil {
				return node.Node{}, err
			}
			if !r.IsNull() && r.Kind() != node.KindMapping && sole == nil && result.Len() == 0 {
				sole = &r
				continue
			}
			if err := mergeConstructResult(result, r, k, line); err != nil {
				return node.Node{}, err
			}
			continue
		}
		evaluatedKey, err := tmpl.EvalAsString(k, line, i.Stack)
		if err != nil {
			return node.Node{}, err
		}
		walked, err := i.Walk(v)
		if err != nil {
			return node.Node{}, err
		}
		if !result.SetUnique(evaluatedKey, walked) {
			return node.Node{}, errors.DupKey(line, evaluatedKey)
		}
	}

	if sole != nil {
		if result.Len() > 0 {
			return node.Node{}, errors.Type(line, "a construct produced a %s, which cannot be merged alongside sibling keys", sole.Kind())
		}
		return *sole, nil
	}
	if result.Len() == 0 {
		return node.Null, nil
	}
	return node.NewMappingNode(result).WithLine(line), nil
}

// mergeConstructResult folds a dotted construct's result into result,
// following §4.1's mixed-mapping rule.
func mergeConstructResult(result *node.Mapping, r node.Node, key string, line int) error {
	if r.IsNull() {
		return nil
	}
	if r.Kind() == node.KindMapping {
		var mergeErr error
		r.AsMapping().Each(func(rk string, rv node.Node) bool {
			if !result.SetUnique(rk, rv) {
				mergeErr = errors.DupKey(line, rk)
				return false
			}
			return true
		})
		return mergeErr
	}
	return errors.Type(line, "construct %q produced a %s, which cannot be merged alongside sibling keys", key, r.Kind())
}
