package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// handleDefine implements `.define`/`.context`: walk each value and write
// it into the current frame. Always yields Null.
func (i *Interpreter) handleDefine(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".define requires a mapping of bindings")
	}
	var walkErr error
	value.AsMapping().Each(func(k string, v node.Node) bool {
		walked, err := i.Walk(v)
		if err != nil {
			walkErr = err
			return false
		}
		i.Stack.SetTop(k, walked)
		return true
	})
	if walkErr != nil {
		return node.Node{}, walkErr
	}
	return node.Null, nil
}

// handleDo implements `.do`: a sequence form walks each element and applies
// the Collapse Rule; a mapping form walks each value and returns the
// resulting mapping untouched by collapse (it is already a mapping).
func (i *Interpreter) handleDo(value node.Node, line int) (node.Node, error) {
	switch value.Kind() {
	case node.KindSequence:
		items := value.AsSequence()
		walked := make([]node.Node, len(items))
		for idx, item := range items {
			r, err := i.Walk(item)
			if err != nil {
				return node.Node{}, err
			}
			walked[idx] = r
		}
		return collapse(walked, line)
	case node.KindMapping:
		return i.walkMapping(value)
	default:
		// A scalar `.do` body (e.g. `.do: "{{ x }}"`, the shorthand a
		// `.function` body commonly uses) is simply walked and returned.
		return i.Walk(value)
	}
}
