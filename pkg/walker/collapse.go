package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// collapse implements §4.1's Collapse Rule for the result of a walked
// action sequence (`.do`'s sequence form): empty -> Null, single element ->
// that element, all-single-key-mappings-with-distinct-keys -> merged
// mapping, otherwise the sequence unchanged.
func collapse(items []node.Node, line int) (node.Node, error) {
	if len(items) == 0 {
		return node.Null, nil
	}
	if len(items) == 1 {
		return items[0], nil
	}
	if merged, ok, err := mergeSingleKeyMappings(items, line); err != nil {
		return node.Node{}, err
	} else if ok {
		return merged, nil
	}
	return node.NewSequence(items).WithLine(line), nil
}

// foreachCollapse implements the foreach-specific variant: the result never
// reduces below a sequence, and the single-key-mapping merge is gated by
// collectMappings.
func foreachCollapse(items []node.Node, collectMappings bool, line int) (node.Node, error) {
	if collectMappings && len(items) > 0 {
		if merged, ok, err := mergeSingleKeyMappings(items, line); err != nil {
			return node.Node{}, err
		} else if ok {
			return merged, nil
		}
	}
	return node.NewSequence(items).WithLine(line), nil
}

// mergeSingleKeyMappings reports ok=true and returns the merged mapping
// only when every item is a Mapping of exactly one key and no key repeats
// across items.
func mergeSingleKeyMappings(items []node.Node, line int) (node.Node, bool, error) {
	for _, item := range items {
		if item.Kind() != node.KindMapping || item.AsMapping().Len() != 1 {
			return node.Node{}, false, nil
		}
	}
	merged := node.NewMapping()
	for _, item := range items {
		var key string
		var value node.Node
		item.AsMapping().Each(func(k string, v node.Node) bool {
			key, value = k, v
			return false
		})
		if !merged.SetUnique(key, value) {
			return node.Node{}, false, errors.DupKey(line, key)
		}
	}
	return node.NewMappingNode(merged).WithLine(line), true, nil
}
