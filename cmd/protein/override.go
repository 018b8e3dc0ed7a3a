package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// parseSet parses one `--set name=value` flag. value is YAML-parsed
// (not just taken as a literal string) so that compound values like
// `users=[Laurent, Paul]` work per §6, while a bare scalar like
// `name=Alice` parses to the same plain string it would have been anyway.
func parseSet(raw string) (name string, value node.Node, err error) {
	idx := strings.IndexByte(raw, '=')
	if idx < 0 {
		return "", node.Node{}, fmt.Errorf("--set %q: expected name=value", raw)
	}
	name = raw[:idx]

	var parsed interface{}
	if err := yaml.Unmarshal([]byte(raw[idx+1:]), &parsed); err != nil {
		return "", node.Node{}, fmt.Errorf("--set %q: %w", raw, err)
	}
	value, err = node.FromGo(parsed)
	if err != nil {
		return "", node.Node{}, fmt.Errorf("--set %q: %w", raw, err)
	}
	return name, value, nil
}

// applyOverrides merges --set bindings into root's top-level `.define`
// block per §6: "applied to the top-level .define block of the input
// tree (if the root is not a mapping, one is synthesized around the
// existing root)". A non-mapping root is preserved as the synthesized
// wrapper's `.do` body, so the document's own top-level computation still
// runs, just now alongside the injected bindings. CLI overrides win over
// any binding the document's own `.define` already names, since the
// merge happens before the walker ever sees `.define`.
func applyOverrides(root node.Node, sets []string) (node.Node, error) {
	if len(sets) == 0 {
		return root, nil
	}

	overrides := node.NewMapping()
	for _, raw := range sets {
		name, value, err := parseSet(raw)
		if err != nil {
			return node.Node{}, err
		}
		overrides.Set(name, value)
	}

	// rest carries every body/sibling key the merged .define must precede,
	// in its original order, with the document's own (pre-merge) .define
	// excluded so it isn't duplicated.
	var existingDefine node.Node
	hasDefine := false
	rest := node.NewMapping()
	if root.Kind() == node.KindMapping {
		src := root.AsMapping()
		existingDefine, hasDefine = src.Get(".define")
		src.Each(func(k string, v node.Node) bool {
			if k != ".define" {
				rest.Set(k, v.Clone())
			}
			return true
		})
	} else {
		rest.Set(".do", root)
	}

	merged := node.NewMapping()
	if hasDefine && existingDefine.Kind() == node.KindMapping {
		existingDefine.AsMapping().Each(func(k string, v node.Node) bool {
			merged.Set(k, v)
			return true
		})
	} else if hasDefine {
		return node.Node{}, errors.Type(root.Line(), ".define at document root must be a mapping")
	}
	overrides.Each(func(k string, v node.Node) bool {
		merged.Set(k, v)
		return true
	})

	// .define is set first so dispatchMapping evaluates it, and binds the
	// --set values into the frame, before any sibling key that reads them.
	target := node.NewMapping()
	target.Set(".define", node.NewMappingNode(merged))
	rest.Each(func(k string, v node.Node) bool {
		target.Set(k, v)
		return true
	})

	return node.NewMappingNode(target).WithLine(root.Line()), nil
}
