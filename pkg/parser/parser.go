// Package parser turns YAML source bytes into a line-numbered node.Node
// tree. Grounded on the teacher's pkg/parser/parser.go: rather than
// yaml.Unmarshal into interface{}, it walks *yaml.Node directly so every
// produced node.Node keeps the source line it came from, and mapping keys
// can be checked for uniqueness as they are inserted rather than after the
// fact.
package parser

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/tmpl"
)

// Parse parses YAML source into a node.Node tree. filename is used only
// for error attribution.
func Parse(source []byte, filename string) (node.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return node.Node{}, errors.Parse(0, "%s: %v", filename, err).WithFile(filename)
	}
	if doc.Kind == 0 {
		return node.Null, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return node.Node{}, errors.Parse(doc.Line, "%s: empty or malformed document", filename).WithFile(filename)
	}
	n, err := convert(doc.Content[0])
	if err != nil {
		if pe, ok := errors.AsProteinError(err); ok {
			return node.Node{}, pe.WithFile(filename)
		}
		return node.Node{}, err
	}
	return n, nil
}

func convert(n *yaml.Node) (node.Node, error) {
	// Resolve aliases by following to their anchor target; the walker must
	// tolerate aliases during evaluation (§9), but the parser itself
	// flattens them into the same shared structure yaml.v3 already built.
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return convertScalar(n)
	case yaml.SequenceNode:
		items := make([]node.Node, len(n.Content))
		for i, c := range n.Content {
			v, err := convert(c)
			if err != nil {
				return node.Node{}, err
			}
			items[i] = v
		}
		return node.NewSequence(items).WithLine(n.Line), nil
	case yaml.MappingNode:
		m := node.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			valNode := n.Content[i+1]
			keyVal, err := convert(keyNode)
			if err != nil {
				return node.Node{}, err
			}
			if keyVal.Kind() != node.KindString {
				return node.Node{}, errors.Parse(keyNode.Line, "mapping keys must be strings")
			}
			v, err := convert(valNode)
			if err != nil {
				return node.Node{}, err
			}
			if !m.SetUnique(keyVal.AsString(), v) {
				return node.Node{}, errors.DupKey(keyNode.Line, keyVal.AsString())
			}
		}
		return node.NewMappingNode(m).WithLine(n.Line), nil
	default:
		return node.Node{}, errors.Parse(n.Line, "unsupported node kind")
	}
}

func convertScalar(n *yaml.Node) (node.Node, error) {
	tag := n.Tag
	val := n.Value

	switch tag {
	case "!!null":
		return node.Null.WithLine(n.Line), nil
	case "!!bool":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return node.Node{}, errors.Parse(n.Line, "invalid bool %q", val)
		}
		return node.NewBool(b).WithLine(n.Line), nil
	case "!!int":
		i, err := strconv.ParseInt(val, 0, 64)
		if err != nil {
			return node.Node{}, errors.Parse(n.Line, "invalid int %q", val)
		}
		return node.NewInt(i).WithLine(n.Line), nil
	case "!!float":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return node.Node{}, errors.Parse(n.Line, "invalid float %q", val)
		}
		return node.NewFloat(f).WithLine(n.Line), nil
	case "!!timestamp":
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return node.NewTimestamp(t).WithLine(n.Line), nil
			}
		}
		return node.Node{}, errors.Parse(n.Line, "invalid timestamp %q", val)
	case "!!str":
		text, literal := tmpl.StripLiteralPrefix(val)
		if literal {
			return node.NewLiteralString(text).WithLine(n.Line), nil
		}
		return node.NewString(text).WithLine(n.Line), nil
	default:
		return node.Node{}, errors.Parse(n.Line, "unsupported scalar tag %q", tag)
	}
}
