package emit

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/proteinlang/protein/pkg/node"
)

// EmitYAML renders n with a yaml.Node tree built directly from the
// Mapping's own key order, the same round-trip-preserving approach
// pkg/parser uses on the way in — so emit and parse share one source of
// truth for what "order" means instead of going through an unordered
// map[string]interface{} in between. Width and Offset (ruamel.yaml-style
// block layout knobs the distilled interface still names) have no
// equivalent in yaml.v3's encoder and are accepted but not honored;
// duplicate keys are structurally impossible since they are already
// rejected at Mapping.SetUnique time, well before emission.
func EmitYAML(n node.Node, opts Options) ([]byte, error) {
	if opts.Indent == 0 {
		opts.Indent = 2
	}
	var buf bytes.Buffer
	if opts.ExplicitStart {
		buf.WriteString("---\n")
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(opts.Indent)
	if err := enc.Encode(toYAMLNode(n)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(n node.Node) *yaml.Node {
	switch n.Kind() {
	case node.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case node.KindBool:
		tag, value := "!!bool", "false"
		if n.AsBool() {
			value = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	case node.KindSequence:
		items := n.AsSequence()
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		out.Content = make([]*yaml.Node, len(items))
		for i, item := range items {
			out.Content[i] = toYAMLNode(item)
		}
		return out
	case node.KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		n.AsMapping().Each(func(k string, v node.Node) bool {
			out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, toYAMLNode(v))
			return true
		})
		return out
	default:
		// A scalar yaml.Node with no explicit tag lets the encoder infer the
		// right tag from Value's textual form (int/float/string).
		var scalar yaml.Node
		_ = scalar.Encode(n.ToGo())
		return &scalar
	}
}
