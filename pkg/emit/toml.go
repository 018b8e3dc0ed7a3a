package emit

import (
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// EmitTOML renders n as TOML. It cannot hand n.ToGo() straight to
// toml.Marshal the way a struct-shaped value could: ToGo flattens a
// Mapping into a map[string]interface{}, and Go's map carries no iteration
// order, so every table would come out key-shuffled on every run — exactly
// the determinism regression EmitJSON's and EmitYAML's doc comments call
// out and avoid by walking Mapping.Keys() directly instead of going through
// a map. EmitTOML does the same: every table, at any depth, is written as
// an inline table (`key = { ... }`) built by walking Mapping.Each in
// insertion order, so go-toml/v2 is only ever asked to encode one
// already-ordered scalar or array at a time, never a whole map.
func EmitTOML(n node.Node, opts Options) ([]byte, error) {
	if n.Kind() != node.KindMapping {
		return nil, errors.Type(n.Line(), "toml output must be a mapping at the top level, got %s", n.Kind())
	}
	var b strings.Builder
	for _, k := range n.AsMapping().Keys() {
		v, _ := n.AsMapping().Get(k)
		valText, err := marshalTOMLValue(v)
		if err != nil {
			return nil, err
		}
		b.WriteString(tomlKey(k))
		b.WriteString(" = ")
		b.WriteString(valText)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

var tomlBareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// tomlKey renders a bare key unquoted when it's made only of the characters
// TOML allows bare, and as a quoted string otherwise.
func tomlKey(k string) string {
	if tomlBareKeyRe.MatchString(k) {
		return k
	}
	s, err := marshalTOMLLiteral(k)
	if err != nil {
		return `"` + strings.ReplaceAll(k, `"`, `\"`) + `"`
	}
	return s
}

// marshalTOMLValue renders n in order, recursing through Sequence and
// Mapping without ever building a map[string]interface{} along the way.
func marshalTOMLValue(n node.Node) (string, error) {
	switch n.Kind() {
	case node.KindNull:
		return "", errors.Type(n.Line(), "toml has no representation for null")
	case node.KindSequence:
		items := n.AsSequence()
		parts := make([]string, len(items))
		for i, item := range items {
			v, err := marshalTOMLValue(item)
			if err != nil {
				return "", err
			}
			parts[i] = v
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case node.KindMapping:
		var parts []string
		var innerErr error
		n.AsMapping().Each(func(k string, v node.Node) bool {
			valText, err := marshalTOMLValue(v)
			if err != nil {
				innerErr = err
				return false
			}
			parts = append(parts, tomlKey(k)+" = "+valText)
			return true
		})
		if innerErr != nil {
			return "", innerErr
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	default:
		return marshalTOMLLiteral(n.ToGo())
	}
}

// marshalTOMLLiteral leans on toml.Marshal for exactly one already-ordered
// scalar or array value at a time (never a map), so string escaping, float
// formatting, and datetime layout stay the library's responsibility while
// key order stays ours.
func marshalTOMLLiteral(v interface{}) (string, error) {
	data, err := toml.Marshal(map[string]interface{}{"v": v})
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(strings.TrimSpace(string(data)), "v = "), nil
}
