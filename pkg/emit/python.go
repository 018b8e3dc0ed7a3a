package emit

import (
	"strconv"
	"strings"

	"github.com/proteinlang/protein/pkg/node"
)

// EmitPython renders n as a Python literal (`repr`-style): the one format
// with no ecosystem library behind it, since no example in the retrieval
// pack serializes to a Python literal and the standard library has no
// notion of one either — the format itself is Python-specific, not a
// gap in Go's library ecosystem.
func EmitPython(n node.Node) []byte {
	return []byte(pyRepr(n))
}

func pyRepr(n node.Node) string {
	switch n.Kind() {
	case node.KindNull:
		return "None"
	case node.KindBool:
		if n.AsBool() {
			return "True"
		}
		return "False"
	case node.KindInt:
		return strconv.FormatInt(n.AsInt(), 10)
	case node.KindFloat:
		return strconv.FormatFloat(n.AsFloat(), 'g', -1, 64)
	case node.KindString:
		return pyQuote(n.AsString())
	case node.KindTimestamp:
		return pyQuote(n.AsTimestamp().Format("2006-01-02T15:04:05Z07:00"))
	case node.KindSequence:
		parts := make([]string, len(n.AsSequence()))
		for i, v := range n.AsSequence() {
			parts[i] = pyRepr(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case node.KindMapping:
		var parts []string
		n.AsMapping().Each(func(k string, v node.Node) bool {
			parts = append(parts, pyQuote(k)+": "+pyRepr(v))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "None"
	}
}

func pyQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("\\'")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
