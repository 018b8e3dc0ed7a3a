package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// EmitJSON renders n to JSON, preserving Mapping key order by building
// object bytes by hand (see package doc) rather than handing a
// map[string]interface{} to encoding/json, then optionally re-indenting
// the compact result with encoding/json.Indent — which only touches
// whitespace, so key order survives the pretty-print pass untouched.
func EmitJSON(n node.Node, opts Options) ([]byte, error) {
	if opts.Separators[0] == "" && opts.Separators[1] == "" {
		opts.Separators = [2]string{",", ":"}
	}
	compact, err := marshalJSON(n, opts)
	if err != nil {
		return nil, err
	}
	if opts.Indent <= 0 {
		return compact, nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact, "", strings.Repeat(" ", opts.Indent)); err != nil {
		return nil, err
	}
	return pretty.Bytes(), nil
}

func marshalJSON(n node.Node, opts Options) ([]byte, error) {
	switch n.Kind() {
	case node.KindNull:
		return []byte("null"), nil
	case node.KindBool:
		if n.AsBool() {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case node.KindInt:
		return []byte(strconv.FormatInt(n.AsInt(), 10)), nil
	case node.KindFloat:
		return marshalJSONFloat(n.AsFloat(), opts)
	case node.KindString:
		return marshalJSONString(n.AsString(), opts)
	case node.KindTimestamp:
		return marshalJSONString(n.AsTimestamp().Format("2006-01-02T15:04:05Z07:00"), opts)
	case node.KindSequence:
		items := n.AsSequence()
		var buf bytes.Buffer
		buf.WriteByte('[')
		for idx, item := range items {
			if idx > 0 {
				buf.WriteString(opts.Separators[0])
			}
			b, err := marshalJSON(item, opts)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case node.KindMapping:
		keys := n.AsMapping().Keys()
		if opts.SortKeys {
			keys = append([]string(nil), keys...)
			sort.Strings(keys)
		}
		var buf bytes.Buffer
		buf.WriteByte('{')
		for idx, k := range keys {
			if idx > 0 {
				buf.WriteString(opts.Separators[0])
			}
			keyBytes, err := marshalJSONString(k, opts)
			if err != nil {
				return nil, err
			}
			buf.Write(keyBytes)
			buf.WriteString(opts.Separators[1])
			v, _ := n.AsMapping().Get(k)
			valBytes, err := marshalJSON(v, opts)
			if err != nil {
				return nil, err
			}
			buf.Write(valBytes)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, errors.Type(n.Line(), "cannot serialize a %s to json", n.Kind())
	}
}

func marshalJSONFloat(f float64, opts Options) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if !opts.AllowNaN {
			return nil, errors.IO(0, "cannot serialize non-finite float without allow_nan")
		}
		switch {
		case math.IsNaN(f):
			return []byte("NaN"), nil
		case f > 0:
			return []byte("Infinity"), nil
		default:
			return []byte("-Infinity"), nil
		}
	}
	return json.Marshal(f)
}

func marshalJSONString(s string, opts Options) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if !opts.EnsureASCII {
		return b, nil
	}
	var out bytes.Buffer
	for _, r := range string(b) {
		if r < utf8.RuneSelf {
			out.WriteRune(r)
			continue
		}
		fmt.Fprintf(&out, `\u%04x`, r)
	}
	return out.Bytes(), nil
}
