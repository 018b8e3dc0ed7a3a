package node

import (
	"sort"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/proteinlang/protein/pkg/errors"
)

// FromGo converts a native Go value produced by a generic decoder
// (go-toml/v2, the template engine, or yaml.v3 for `--set` values) into a
// Node.
// It is the single place that understands the mapping between Go's dynamic
// types and the Node Kind set. The `.load` json path bypasses it entirely
// in favor of FromJSON, which preserves source key order; by the time a
// map[string]interface{} reaches here, the order of the decoder that
// produced it (go-toml/v2 has no stable ordered-decode API to preserve,
// unlike encoding/json's token stream) is already gone, so the object case
// below sorts keys instead of handing them to the Mapping in Go's
// randomized map-iteration order — sorting at least makes repeated loads
// of the same file byte-for-byte identical, even though it cannot recover
// the file's own key order.
func FromGo(v interface{}) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Null, nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case string:
		return NewString(t), nil
	case time.Time:
		return NewTimestamp(t), nil
	case toml.LocalDate:
		return NewTimestamp(t.AsTime(time.UTC)), nil
	case toml.LocalDateTime:
		return NewTimestamp(t.AsTime(time.UTC)), nil
	case toml.LocalTime:
		return NewTimestamp(time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC)), nil
	case []interface{}:
		out := make([]Node, len(t))
		for i, e := range t {
			n, err := FromGo(e)
			if err != nil {
				return Node{}, err
			}
			out[i] = n
		}
		return NewSequence(out), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			n, err := FromGo(t[k])
			if err != nil {
				return Node{}, err
			}
			m.Set(k, n)
		}
		return NewMappingNode(m), nil
	default:
		return Node{}, errors.Type(0, "cannot represent %T as a node", v)
	}
}

// ToGo converts a pure-data Node into the native Go representation a
// generic encoder (encoding/json, go-toml/v2, jinja-go's evaluator)
// operates on.
func (n Node) ToGo() interface{} {
	switch n.kind {
	case KindNull:
		return nil
	case KindBool:
		return n.b
	case KindInt:
		return n.i
	case KindFloat:
		return n.f
	case KindString:
		return n.s
	case KindTimestamp:
		return n.t
	case KindSequence:
		out := make([]interface{}, len(n.seq))
		for i, v := range n.seq {
			out[i] = v.ToGo()
		}
		return out
	case KindMapping:
		out := make(map[string]interface{}, n.m.Len())
		n.m.Each(func(k string, v Node) bool {
			out[k] = v.ToGo()
			return true
		})
		return out
	default:
		return nil
	}
}
