package node

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/proteinlang/protein/pkg/errors"
)

// FromJSON decodes data the way pkg/parser decodes YAML: by walking the
// token stream directly instead of going through json.Unmarshal into a
// map[string]interface{}, whose key order Go's runtime randomizes on every
// process. handleLoad's json branch uses this instead of FromGo so a
// `.load`ed JSON object keeps the key order it was written in.
func FromJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return Node{}, errors.Wrap(errors.ErrIO, 0, err, "parsing json")
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}
	return jsonTokenToNode(tok, dec)
}

func jsonTokenToNode(tok json.Token, dec *json.Decoder) (Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("json: object key is not a string: %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Node{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return NewMappingNode(m), nil
		case '[':
			items := []Node{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Node{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return NewSequence(items), nil
		default:
			return Node{}, fmt.Errorf("json: unexpected delimiter %v", t)
		}
	case nil:
		return Null, nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Node{}, err
		}
		return NewFloat(f), nil
	case string:
		return NewString(t), nil
	default:
		return Node{}, fmt.Errorf("json: unexpected token %v (%T)", tok, tok)
	}
}
