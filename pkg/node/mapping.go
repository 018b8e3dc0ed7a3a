package node

import "fmt"

// Mapping is an insertion-ordered, string-keyed collection of Nodes with
// unique keys. It is the backing store for Kind Mapping values.
type Mapping struct {
	keys   []string
	values map[string]Node
}

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

// Len reports the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by the caller.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get looks up a key without erroring; ok is false when absent.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return Node{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// MustGet looks up a key, returning an error when absent. Mirrors the
// original implementation's strict-lookup mode.
func (m *Mapping) MustGet(key string) (Node, error) {
	v, ok := m.Get(key)
	if !ok {
		return Node{}, fmt.Errorf("key %q not found", key)
	}
	return v, nil
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts or overwrites key. Overwriting an existing key preserves its
// original position.
func (m *Mapping) Set(key string, value Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// SetUnique inserts key, returning false if the key already exists without
// modifying the mapping. Used where duplicate keys must become ERR_DUP_KEY.
func (m *Mapping) SetUnique(key string, value Node) bool {
	if _, exists := m.values[key]; exists {
		return false
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return true
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Each calls fn for every entry in insertion order. Stops early if fn
// returns false.
func (m *Mapping) Each(fn func(key string, value Node) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}
	out := &Mapping{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]Node, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Equal compares two mappings for structural, order-sensitive equality.
func (m *Mapping) Equal(other *Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.Keys() {
		ok := other.Keys()[i]
		if k != ok {
			return false
		}
		av, _ := m.Get(k)
		bv, _ := other.Get(ok)
		if !av.Equal(bv) {
			return false
		}
	}
	return true
}
