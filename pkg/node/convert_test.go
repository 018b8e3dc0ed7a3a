package node

import "testing"

func TestFromGoRoundTripsScalars(t *testing.T) {
	cases := []struct {
		in   interface{}
		want Node
	}{
		{nil, Null},
		{true, NewBool(true)},
		{int64(7), NewInt(7)},
		{3.5, NewFloat(3.5)},
		{"hi", NewString("hi")},
	}
	for _, c := range cases {
		got, err := FromGo(c.in)
		if err != nil {
			t.Fatalf("FromGo(%v): %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("FromGo(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFromGoRejectsUnrepresentableType(t *testing.T) {
	if _, err := FromGo(make(chan int)); err == nil {
		t.Fatal("expected error for unrepresentable Go type")
	}
}

func TestFromGoMapSortsKeysForDeterminism(t *testing.T) {
	raw := map[string]interface{}{"z": 1, "a": 2, "m": 3}
	n, err := FromGo(raw)
	if err != nil {
		t.Fatal(err)
	}
	got := n.AsMapping().Keys()
	want := []string{"a", "m", "z"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestToGoRoundTripsSequenceAndMapping(t *testing.T) {
	m := NewMapping()
	m.Set("a", NewInt(1))
	m.Set("b", NewSequence([]Node{NewString("x"), NewBool(true)}))
	n := NewMappingNode(m)

	got, ok := n.ToGo().(map[string]interface{})
	if !ok {
		t.Fatalf("ToGo() = %T, want map[string]interface{}", n.ToGo())
	}
	if got["a"] != int64(1) {
		t.Errorf("a = %v, want 1", got["a"])
	}
	seq, ok := got["b"].([]interface{})
	if !ok || len(seq) != 2 {
		t.Fatalf("b = %v, want a 2-element slice", got["b"])
	}
}

func TestFromJSONPreservesKeyOrder(t *testing.T) {
	n, err := FromJSON([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	got := n.AsMapping().Keys()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFromJSONPreservesNestedOrder(t *testing.T) {
	n, err := FromJSON([]byte(`{"outer": {"z": 1, "a": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := n.AsMapping().Get("outer")
	if !ok {
		t.Fatal("missing outer key")
	}
	got := outer.AsMapping().Keys()
	if len(got) != 2 || got[0] != "z" || got[1] != "a" {
		t.Fatalf("unexpected nested key order: %v", got)
	}
}

func TestFromJSONDistinguishesIntAndFloat(t *testing.T) {
	n, err := FromJSON([]byte(`{"i": 42, "f": 42.5}`))
	if err != nil {
		t.Fatal(err)
	}
	i, _ := n.AsMapping().Get("i")
	if i.Kind() != KindInt || i.AsInt() != 42 {
		t.Errorf("i = %v, want int 42", i)
	}
	f, _ := n.AsMapping().Get("f")
	if f.Kind() != KindFloat || f.AsFloat() != 42.5 {
		t.Errorf("f = %v, want float 42.5", f)
	}
}

func TestFromJSONArraysAndScalars(t *testing.T) {
	n, err := FromJSON([]byte(`[1, "two", true, null]`))
	if err != nil {
		t.Fatal(err)
	}
	items := n.AsSequence()
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if items[0].AsInt() != 1 || items[1].AsString() != "two" || !items[2].AsBool() || !items[3].IsNull() {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestFromJSONRejectsMalformedInput(t *testing.T) {
	if _, err := FromJSON([]byte(`{not valid json`)); err == nil {
		t.Fatal("expected error for malformed json")
	}
}
