package node

import "testing"

func TestCollapseHelpersTruthy(t *testing.T) {
	cases := []struct {
		n    Node
		want bool
	}{
		{Null, false},
		{NewBool(false), false},
		{NewBool(true), true},
		{NewInt(0), false},
		{NewInt(3), true},
		{NewString(""), false},
		{NewString("false"), false},
		{NewString("0"), true},
		{NewSequence(nil), false},
		{NewSequence([]Node{NewInt(1)}), true},
	}
	for _, c := range cases {
		if got := c.n.Truthy(); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.n, got, c.want)
		}
	}
}

func TestMappingOrderPreserved(t *testing.T) {
	m := NewMapping()
	m.Set("b", NewInt(2))
	m.Set("a", NewInt(1))
	m.Set("b", NewInt(20))

	if got := m.Keys(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("unexpected key order: %v", got)
	}
	v, ok := m.Get("b")
	if !ok || v.AsInt() != 20 {
		t.Fatalf("overwrite did not take effect: %v", v)
	}
}

func TestSetUniqueRejectsDuplicates(t *testing.T) {
	m := NewMapping()
	if !m.SetUnique("k", NewInt(1)) {
		t.Fatal("first SetUnique should succeed")
	}
	if m.SetUnique("k", NewInt(2)) {
		t.Fatal("second SetUnique on the same key should fail")
	}
}

func TestIsPureData(t *testing.T) {
	pure := NewSequence([]Node{NewInt(1), NewString("x")})
	if !pure.IsPureData() {
		t.Fatal("expected pure data")
	}
	impure := NewSequence([]Node{NewHostCallable(func(args []Node) (Node, error) { return Null, nil })})
	if impure.IsPureData() {
		t.Fatal("expected impure data")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := NewMapping()
	m.Set("x", NewInt(1))
	orig := NewMappingNode(m)
	clone := orig.Clone()
	clone.AsMapping().Set("x", NewInt(2))

	v, _ := orig.AsMapping().Get("x")
	if v.AsInt() != 1 {
		t.Fatalf("clone mutated original: %v", v)
	}
}
