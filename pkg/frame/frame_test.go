package frame

import (
	"testing"

	"github.com/proteinlang/protein/pkg/node"
)

func TestResolveWalksTopDown(t *testing.T) {
	s := New()
	s.SetTop("x", node.NewInt(1))
	s.Push()
	s.SetTop("x", node.NewInt(2))

	v, ok := s.Resolve("x")
	if !ok || v.AsInt() != 2 {
		t.Fatalf("expected top frame's binding, got %v", v)
	}

	s.Pop()
	v, ok = s.Resolve("x")
	if !ok || v.AsInt() != 1 {
		t.Fatalf("expected bottom binding after pop, got %v", v)
	}
}

func TestMergedSnapshotOverlaysBottomToTop(t *testing.T) {
	s := New()
	s.SetTop("a", node.NewInt(1))
	s.SetTop("b", node.NewInt(1))
	s.Push()
	s.SetTop("b", node.NewInt(2))

	snap := s.MergedSnapshot()
	a, _ := snap.Get("a")
	b, _ := snap.Get("b")
	if a.AsInt() != 1 || b.AsInt() != 2 {
		t.Fatalf("unexpected snapshot: a=%v b=%v", a, b)
	}
}

func TestSnapshotIsIndependentOfLaterMutation(t *testing.T) {
	s := New()
	s.SetTop("x", node.NewInt(1))
	snap := s.MergedSnapshot()
	s.SetTop("x", node.NewInt(2))

	v, _ := snap.Get("x")
	if v.AsInt() != 1 {
		t.Fatalf("snapshot should not see later mutation, got %v", v)
	}
}

func TestPopBottomFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping the bottom frame")
		}
	}()
	New().Pop()
}
