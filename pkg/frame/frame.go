// Package frame implements the interpreter's frame stack: an ordered stack
// of name-to-value bindings with dynamic, top-down resolution. Grounded on
// the teacher's pkg/runtime/scope.go parent-chained VariableScope, but
// reshaped into an explicit slice: the specification calls for push/pop
// paired with scope-construct boundaries and a merged_snapshot() operation
// that a parent-pointer tree does not need but Protein's closures do. The
// teacher's synchronization (sync.RWMutex, a shared mutex for parallel
// writers) is dropped rather than ported — single-threaded, synchronous
// evaluation is an explicit requirement here, not an incidental one.
package frame

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// Frame is one level of the scope stack: a mapping from name to value.
type Frame = node.Mapping

// Stack is a non-empty stack of frames. The bottom frame is conventionally
// the builtins frame; the next is the initial (CLI --set) frame.
type Stack struct {
	frames []*Frame
}

// New returns a stack with a single, empty bottom frame.
func New() *Stack {
	return &Stack{frames: []*Frame{node.NewMapping()}}
}

// Push adds a new, empty frame on top of the stack.
func (s *Stack) Push() {
	s.frames = append(s.frames, node.NewMapping())
}

// PushFrame adds f as the new top frame (used to push a closure's captured
// environment as the base of a call frame).
func (s *Stack) PushFrame(f *Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes the top frame. Popping the last remaining frame is a
// programming error (it would violate the stack-height invariant) and
// panics rather than silently corrupting state.
func (s *Stack) Pop() {
	if len(s.frames) <= 1 {
		panic("frame: cannot pop the bottom frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Height reports the current stack depth.
func (s *Stack) Height() int { return len(s.frames) }

// Current returns the topmost frame: `.define` and argument binding write
// here.
func (s *Stack) Current() *Frame { return s.frames[len(s.frames)-1] }

// Builtins returns the bottom frame.
func (s *Stack) Builtins() *Frame { return s.frames[0] }

// Resolve searches top-down for name, returning the first hit.
func (s *Stack) Resolve(name string) (node.Node, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Get(name); ok {
			return v, true
		}
	}
	return node.Node{}, false
}

// MustResolve is Resolve with the ERR_UNDEFINED error the specification
// requires on a lookup miss.
func (s *Stack) MustResolve(name string, line int) (node.Node, error) {
	v, ok := s.Resolve(name)
	if !ok {
		return node.Node{}, errors.Undefined(line, name)
	}
	return v, nil
}

// Exists reports whether name is bound anywhere on the stack.
func (s *Stack) Exists(name string) bool {
	_, ok := s.Resolve(name)
	return ok
}

// SetTop writes name into the current (top) frame, per `.define`.
func (s *Stack) SetTop(name string, value node.Node) {
	s.Current().Set(name, value)
}

// SnapshotFrames returns the live frame slice, for save/restore around a
// closure call: `.call` must hide stack state that existed at call time
// beneath the closure's captured environment, which a simple Push cannot
// do since Resolve always walks every frame beneath the top.
func (s *Stack) SnapshotFrames() []*Frame { return s.frames }

// RestoreFrames replaces the frame slice wholesale, pairing with
// SnapshotFrames.
func (s *Stack) RestoreFrames(frames []*Frame) { s.frames = frames }

// MergedSnapshot builds a flat mapping by overlaying each frame
// bottom-to-top, as used at closure-capture time and when invoking the
// expression engine. The result is an independent Mapping: later mutation
// of the live stack does not affect it, though composite Values captured
// by reference (sequences/mappings) remain shared, per the closure
// capture contract.
func (s *Stack) MergedSnapshot() *Frame {
	out := node.NewMapping()
	for _, f := range s.frames {
		f.Each(func(k string, v node.Node) bool {
			out.Set(k, v)
			return true
		})
	}
	return out
}
