// Package node defines the Protein data tree: the Node sum type described
// by the interpreter's data model, extended to a Value that additionally
// carries the frame-only variants (host callables, filters, closures, and
// SQL engine handles). A tagged struct is used in place of an interface,
// the same tradeoff the teacher repo makes for its own Value type: it
// avoids a heap allocation and a type switch at every access, at the cost
// of a wider struct.
package node

import (
	"context"
	"fmt"
	"time"
)

// Kind discriminates the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindTimestamp
	KindString
	KindSequence
	KindMapping
	KindHostCallable
	KindHostFilter
	KindClosure
	KindSQLEngine
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTimestamp:
		return "timestamp"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindHostCallable:
		return "host_callable"
	case KindHostFilter:
		return "host_filter"
	case KindClosure:
		return "closure"
	case KindSQLEngine:
		return "sql_engine"
	}
	return "unknown"
}

// Args is the already-bound argument list passed to a HostCallable or
// Closure invocation, after the argument-binding rule (positional XOR
// named) has resolved which parameter received which value.
type Args struct {
	Positional []Node
	Named      *Mapping
}

// HostCallable is a function exposed by a loaded module; invocable both
// from template expressions and as a dotted construct.
type HostCallable func(args []Node) (Node, error)

// HostFilter is a function exposed by a loaded module for use only as a
// template filter: value | name(args...).
type HostFilter func(value Node, args []Node) (Node, error)

// Closure is a user-defined function created by `.function`: an unwalked
// body, its formal parameters, and a shallow snapshot of the environment
// visible at definition time (dynamic capture, not lexical).
type Closure struct {
	Name     string
	Params   []string
	Body     Node
	Captured *Mapping
}

// SQLEngine is the opaque handle produced by `.def_sql` and consulted by
// `.exec_sql`/`.load_sql`. Implementations live in pkg/sqlengine; this
// package only needs the shape so a Node can carry a handle without an
// import cycle.
type SQLEngine interface {
	Exec(ctx context.Context, statement string, args []Node) error
	Query(ctx context.Context, query string, args []Node) ([]Node, error)
	Close() error
}

// Node is the tagged union described by the data model: a pure data tree
// node, extended (outside the pure-data Kinds) with the frame-only values
// a Value must additionally carry.
type Node struct {
	kind Kind
	line int

	b bool
	i int64
	f float64
	t time.Time

	s       string
	literal bool

	seq []Node
	m   *Mapping

	callable HostCallable
	filter   HostFilter
	closure  *Closure
	sql      SQLEngine
}

var Null = Node{kind: KindNull}

func NewBool(b bool) Node       { return Node{kind: KindBool, b: b} }
func NewInt(i int64) Node       { return Node{kind: KindInt, i: i} }
func NewFloat(f float64) Node   { return Node{kind: KindFloat, f: f} }
func NewTimestamp(t time.Time) Node { return Node{kind: KindTimestamp, t: t} }

// NewString returns a plain (non-literal) string node.
func NewString(s string) Node { return Node{kind: KindString, s: s} }

// NewLiteralString returns a string node whose literal_flag is set: the
// expression evaluator shim never submits it to the template engine.
func NewLiteralString(s string) Node { return Node{kind: KindString, s: s, literal: true} }

func NewSequence(items []Node) Node { return Node{kind: KindSequence, seq: items} }

func NewMappingNode(m *Mapping) Node { return Node{kind: KindMapping, m: m} }

func NewHostCallable(fn HostCallable) Node { return Node{kind: KindHostCallable, callable: fn} }

func NewHostFilter(fn HostFilter) Node { return Node{kind: KindHostFilter, filter: fn} }

func NewClosure(c *Closure) Node { return Node{kind: KindClosure, closure: c} }

func NewSQLEngine(e SQLEngine) Node { return Node{kind: KindSQLEngine, sql: e} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) Line() int     { return n.line }
func (n Node) WithLine(l int) Node {
	n.line = l
	return n
}

func (n Node) IsNull() bool { return n.kind == KindNull }

func (n Node) AsBool() bool {
	if n.kind != KindBool {
		panic(fmt.Sprintf("node: AsBool on %s", n.kind))
	}
	return n.b
}

func (n Node) AsInt() int64 {
	if n.kind != KindInt {
		panic(fmt.Sprintf("node: AsInt on %s", n.kind))
	}
	return n.i
}

func (n Node) AsFloat() float64 {
	switch n.kind {
	case KindFloat:
		return n.f
	case KindInt:
		return float64(n.i)
	}
	panic(fmt.Sprintf("node: AsFloat on %s", n.kind))
}

func (n Node) AsTimestamp() time.Time {
	if n.kind != KindTimestamp {
		panic(fmt.Sprintf("node: AsTimestamp on %s", n.kind))
	}
	return n.t
}

func (n Node) AsString() string {
	if n.kind != KindString {
		panic(fmt.Sprintf("node: AsString on %s", n.kind))
	}
	return n.s
}

// IsLiteral reports whether a String node carries the `#!literal` flag.
func (n Node) IsLiteral() bool { return n.kind == KindString && n.literal }

func (n Node) AsSequence() []Node {
	if n.kind != KindSequence {
		panic(fmt.Sprintf("node: AsSequence on %s", n.kind))
	}
	return n.seq
}

func (n Node) AsMapping() *Mapping {
	if n.kind != KindMapping {
		panic(fmt.Sprintf("node: AsMapping on %s", n.kind))
	}
	return n.m
}

func (n Node) AsHostCallable() HostCallable {
	if n.kind != KindHostCallable {
		panic(fmt.Sprintf("node: AsHostCallable on %s", n.kind))
	}
	return n.callable
}

func (n Node) AsHostFilter() HostFilter {
	if n.kind != KindHostFilter {
		panic(fmt.Sprintf("node: AsHostFilter on %s", n.kind))
	}
	return n.filter
}

func (n Node) AsClosure() *Closure {
	if n.kind != KindClosure {
		panic(fmt.Sprintf("node: AsClosure on %s", n.kind))
	}
	return n.closure
}

func (n Node) AsSQLEngine() SQLEngine {
	if n.kind != KindSQLEngine {
		panic(fmt.Sprintf("node: AsSQLEngine on %s", n.kind))
	}
	return n.sql
}

// IsPureData reports whether n (recursively) contains only the pure-data
// Kinds: no HostCallable/HostFilter/Closure/SQLEngine. Used before final
// emission, per the invariant that emitted trees carry no frame-only
// values.
func (n Node) IsPureData() bool {
	switch n.kind {
	case KindHostCallable, KindHostFilter, KindClosure, KindSQLEngine:
		return false
	case KindSequence:
		for _, item := range n.seq {
			if !item.IsPureData() {
				return false
			}
		}
		return true
	case KindMapping:
		pure := true
		n.m.Each(func(_ string, v Node) bool {
			if !v.IsPureData() {
				pure = false
				return false
			}
			return true
		})
		return pure
	default:
		return true
	}
}

// Truthy implements the coercion rule pinned for `.if .cond`: non-empty
// collection, non-zero number, non-empty non-"false" string -> true;
// Null/false/0/""/"false" -> false.
func (n Node) Truthy() bool {
	switch n.kind {
	case KindNull:
		return false
	case KindBool:
		return n.b
	case KindInt:
		return n.i != 0
	case KindFloat:
		return n.f != 0
	case KindTimestamp:
		return true
	case KindString:
		return n.s != "" && n.s != "false"
	case KindSequence:
		return len(n.seq) > 0
	case KindMapping:
		return n.m.Len() > 0
	default:
		return true
	}
}

// Clone returns a deep copy: Sequence and Mapping contents are copied
// recursively, so the copy shares no composite storage with n.
func (n Node) Clone() Node {
	switch n.kind {
	case KindSequence:
		cp := make([]Node, len(n.seq))
		for i, v := range n.seq {
			cp[i] = v.Clone()
		}
		out := n
		out.seq = cp
		return out
	case KindMapping:
		out := n
		out.m = n.m.Clone()
		return out
	default:
		return n
	}
}

// Equal performs structural, order-sensitive equality used by tests and by
// the round-trip law.
func (n Node) Equal(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == other.b
	case KindInt:
		return n.i == other.i
	case KindFloat:
		return n.f == other.f
	case KindTimestamp:
		return n.t.Equal(other.t)
	case KindString:
		return n.s == other.s && n.literal == other.literal
	case KindSequence:
		if len(n.seq) != len(other.seq) {
			return false
		}
		for i := range n.seq {
			if !n.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return n.m.Equal(other.m)
	default:
		return false
	}
}

// String renders a debug form; not used for emission (see pkg/emit).
func (n Node) String() string {
	switch n.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", n.b)
	case KindInt:
		return fmt.Sprintf("%d", n.i)
	case KindFloat:
		return fmt.Sprintf("%g", n.f)
	case KindTimestamp:
		return n.t.Format(time.RFC3339)
	case KindString:
		return n.s
	case KindSequence:
		return fmt.Sprintf("%v", n.seq)
	case KindMapping:
		return fmt.Sprintf("%v", n.m)
	default:
		return fmt.Sprintf("<%s>", n.kind)
	}
}
