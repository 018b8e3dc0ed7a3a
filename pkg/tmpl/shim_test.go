package tmpl

import (
	"strings"
	"testing"

	"github.com/proteinlang/protein/pkg/frame"
	"github.com/proteinlang/protein/pkg/node"
)

func TestEvalBasicInterpolation(t *testing.T) {
	s := frame.New()
	s.SetTop("name", node.NewString("Alice"))

	got, err := Eval("Hello, {{ name }}!", 1, s)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != node.KindString || got.AsString() != "Hello, Alice!" {
		t.Fatalf("got %v", got)
	}
}

func TestEvalSingleExpressionYieldsTypedValue(t *testing.T) {
	s := frame.New()
	s.SetTop("servers", node.NewHostCallable(func(args []node.Node) (node.Node, error) {
		return node.NewSequence([]node.Node{
			node.NewSequence([]node.Node{node.NewString("apollo"), node.NewString("192.168.1.10")}),
			node.NewSequence([]node.Node{node.NewString("athena"), node.NewString("192.168.1.40")}),
		}), nil
	}))

	got, err := Eval("{{ servers('live') }}", 1, s)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != node.KindSequence || len(got.AsSequence()) != 2 {
		t.Fatalf("expected a 2-element sequence, got %v", got)
	}
}

func TestLiteralPrefixBypassesStack(t *testing.T) {
	text, literal := StripLiteralPrefix("#!literal {{ not a template }}")
	if !literal || text != "{{ not a template }}" {
		t.Fatalf("got text=%q literal=%v", text, literal)
	}
}

func TestRawBlockSurvivesVerbatim(t *testing.T) {
	s := frame.New()
	s.SetTop("x", node.NewInt(1))

	got, err := Eval("{% raw %}{{ x }}{% endraw %} but {{ x }}", 1, s)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() != "{{ x }} but 1" {
		t.Fatalf("got %q", got.AsString())
	}
}

func TestFilterPipeAppliesHostFilter(t *testing.T) {
	s := frame.New()
	s.SetTop("name", node.NewString("alice"))
	s.SetTop("upper", node.NewHostFilter(func(v node.Node, args []node.Node) (node.Node, error) {
		return node.NewString(strings.ToUpper(v.AsString())), nil
	}))

	got, err := Eval("{{ name | upper }}", 1, s)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() != "ALICE" {
		t.Fatalf("got %q", got.AsString())
	}
}

func TestLiteralParseRecoversCompositeValues(t *testing.T) {
	n, ok := literalParse("[1, 2, 'x']")
	if !ok {
		t.Fatal("expected successful parse")
	}
	seq := n.AsSequence()
	if len(seq) != 3 || seq[0].AsInt() != 1 || seq[2].AsString() != "x" {
		t.Fatalf("got %v", n)
	}
}

func TestLiteralParseFallsBackToString(t *testing.T) {
	n, ok := literalParse("not, valid: [literal")
	if ok {
		t.Fatalf("expected fallback, got %v", n)
	}
}
