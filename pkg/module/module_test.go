package module

import (
	"testing"

	"github.com/proteinlang/protein/pkg/node"
)

func TestLoadMergesExportsAndFilters(t *testing.T) {
	r := DefaultRegistry()
	target := node.NewMapping()
	if err := r.Load("text", 0, target); err != nil {
		t.Fatal(err)
	}
	if !target.Has("upper") || !target.Has("concat") {
		t.Fatalf("expected upper/concat to be merged, got keys %v", target.Keys())
	}
	upper, _ := target.Get("upper")
	if upper.Kind() != node.KindHostFilter {
		t.Fatalf("expected upper to be a filter, got %v", upper.Kind())
	}
}

func TestLogicalNameStripsPathAndExtension(t *testing.T) {
	cases := map[string]string{
		"servers":            "servers",
		"./lib/servers.py":   "servers",
		"modules/text.yaml":  "text",
	}
	for in, want := range cases {
		if got := logicalName(in); got != want {
			t.Errorf("logicalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestServersModuleMatchesScenarioS6(t *testing.T) {
	r := DefaultRegistry()
	target := node.NewMapping()
	if err := r.Load("servers", 0, target); err != nil {
		t.Fatal(err)
	}
	fn, _ := target.Get("servers")
	result, err := fn.AsHostCallable()([]node.Node{node.NewString("live")})
	if err != nil {
		t.Fatal(err)
	}
	seq := result.AsSequence()
	if len(seq) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(seq))
	}
	first := seq[0].AsSequence()
	if first[0].AsString() != "apollo" || first[1].AsString() != "192.168.1.10" {
		t.Fatalf("unexpected first server: %v", first)
	}
}

func TestGetEnvReturnsDefaultWhenUnset(t *testing.T) {
	fn := GetEnvCallable()
	result, err := fn([]node.Node{node.NewString("PROTEIN_DEFINITELY_UNSET_VAR"), node.NewString("fallback")})
	if err != nil {
		t.Fatal(err)
	}
	if result.AsString() != "fallback" {
		t.Fatalf("got %v", result)
	}
}

func TestAssertPassesThroughOnTruthyCondition(t *testing.T) {
	fn := AssertCallable()
	result, err := fn([]node.Node{node.NewBool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if result.AsString() != "" {
		t.Fatalf("got %v", result)
	}
}

func TestAssertFailsWithMessageOnFalsyCondition(t *testing.T) {
	fn := AssertCallable()
	_, err := fn([]node.Node{node.NewBool(false), node.NewString("missing title")})
	if err == nil || err.Error() != "assert: missing title" {
		t.Fatalf("got %v", err)
	}
}

func TestQuoteDequoteRoundTrip(t *testing.T) {
	quote := QuoteFilter()
	dequote := DequoteFilter()

	quoted, err := quote(node.NewString("[1, 2, 3]"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if quoted.AsString() != "#!literal [1, 2, 3]" {
		t.Fatalf("got %q", quoted.AsString())
	}

	parsed, err := dequote(node.NewString("[1, 2, 3]"), nil)
	if err != nil {
		t.Fatal(err)
	}
	seq := parsed.AsSequence()
	if len(seq) != 3 || seq[1].AsInt() != 2 {
		t.Fatalf("got %v", parsed)
	}
}

func TestQuoteIsIdempotent(t *testing.T) {
	quote := QuoteFilter()
	once, _ := quote(node.NewString("x"), nil)
	twice, _ := quote(once, nil)
	if twice.AsString() != once.AsString() {
		t.Fatalf("got %q, want %q", twice.AsString(), once.AsString())
	}
}
