package module

import (
	"fmt"
	"os"
	"strings"

	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/tmpl"
)

// GetEnvCallable implements the `get_env(NAME, default?)` binding §6
// requires to always be exposed in expressions, regardless of whether any
// module has been loaded. It is placed directly into the builtins frame at
// interpreter start-up rather than registered through the module loader.
func GetEnvCallable() node.HostCallable {
	return func(args []node.Node) (node.Node, error) {
		if len(args) == 0 {
			return node.Node{}, fmt.Errorf("get_env: requires at least one argument")
		}
		name := args[0].AsString()
		val, ok := os.LookupEnv(name)
		if ok {
			return node.NewString(val), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return node.NewString(""), nil
	}
}

// AssertCallable implements the `assert(condition, message?)` debugging hook
// exposed directly in the builtins frame alongside get_env: a look-through
// that lets an expression fail loudly with a host-visible message instead of
// silently producing a wrong value. Returns "" on success.
func AssertCallable() node.HostCallable {
	return func(args []node.Node) (node.Node, error) {
		if len(args) == 0 {
			return node.Node{}, fmt.Errorf("assert: requires at least one argument")
		}
		if args[0].Truthy() {
			return node.NewString(""), nil
		}
		message := "assertion failed"
		if len(args) > 1 {
			message = args[1].AsString()
		}
		return node.Node{}, fmt.Errorf("assert: %s", message)
	}
}

// QuoteFilter marks a rendered string as literal by prepending the
// `#!literal` sentinel, so a value built up inside a template (e.g. a
// `{{ … }}` expression reused by a later `.load`) can opt back out of
// re-evaluation the same way a literal_flag scalar does. The inverse of
// DequoteFilter.
func QuoteFilter() node.HostFilter {
	return func(v node.Node, args []node.Node) (node.Node, error) {
		if v.Kind() != node.KindString {
			return node.Node{}, fmt.Errorf("quote: expects a string")
		}
		return node.NewString(tmpl.AddLiteralPrefix(v.AsString())), nil
	}
}

// DequoteFilter parses a string's content back into a typed Node using the
// same literal-parser the expression evaluator applies to mixed-text
// results, the runtime-callable counterpart of the literal_flag mechanism's
// recovery step.
func DequoteFilter() node.HostFilter {
	return func(v node.Node, args []node.Node) (node.Node, error) {
		if v.Kind() != node.KindString {
			return node.Node{}, fmt.Errorf("dequote: expects a string")
		}
		parsed, ok := tmpl.ParseLiteral(v.AsString())
		if !ok {
			return node.Node{}, fmt.Errorf("dequote: %q is not a valid literal", v.AsString())
		}
		return parsed, nil
	}
}

// TextModule exercises the `@env.filter` half of the protocol: string-case
// filters usable from the filter-pipe (S8: `{{ name | upper }}`).
type TextModule struct{}

func (TextModule) Name() string { return "text" }

func (TextModule) Register(env *Environment) error {
	env.Filter("upper", func(v node.Node, args []node.Node) (node.Node, error) {
		return node.NewString(strings.ToUpper(v.AsString())), nil
	})
	env.Filter("lower", func(v node.Node, args []node.Node) (node.Node, error) {
		return node.NewString(strings.ToLower(v.AsString())), nil
	})
	env.Filter("title", func(v node.Node, args []node.Node) (node.Node, error) {
		return node.NewString(strings.Title(strings.ToLower(v.AsString()))), nil
	})
	env.Export("concat", func(args []node.Node) (node.Node, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(a.AsString())
		}
		return node.NewString(b.String()), nil
	})
	return nil
}

// ServersModule is the reference collaborator named by S6: it exports
// servers(environment) -> a sequence of (name, address) tuples, each
// represented as a two-element Sequence since Node has no tuple variant.
type ServersModule struct{}

func (ServersModule) Name() string { return "servers" }

var serverInventory = map[string][][2]string{
	"live": {
		{"apollo", "192.168.1.10"},
		{"athena", "192.168.1.40"},
	},
	"staging": {
		{"hermes", "10.0.0.5"},
	},
}

func (ServersModule) Register(env *Environment) error {
	env.Export("servers", func(args []node.Node) (node.Node, error) {
		if len(args) != 1 {
			return node.Node{}, fmt.Errorf("servers: expected exactly one argument")
		}
		env := args[0].AsString()
		entries, ok := serverInventory[env]
		if !ok {
			return node.NewSequence(nil), nil
		}
		out := make([]node.Node, len(entries))
		for i, e := range entries {
			out[i] = node.NewSequence([]node.Node{node.NewString(e[0]), node.NewString(e[1])})
		}
		return node.NewSequence(out), nil
	})
	return nil
}

// DefaultRegistry returns a Registry pre-populated with the reference
// modules this module ships so the module protocol has something real to
// exercise out of the box.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Add(TextModule{})
	r.Add(ServersModule{})
	return r
}
