// Package tmpl is the expression evaluator shim described by the
// interpreter's component design: it owns the `#!literal` short-circuit,
// `{% raw %}` extraction, `{{ … }}` segment splitting, filter-pipe
// application, and the post-render literal-parser that recovers composite
// values from a rendered string. The bracket-free expression grammar
// itself — identifiers, arithmetic, comparisons, indexing, calls — is
// delegated to github.com/AlexanderGrooff/jinja-go's ParseAndEvaluate,
// which is exactly the "engine below" half of this split: it evaluates one
// expression against a flat context map and knows nothing about
// surrounding text, raw blocks, or filters.
package tmpl

import (
	"fmt"
	"strconv"
	"strings"

	jinja "github.com/AlexanderGrooff/jinja-go"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/frame"
	"github.com/proteinlang/protein/pkg/node"
)

const literalPrefix = "#!literal "

// StripLiteralPrefix reports whether s carries the literal sentinel and
// returns the text with the sentinel removed. It is applied by the parser
// at Node-construction time (§3: "prefix stripped on emit"); tmpl itself
// never sees the sentinel, only the resulting literal_flag.
func StripLiteralPrefix(s string) (text string, literal bool) {
	if strings.HasPrefix(s, literalPrefix) {
		return strings.TrimPrefix(s, literalPrefix), true
	}
	return s, false
}

// AddLiteralPrefix marks s as literal by prepending the `#!literal`
// sentinel, the runtime-callable counterpart of StripLiteralPrefix used by
// the `quote` filter. Idempotent: a string already carrying the sentinel is
// returned unchanged.
func AddLiteralPrefix(s string) string {
	if strings.HasPrefix(s, literalPrefix) {
		return s
	}
	return literalPrefix + s
}

// ParseLiteral recovers a typed Node from s using the same post-render
// literal-parser Eval applies to mixed-text results, exposed for the
// `dequote` filter to call directly on an arbitrary string.
func ParseLiteral(s string) (node.Node, bool) {
	return literalParse(s)
}

// Eval implements §4.3 end to end for a non-literal String leaf.
func Eval(s string, line int, stack *frame.Stack) (node.Node, error) {
	rawExtracted, placeholders := extractRawBlocks(s)
	spans, err := findExprSpans(rawExtracted)
	if err != nil {
		return node.Node{}, errors.Expr(line, "%v", err)
	}

	if len(spans) == 1 && spans[0].start == 0 && spans[0].end == len(rawExtracted) && len(placeholders) == 0 {
		result, err := evalSpan(spans[0].expr, line, stack)
		if err != nil {
			return node.Node{}, err
		}
		return result, nil
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(rawExtracted[prev:sp.start])
		result, err := evalSpan(sp.expr, line, stack)
		if err != nil {
			return node.Node{}, err
		}
		b.WriteString(stringify(result))
		prev = sp.end
	}
	b.WriteString(rawExtracted[prev:])
	rendered := restoreRawBlocks(b.String(), placeholders)

	if parsed, ok := literalParse(rendered); ok {
		return parsed, nil
	}
	return node.NewString(rendered), nil
}

// EvalAsString renders s the same way Eval does but always returns the
// concatenated text, never a typed Node: used for mapping keys (which may
// themselves carry `{{ }}` expressions, e.g. a `.foreach` body keyed by
// `"{{ u.name }}"`) and any other position that is unconditionally
// string-typed, skipping both the single-span typed bypass and the
// post-render literal-parse step Eval applies for value positions.
func EvalAsString(s string, line int, stack *frame.Stack) (string, error) {
	rawExtracted, placeholders := extractRawBlocks(s)
	spans, err := findExprSpans(rawExtracted)
	if err != nil {
		return "", errors.Expr(line, "%v", err)
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(rawExtracted[prev:sp.start])
		result, err := evalSpan(sp.expr, line, stack)
		if err != nil {
			return "", err
		}
		b.WriteString(stringify(result))
		prev = sp.end
	}
	b.WriteString(rawExtracted[prev:])
	return restoreRawBlocks(b.String(), placeholders), nil
}

// evalSpan evaluates one `{{ expr }}` body, including any filter-pipe
// suffix, and returns a typed Node.
func evalSpan(expr string, line int, stack *frame.Stack) (node.Node, error) {
	stages := splitTopLevel(expr, '|')
	base := strings.TrimSpace(stages[0])

	ctx := buildContext(stack)
	raw, err := jinja.ParseAndEvaluate(base, ctx)
	if err != nil {
		return node.Node{}, errors.Expr(line, "%v", err)
	}
	result, err := goToNode(raw)
	if err != nil {
		return node.Node{}, errors.Type(line, "%v", err)
	}

	for _, stage := range stages[1:] {
		result, err = applyFilterStage(stage, result, line, stack, ctx)
		if err != nil {
			return node.Node{}, err
		}
	}
	return result, nil
}

func applyFilterStage(stage string, value node.Node, line int, stack *frame.Stack, ctx map[string]interface{}) (node.Node, error) {
	stage = strings.TrimSpace(stage)
	name := stage
	var argsText string
	if i := strings.IndexByte(stage, '('); i >= 0 && strings.HasSuffix(stage, ")") {
		name = strings.TrimSpace(stage[:i])
		argsText = stage[i+1 : len(stage)-1]
	}

	fv, ok := stack.Resolve(name)
	if !ok || fv.Kind() != node.KindHostFilter {
		return node.Node{}, errors.Undefined(line, name)
	}

	var args []node.Node
	for _, a := range splitTopLevel(argsText, ',') {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		raw, err := jinja.ParseAndEvaluate(a, ctx)
		if err != nil {
			return node.Node{}, errors.Expr(line, "%v", err)
		}
		n, err := goToNode(raw)
		if err != nil {
			return node.Node{}, errors.Type(line, "%v", err)
		}
		args = append(args, n)
	}

	out, err := fv.AsHostFilter()(value, args)
	if err != nil {
		return node.Node{}, errors.Wrap(errors.ErrExpr, line, err, "filter %q failed", name)
	}
	return out, nil
}

// stringify renders a Node for splicing into surrounding template text.
func stringify(n node.Node) string {
	switch n.Kind() {
	case node.KindNull:
		return "None"
	case node.KindBool:
		if n.AsBool() {
			return "True"
		}
		return "False"
	case node.KindString:
		return n.AsString()
	case node.KindInt:
		return strconv.FormatInt(n.AsInt(), 10)
	case node.KindFloat:
		return strconv.FormatFloat(n.AsFloat(), 'g', -1, 64)
	default:
		return reprValue(n)
	}
}

// reprValue renders composite values in a Python-literal-compatible form
// so that, when they appear inside mixed text, the literal-parser below
// can still recover them.
func reprValue(n node.Node) string {
	switch n.Kind() {
	case node.KindNull:
		return "None"
	case node.KindBool:
		if n.AsBool() {
			return "True"
		}
		return "False"
	case node.KindString:
		return "'" + strings.ReplaceAll(n.AsString(), "'", "\\'") + "'"
	case node.KindInt:
		return strconv.FormatInt(n.AsInt(), 10)
	case node.KindFloat:
		return strconv.FormatFloat(n.AsFloat(), 'g', -1, 64)
	case node.KindSequence:
		parts := make([]string, len(n.AsSequence()))
		for i, v := range n.AsSequence() {
			parts[i] = reprValue(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case node.KindMapping:
		var parts []string
		n.AsMapping().Each(func(k string, v node.Node) bool {
			parts = append(parts, fmt.Sprintf("'%s': %s", k, reprValue(v)))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return n.String()
	}
}
