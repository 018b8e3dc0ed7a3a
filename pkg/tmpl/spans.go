package tmpl

import (
	"fmt"
	"strings"
)

type exprSpan struct {
	start, end int // byte range in the source string, end exclusive, covering `{{ … }}`
	expr       string
}

// findExprSpans locates top-level `{{ … }}` spans, tracking bracket/paren/
// brace and quote nesting so an expression containing its own `{`/`}` (a
// dict literal) does not terminate the span early.
func findExprSpans(s string) ([]exprSpan, error) {
	var spans []exprSpan
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "{{")
		if start < 0 {
			break
		}
		start += i
		depth := 0
		j := start + 2
		var quote byte
		found := -1
		for j < len(s) {
			c := s[j]
			if quote != 0 {
				if c == '\\' {
					j += 2
					continue
				}
				if c == quote {
					quote = 0
				}
				j++
				continue
			}
			switch c {
			case '\'', '"':
				quote = c
			case '{', '[', '(':
				depth++
			case '}', ']', ')':
				if c == '}' && depth == 0 && j+1 < len(s) && s[j+1] == '}' {
					found = j
					j += 2
					goto closed
				}
				if depth > 0 {
					depth--
				}
			}
			j++
		}
	closed:
		if found < 0 {
			return nil, fmt.Errorf("unterminated expression starting at byte %d", start)
		}
		spans = append(spans, exprSpan{start: start, end: j, expr: s[start+2 : found]})
		i = j
	}
	return spans, nil
}

type rawPlaceholder struct {
	token string
	text  string
}

// extractRawBlocks pulls every `{% raw %}…{% endraw %}` span out of s,
// replacing it with a placeholder token that survives `{{ }}` splitting
// untouched, and returns the placeholders so the verbatim text can be
// spliced back in afterward. This is the "separate, cooperating mechanism"
// §4.5 refers to: raw text inside such a block is never submitted to the
// expression engine, regardless of literal_flag.
func extractRawBlocks(s string) (string, []rawPlaceholder) {
	const openTag = "{% raw %}"
	const closeTag = "{% endraw %}"
	var placeholders []rawPlaceholder
	var b strings.Builder
	rest := s
	for {
		oi := strings.Index(rest, openTag)
		if oi < 0 {
			b.WriteString(rest)
			break
		}
		ci := strings.Index(rest[oi+len(openTag):], closeTag)
		if ci < 0 {
			b.WriteString(rest)
			break
		}
		ci += oi + len(openTag)
		b.WriteString(rest[:oi])
		token := fmt.Sprintf("\x00RAW%d\x00", len(placeholders))
		placeholders = append(placeholders, rawPlaceholder{token: token, text: rest[oi+len(openTag) : ci]})
		b.WriteString(token)
		rest = rest[ci+len(closeTag):]
	}
	return b.String(), placeholders
}

func restoreRawBlocks(s string, placeholders []rawPlaceholder) string {
	for _, p := range placeholders {
		s = strings.ReplaceAll(s, p.token, p.text)
	}
	return s
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// brackets/parens/braces or quotes. Used both for filter-pipe chains
// (sep='|') and for filter-argument lists (sep=',').
func splitTopLevel(s string, sep byte) []string {
	if s == "" {
		return []string{""}
	}
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth > 0 {
				depth--
			}
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
