package tmpl

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/proteinlang/protein/pkg/node"
)

// literalParse recognizes numeric, boolean, null, sequence (`[ … ]` or
// `( … )`), and mapping (`{ … }`) literals in a rendered string, mirroring
// Python's ast.literal_eval as the original implementation uses it: on any
// parse failure the caller keeps the text as a plain String, not an error
// (§11.5).
func literalParse(s string) (node.Node, bool) {
	p := &litParser{s: s}
	p.skipSpace()
	n, ok := p.parseValue()
	if !ok {
		return node.Node{}, false
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return node.Node{}, false
	}
	return n, true
}

type litParser struct {
	s   string
	pos int
}

func (p *litParser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *litParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *litParser) parseValue() (node.Node, bool) {
	p.skipSpace()
	switch {
	case p.pos >= len(p.s):
		return node.Node{}, false
	case p.peek() == '[' || p.peek() == '(':
		return p.parseSequence()
	case p.peek() == '{':
		return p.parseMapping()
	case p.peek() == '\'' || p.peek() == '"':
		return p.parseString()
	default:
		return p.parseBareWordOrNumber()
	}
}

func (p *litParser) parseSequence() (node.Node, bool) {
	open := p.peek()
	close := byte(']')
	if open == '(' {
		close = ')'
	}
	p.pos++
	var items []node.Node
	p.skipSpace()
	if p.peek() == close {
		p.pos++
		return node.NewSequence(items), true
	}
	for {
		v, ok := p.parseValue()
		if !ok {
			return node.Node{}, false
		}
		items = append(items, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			if p.peek() == close {
				p.pos++
				break
			}
			continue
		}
		if p.peek() == close {
			p.pos++
			break
		}
		return node.Node{}, false
	}
	return node.NewSequence(items), true
}

func (p *litParser) parseMapping() (node.Node, bool) {
	p.pos++ // '{'
	m := node.NewMapping()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return node.NewMappingNode(m), true
	}
	for {
		p.skipSpace()
		key, ok := p.parseValue()
		if !ok || key.Kind() != node.KindString {
			return node.Node{}, false
		}
		p.skipSpace()
		if p.peek() != ':' {
			return node.Node{}, false
		}
		p.pos++
		val, ok := p.parseValue()
		if !ok {
			return node.Node{}, false
		}
		if !m.SetUnique(key.AsString(), val) {
			return node.Node{}, false
		}
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				break
			}
			continue
		}
		if p.peek() == '}' {
			p.pos++
			break
		}
		return node.Node{}, false
	}
	return node.NewMappingNode(m), true
}

func (p *litParser) parseString() (node.Node, bool) {
	quote := p.peek()
	p.pos++
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\\' && p.pos+1 < len(p.s) {
			b.WriteByte(p.s[p.pos+1])
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			return node.NewString(b.String()), true
		}
		b.WriteByte(c)
		p.pos++
	}
	return node.Node{}, false
}

func (p *litParser) parseBareWordOrNumber() (node.Node, bool) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == ',' || c == ']' || c == ')' || c == '}' || c == ':' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	word := p.s[start:p.pos]
	if word == "" {
		return node.Node{}, false
	}
	switch word {
	case "None", "null", "Null", "~":
		return node.Null, true
	case "True", "true":
		return node.NewBool(true), true
	case "False", "false":
		return node.NewBool(false), true
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return node.NewInt(i), true
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return node.NewFloat(f), true
	}
	return node.Node{}, false
}
