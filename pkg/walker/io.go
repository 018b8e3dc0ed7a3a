package walker

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/parser"
)

// handleLoad implements `.load { .filename, .format?, .args? }`, with the
// bare-scalar shorthand `.load: path`.
func (i *Interpreter) handleLoad(value node.Node, line int) (node.Node, error) {
	var filenameNode, formatNode node.Node
	hasFormat := false

	if value.Kind() == node.KindMapping {
		m := value.AsMapping()
		fn, ok := m.Get(".filename")
		if !ok {
			return node.Node{}, errors.Arg(line, ".load requires .filename")
		}
		filenameNode = fn
		if f, ok := m.Get(".format"); ok {
			formatNode, hasFormat = f, true
		}
	} else {
		filenameNode = value
	}

	filename, err := evalName(filenameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	format := inferLoadFormat(filename)
	if hasFormat {
		format, err = evalName(formatNode, line, i.Stack)
		if err != nil {
			return node.Node{}, err
		}
	}

	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(i.SourceDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return node.Node{}, errors.Wrap(errors.ErrIO, line, err, "loading %q", filename)
	}

	switch format {
	case "yaml", "yml", "protein":
		parsed, err := parser.Parse(data, path)
		if err != nil {
			return node.Node{}, err
		}
		sub := &Interpreter{
			Stack:     i.Stack,
			Buffers:   i.Buffers,
			Modules:   i.Modules,
			SourceDir: filepath.Dir(path),
			Logger:    i.Logger,
			Context:   i.Context,
		}
		return sub.Walk(parsed)
	case "json":
		converted, err := node.FromJSON(data)
		return converted, withLoadLine(err, line)
	case "toml":
		// go-toml/v2 has no ordered-decode API the way encoding/json's
		// token stream gives FromJSON one, so this goes through FromGo's
		// map[string]interface{} case, which sorts keys alphabetically
		// rather than leave them in Go's randomized map order.
		var raw interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return node.Node{}, errors.Wrap(errors.ErrIO, line, err, "loading %q", filename)
		}
		converted, err := node.FromGo(raw)
		return converted, withLoadLine(err, line)
	default:
		return node.Node{}, errors.IO(line, "unsupported .load format %q", format)
	}
}

// withLoadLine attaches line to a node.FromGo conversion error that has no
// location of its own, so an unrepresentable value surfaced while loading a
// json/toml file still reports where the .load construct that triggered it
// was.
func withLoadLine(err error, line int) error {
	if err == nil {
		return nil
	}
	if pe, ok := errors.AsProteinError(err); ok {
		return pe.WithLine(line)
	}
	return err
}

func inferLoadFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yml":
		return "yml"
	default:
		return "yaml"
	}
}

// handlePrint implements `.print: <expr-or-scalar>`.
func (i *Interpreter) handlePrint(value node.Node, line int) (node.Node, error) {
	walked, err := i.Walk(value)
	if err != nil {
		return node.Node{}, err
	}
	i.Logger.Info(renderPrintLine(walked))
	return node.Null, nil
}

func renderPrintLine(n node.Node) string {
	if n.Kind() == node.KindString {
		return n.AsString()
	}
	return n.String()
}

// handleExit implements `.exit { .code?, .message }`.
func (i *Interpreter) handleExit(value node.Node, line int) (node.Node, error) {
	code := 0
	message := ""

	if value.Kind() == node.KindMapping {
		m := value.AsMapping()
		if codeNode, ok := m.Get(".code"); ok {
			walked, err := i.Walk(codeNode)
			if err != nil {
				return node.Node{}, err
			}
			if walked.Kind() != node.KindInt {
				return node.Node{}, errors.Type(line, ".exit .code must be an integer")
			}
			code = int(walked.AsInt())
		}
		if msgNode, ok := m.Get(".message"); ok {
			walked, err := i.Walk(msgNode)
			if err != nil {
				return node.Node{}, err
			}
			message = renderPrintLine(walked)
		}
	} else if !value.IsNull() {
		walked, err := i.Walk(value)
		if err != nil {
			return node.Node{}, err
		}
		message = renderPrintLine(walked)
	}

	return node.Node{}, &errors.Exit{Code: code, Message: message}
}
