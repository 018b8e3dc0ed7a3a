package walker

import (
	"github.com/proteinlang/protein/pkg/buffer"
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// evalTextField evaluates a text-shaped field: a string is rendered to text
// the way evalName renders it (verbatim when literal_flag is set, template
// text otherwise); any other value is walked, then stringified the same
// way `.print` does.
func (i *Interpreter) evalTextField(n node.Node, line int) (string, error) {
	if n.Kind() == node.KindString {
		return evalName(n, line, i.Stack)
	}
	walked, err := i.Walk(n)
	if err != nil {
		return "", err
	}
	return renderPrintLine(walked), nil
}

func (i *Interpreter) evalIntField(n node.Node, line int) (int, error) {
	walked, err := i.Walk(n)
	if err != nil {
		return 0, err
	}
	if walked.Kind() != node.KindInt {
		return 0, errors.Type(line, "expected an integer, got %s", walked.Kind())
	}
	return int(walked.AsInt()), nil
}

// handleOpenBuffer implements `.open_buffer { .name, .language?, .init?, .indent? }`.
func (i *Interpreter) handleOpenBuffer(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".open_buffer requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".open_buffer requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	var language, init string
	if langNode, ok := m.Get(".language"); ok {
		if language, err = evalName(langNode, line, i.Stack); err != nil {
			return node.Node{}, err
		}
	}
	if initNode, ok := m.Get(".init"); ok {
		if init, err = i.evalTextField(initNode, line); err != nil {
			return node.Node{}, err
		}
	}
	var indentWidth *int
	if indentNode, ok := m.Get(".indent"); ok {
		width, err := i.evalIntField(indentNode, line)
		if err != nil {
			return node.Node{}, err
		}
		indentWidth = &width
	}

	i.Buffers.Open(name, language, init, indentWidth)
	return node.Null, nil
}

// handleWriteBuffer implements `.write_buffer { .name, .text?, .indent? }`.
func (i *Interpreter) handleWriteBuffer(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".write_buffer requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".write_buffer requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}
	buf, err := i.Buffers.MustGet(name, line)
	if err != nil {
		return node.Node{}, err
	}

	text := ""
	if textNode, ok := m.Get(".text"); ok {
		if text, err = i.evalTextField(textNode, line); err != nil {
			return node.Node{}, err
		}
	}
	indent := 0
	if indentNode, ok := m.Get(".indent"); ok {
		if indent, err = i.evalIntField(indentNode, line); err != nil {
			return node.Node{}, err
		}
	}

	buf.Write(text, indent)
	return node.Null, nil
}

// handleSaveBuffer implements `.save_buffer { .name, .filename }`.
func (i *Interpreter) handleSaveBuffer(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".save_buffer requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".save_buffer requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}
	filenameNode, ok := m.Get(".filename")
	if !ok {
		return node.Node{}, errors.Arg(line, ".save_buffer requires .filename")
	}
	filename, err := evalName(filenameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	if err := i.Buffers.Save(name, filename, i.SourceDir, line); err != nil {
		return node.Node{}, err
	}
	return node.Null, nil
}

// handleWrite implements the stream-free shortcut `.write { .filename, .text }`.
func (i *Interpreter) handleWrite(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".write requires a mapping")
	}
	m := value.AsMapping()

	filenameNode, ok := m.Get(".filename")
	if !ok {
		return node.Node{}, errors.Arg(line, ".write requires .filename")
	}
	filename, err := evalName(filenameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}
	textNode, ok := m.Get(".text")
	if !ok {
		return node.Node{}, errors.Arg(line, ".write requires .text")
	}
	text, err := i.evalTextField(textNode, line)
	if err != nil {
		return node.Node{}, err
	}

	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	if err := buffer.WriteFile(filename, text, i.SourceDir); err != nil {
		return node.Node{}, errors.Wrap(errors.ErrIO, line, err, "writing %q", filename)
	}
	return node.Null, nil
}
