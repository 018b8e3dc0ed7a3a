package walker

import (
	"strings"

	"github.com/proteinlang/protein/pkg/buffer"
	"github.com/proteinlang/protein/pkg/emit"
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// handleExport implements `.export { .filename, .format?, .args?, .comment?, .do }`.
func (i *Interpreter) handleExport(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".export requires a mapping")
	}
	m := value.AsMapping()

	filenameNode, ok := m.Get(".filename")
	if !ok {
		return node.Node{}, errors.Arg(line, ".export requires .filename")
	}
	filename, err := evalName(filenameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	format := emit.InferFormat(filename)
	if formatNode, ok := m.Get(".format"); ok {
		format, err = evalName(formatNode, line, i.Stack)
		if err != nil {
			return node.Node{}, err
		}
	}

	opts := emit.DefaultOptions(format)
	if argsNode, ok := m.Get(".args"); ok {
		opts, err = i.evalEmitOptions(argsNode, format, line)
		if err != nil {
			return node.Node{}, err
		}
	}

	doNode, ok := m.Get(".do")
	if !ok {
		return node.Node{}, errors.Arg(line, ".export requires .do")
	}
	result, err := i.handleDo(doNode, line)
	if err != nil {
		return node.Node{}, err
	}

	data, err := emit.Emit(result, format, opts)
	if err != nil {
		return node.Node{}, err
	}

	if commentNode, ok := m.Get(".comment"); ok {
		comment, err := evalName(commentNode, line, i.Stack)
		if err != nil {
			return node.Node{}, err
		}
		data = append(prefixComment(comment, format), data...)
	}

	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	if err := buffer.WriteFile(filename, string(data), i.SourceDir); err != nil {
		return node.Node{}, errors.Wrap(errors.ErrIO, line, err, "exporting to %q", filename)
	}
	return node.Null, nil
}

func prefixComment(comment, format string) []byte {
	if format == "json" {
		return nil // JSON has no comment syntax; .comment is silently inapplicable.
	}
	var b strings.Builder
	for _, line := range strings.Split(comment, "\n") {
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// evalEmitOptions walks an `.args` mapping into emit.Options, starting
// from format's defaults.
func (i *Interpreter) evalEmitOptions(argsNode node.Node, format string, line int) (emit.Options, error) {
	opts := emit.DefaultOptions(format)
	if argsNode.Kind() != node.KindMapping {
		return opts, errors.Arg(line, ".export .args must be a mapping")
	}
	m := argsNode.AsMapping()

	getInt := func(key string, dst *int) error {
		v, ok := m.Get(key)
		if !ok {
			return nil
		}
		walked, err := i.Walk(v)
		if err != nil {
			return err
		}
		if walked.Kind() != node.KindInt {
			return errors.Type(line, ".export .args.%s must be an integer", key)
		}
		*dst = int(walked.AsInt())
		return nil
	}
	getBool := func(key string, dst *bool) error {
		v, ok := m.Get(key)
		if !ok {
			return nil
		}
		walked, err := i.Walk(v)
		if err != nil {
			return err
		}
		*dst = walked.Truthy()
		return nil
	}

	if err := getInt("indent", &opts.Indent); err != nil {
		return opts, err
	}
	if err := getInt("width", &opts.Width); err != nil {
		return opts, err
	}
	if err := getInt("offset", &opts.Offset); err != nil {
		return opts, err
	}
	if err := getBool("explicit_start", &opts.ExplicitStart); err != nil {
		return opts, err
	}
	if err := getBool("sort_keys", &opts.SortKeys); err != nil {
		return opts, err
	}
	if err := getBool("ensure_ascii", &opts.EnsureASCII); err != nil {
		return opts, err
	}
	if err := getBool("allow_nan", &opts.AllowNaN); err != nil {
		return opts, err
	}
	if err := getBool("skipkeys", &opts.SkipKeys); err != nil {
		return opts, err
	}
	if sepNode, ok := m.Get("separators"); ok {
		walked, err := i.Walk(sepNode)
		if err != nil {
			return opts, err
		}
		if walked.Kind() != node.KindSequence || len(walked.AsSequence()) != 2 {
			return opts, errors.Type(line, ".export .args.separators must be a 2-element sequence")
		}
		pair := walked.AsSequence()
		if pair[0].Kind() != node.KindString || pair[1].Kind() != node.KindString {
			return opts, errors.Type(line, ".export .args.separators elements must be strings")
		}
		opts.Separators = [2]string{pair[0].AsString(), pair[1].AsString()}
	}
	return opts, nil
}
