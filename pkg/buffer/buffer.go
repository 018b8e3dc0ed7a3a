// Package buffer implements the buffer & export subsystem (§4.5): a
// process-wide registry of named text accumulators with an indentation
// contract, plus the file-writing helpers `.save_buffer` and `.write` use.
// The teacher repo has no analogous subsystem (it has no text-templating
// output at all), so this package is written fresh, in the teacher's
// general style — a small struct plus a registry map, with no locking
// since §5 states the registry is only ever touched by the single-
// threaded walker.
package buffer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
)

// Buffer is a named mutable text accumulator.
type Buffer struct {
	Name        string
	Language    string
	IndentWidth int
	BaseIndent  int
	Text        string
}

// Registry is the process-wide buffer registry keyed by name.
type Registry struct {
	buffers map[string]*Buffer
}

func NewRegistry() *Registry {
	return &Registry{buffers: make(map[string]*Buffer)}
}

// Open creates (or replaces) the named buffer. indentWidth is nil when
// `.indent` was not specified, defaulting to 4; an explicit `.indent: 0`
// is a real zero, not a request for the default.
func (r *Registry) Open(name, language, init string, indentWidth *int) *Buffer {
	width := 4
	if indentWidth != nil {
		width = *indentWidth
	}
	b := &Buffer{Name: name, Language: language, IndentWidth: width, Text: init}
	r.buffers[name] = b
	return b
}

// Get looks up a buffer by name.
func (r *Registry) Get(name string) (*Buffer, bool) {
	b, ok := r.buffers[name]
	return b, ok
}

// MustGet looks up a buffer, returning ERR_IO if it was never opened.
func (r *Registry) MustGet(name string, line int) (*Buffer, error) {
	b, ok := r.Get(name)
	if !ok {
		return nil, errors.IO(line, "buffer %q is not open", name)
	}
	return b, nil
}

// Discard removes a buffer without saving it, matching the lifecycle rule
// that unsaved buffers are discarded at program end (or on `.exit`).
func (r *Registry) Discard(name string) {
	delete(r.buffers, name)
}

// DiscardAll discards every open buffer, used on ProteinExit per §5
// ("all open buffers are discarded without saving").
func (r *Registry) DiscardAll() {
	r.buffers = make(map[string]*Buffer)
}

// Write appends text to the buffer following the indentation contract:
// common leading whitespace is stripped from text, then each line is
// prefixed with (BaseIndent + indent) * IndentWidth spaces and
// newline-terminated.
func (b *Buffer) Write(text string, indent int) {
	lines := strings.Split(dedent(text), "\n")
	prefix := strings.Repeat(" ", (b.BaseIndent+indent)*b.IndentWidth)
	for _, line := range lines {
		b.Text += prefix + line + "\n"
	}
}

// dedent strips the common leading whitespace shared by every non-empty
// line of text.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// Save writes a buffer's accumulated text to filename, resolved relative
// to baseDir, creating intermediate directories, and removes the buffer
// from the registry (it has been saved, so it is no longer pending
// discard).
func (r *Registry) Save(name, filename, baseDir string, line int) error {
	b, err := r.MustGet(name, line)
	if err != nil {
		return err
	}
	if err := WriteFile(filename, b.Text, baseDir); err != nil {
		return errors.Wrap(errors.ErrIO, line, err, "saving buffer %q", name)
	}
	delete(r.buffers, name)
	return nil
}

// WriteFile is the stream-free `.write` shortcut: it writes text once to
// filename, resolved relative to baseDir, creating intermediate
// directories, atomically with respect to the handler (opened, written,
// and closed before returning on every path including error).
func WriteFile(filename, text, baseDir string) error {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(text)
	return err
}
