// Package errors defines the tagged error taxonomy raised by the Protein
// interpreter. Every error carries a source line number where one is known,
// mirroring how the interpreter's upstream node model tracks location.
package errors

import "fmt"

// Tag identifies the class of a ProteinError.
type Tag string

const (
	ErrParse             Tag = "ERR_PARSE"
	ErrDupKey            Tag = "ERR_DUP_KEY"
	ErrUnknownConstruct  Tag = "ERR_UNKNOWN_CONSTRUCT"
	ErrUndefined         Tag = "ERR_UNDEFINED"
	ErrExpr              Tag = "ERR_EXPR"
	ErrType              Tag = "ERR_TYPE"
	ErrArg               Tag = "ERR_ARG"
	ErrIO                Tag = "ERR_IO"
	ErrSQL               Tag = "ERR_SQL"
)

// ProteinError is the error type raised by every component of the
// interpreter core. Line is 0 when no location is known.
type ProteinError struct {
	Tag     Tag
	Message string
	File    string
	Line    int
	Wrapped error
}

func (e *ProteinError) Error() string {
	loc := ""
	if e.Line > 0 {
		if e.File != "" {
			loc = fmt.Sprintf(" (%s:%d)", e.File, e.Line)
		} else {
			loc = fmt.Sprintf(" (line %d)", e.Line)
		}
	}
	return fmt.Sprintf("%s: %s%s", e.Tag, e.Message, loc)
}

func (e *ProteinError) Unwrap() error { return e.Wrapped }

// WithFile returns a copy of e with File set, if not already set.
func (e *ProteinError) WithFile(file string) *ProteinError {
	if e.File != "" {
		return e
	}
	cp := *e
	cp.File = file
	return &cp
}

// WithLine returns a copy of e with Line set, if not already set.
func (e *ProteinError) WithLine(line int) *ProteinError {
	if e.Line > 0 || line <= 0 {
		return e
	}
	cp := *e
	cp.Line = line
	return &cp
}

func newf(tag Tag, line int, format string, args ...interface{}) *ProteinError {
	return &ProteinError{Tag: tag, Line: line, Message: fmt.Sprintf(format, args...)}
}

func Parse(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrParse, line, format, args...)
}

func DupKey(line int, key string) *ProteinError {
	return newf(ErrDupKey, line, "duplicate key %q", key)
}

func UnknownConstruct(line int, key string) *ProteinError {
	return newf(ErrUnknownConstruct, line, "unknown construct %q", key)
}

func Undefined(line int, name string) *ProteinError {
	return newf(ErrUndefined, line, "undefined name %q", name)
}

func Expr(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrExpr, line, format, args...)
}

func Type(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrType, line, format, args...)
}

func Arg(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrArg, line, format, args...)
}

func IO(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrIO, line, format, args...)
}

func SQL(line int, format string, args ...interface{}) *ProteinError {
	return newf(ErrSQL, line, format, args...)
}

// Wrap attaches an underlying error to a tagged error, preserving the tag.
func Wrap(tag Tag, line int, wrapped error, format string, args ...interface{}) *ProteinError {
	e := newf(tag, line, format, args...)
	e.Wrapped = wrapped
	return e
}

// Exit is the orderly-termination signal raised by the `.exit` construct.
// It is deliberately not a *ProteinError: it unwinds the walker the same
// way an error does, but the top-level entry point treats it as a
// controlled exit rather than a diagnostic.
type Exit struct {
	Code    int
	Message string
}

func (e *Exit) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("exit(%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("exit(%d)", e.Code)
}

// AsProteinError reports whether err is a *ProteinError and returns it.
func AsProteinError(err error) (*ProteinError, bool) {
	pe, ok := err.(*ProteinError)
	return pe, ok
}

// AsExit reports whether err is an *Exit signal and returns it.
func AsExit(err error) (*Exit, bool) {
	ex, ok := err.(*Exit)
	return ex, ok
}
