package kimi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure raised anywhere in the pipeline.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindSyntax
	KindParsing
	KindName
	KindType
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindParsing:
		return "ParsingError"
	case KindName:
		return "NameError"
	case KindType:
		return "TypeError"
	default:
		return "UnknownError"
	}
}

// Error is the failure type returned by Tokenize, Parse and Evaluate.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  int // byte offset into the source, -1 when not known

	// Incomplete marks input that more text could still make valid
	// (an unclosed paren or string). The REPL uses it to keep reading.
	Incomplete bool
}

func (e *Error) Error() string {
	return e.Kind.String() + " : " + e.Msg
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func errorAt(kind ErrorKind, pos int, format string, args ...any) *Error {
	e := errorf(kind, format, args...)
	e.Pos = pos
	e.Msg += fmt.Sprintf(" at position %d", pos)
	return e
}

// KindOf reports the kind of err. Errors that did not come from this
// package are KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsIncomplete reports whether err was caused by input ending too early.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Incomplete
}
