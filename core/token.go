package kimi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind int

const (
	TokLiteral TokenKind = iota
	TokSymbol
	TokOpening
	TokClosing
)

func (k TokenKind) String() string {
	switch k {
	case TokLiteral:
		return "literal"
	case TokSymbol:
		return "symbol"
	case TokOpening:
		return "opening"
	case TokClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Token is one lexical unit. Lit carries the payload of a literal token
// (an int or string Value), Text the name of a symbol token.
type Token struct {
	Kind TokenKind
	Lit  Value
	Text string
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case TokLiteral:
		if t.Lit.Kind == ValString {
			return fmt.Sprintf("(literal %q)", t.Lit.Str)
		}
		return "(literal " + t.Lit.String() + ")"
	case TokSymbol:
		return "(symbol " + t.Text + ")"
	default:
		return "(" + t.Kind.String() + ")"
	}
}

// form tracks one open paren while tokenizing.
type form struct {
	pos        int
	count      int  // elements seen so far
	headIsForm bool // first element was itself a parenthesized form
}

type lexer struct {
	src    string
	pos    int
	tokens []Token
	open   []form
}

// Tokenize splits src into tokens. It rejects unbalanced parens and the
// paren arrangements that can never evaluate: "( x", "()" and a form whose
// only element is another form, e.g. "((f 1))".
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		var err error
		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case r == '(':
			err = l.opening()
		case r == ')':
			err = l.closing()
		case r == '"':
			err = l.str()
		default:
			err = l.atom()
		}
		if err != nil {
			return nil, err
		}
	}
	if len(l.open) > 0 {
		e := errorAt(KindSyntax, l.open[len(l.open)-1].pos, "unclosed parenthesis")
		e.Incomplete = true
		return nil, e
	}
	return l.tokens, nil
}

// element counts a token as an element of the innermost open form.
func (l *lexer) element(isForm bool) {
	if len(l.open) == 0 {
		return
	}
	f := &l.open[len(l.open)-1]
	if f.count == 0 {
		f.headIsForm = isForm
	}
	f.count++
}

func (l *lexer) opening() error {
	start := l.pos
	l.pos++
	if l.pos < len(l.src) {
		next, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(next) {
			return errorAt(KindSyntax, start, "opening parenthesis must be immediately followed by an operator")
		}
	}
	l.element(true)
	l.open = append(l.open, form{pos: start})
	l.tokens = append(l.tokens, Token{Kind: TokOpening, Pos: start})
	return nil
}

func (l *lexer) closing() error {
	start := l.pos
	l.pos++
	if len(l.open) == 0 {
		return errorAt(KindSyntax, start, "unexpected closing parenthesis")
	}
	f := l.open[len(l.open)-1]
	l.open = l.open[:len(l.open)-1]
	switch {
	case f.count == 0:
		return errorAt(KindSyntax, f.pos, "empty form ()")
	case f.count == 1 && f.headIsForm:
		return errorAt(KindSyntax, f.pos, "redundant parentheses around a single form")
	}
	l.tokens = append(l.tokens, Token{Kind: TokClosing, Pos: start})
	return nil
}

// str reads up to the next double quote. There is no escaping, so a quote
// inside a string always ends it.
func (l *lexer) str() error {
	start := l.pos
	end := strings.IndexByte(l.src[start+1:], '"')
	if end < 0 {
		e := errorAt(KindSyntax, start, "unterminated string")
		e.Incomplete = true
		return e
	}
	text := l.src[start+1 : start+1+end]
	l.pos = start + end + 2
	l.element(false)
	l.tokens = append(l.tokens, Token{Kind: TokLiteral, Lit: StringVal(text), Pos: start})
	return nil
}

func (l *lexer) atom() error {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if isDelimiter(r) {
			break
		}
		l.pos += size
	}
	text := l.src[start:l.pos]
	l.element(false)

	n, err := strconv.ParseInt(text, 10, 64)
	switch {
	case err == nil:
		l.tokens = append(l.tokens, Token{Kind: TokLiteral, Lit: IntVal(n), Pos: start})
	case errors.Is(err, strconv.ErrRange):
		return errorAt(KindSyntax, start, "integer literal %s out of range", text)
	default:
		l.tokens = append(l.tokens, Token{Kind: TokSymbol, Text: text, Pos: start})
	}
	return nil
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}
