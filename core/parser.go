package kimi

// Parse builds the AST for a complete program. The token stream must hold
// exactly one atom or one parenthesized form.
func Parse(tokens []Token) (Node, error) {
	node, rest, err := ParseExpr(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errorAt(KindSyntax, rest[0].Pos, "unexpected %s after expression", rest[0])
	}
	return node, nil
}

// ParseExpr parses one expression from the front of tokens and returns it
// along with the tokens that follow it.
func ParseExpr(tokens []Token) (Node, []Token, error) {
	if len(tokens) == 0 {
		return nil, nil, errorf(KindParsing, "unexpected end of input")
	}
	tok := tokens[0]
	switch tok.Kind {
	case TokLiteral:
		return &Literal{Value: tok.Lit}, tokens[1:], nil
	case TokSymbol:
		return &Symbol{Name: tok.Text}, tokens[1:], nil
	case TokOpening:
		return parseList(tokens)
	default:
		return nil, nil, errorAt(KindParsing, tok.Pos, "unexpected closing parenthesis")
	}
}

func parseList(tokens []Token) (Node, []Token, error) {
	start := tokens[0]
	rest := tokens[1:]
	if len(rest) == 0 {
		return nil, nil, errorAt(KindParsing, start.Pos, "unterminated list")
	}
	if rest[0].Kind == TokClosing {
		return nil, nil, errorAt(KindParsing, start.Pos, "list has no operator")
	}
	operator, rest, err := ParseExpr(rest)
	if err != nil {
		return nil, nil, err
	}
	var args []Node
	for {
		if len(rest) == 0 {
			return nil, nil, errorAt(KindParsing, start.Pos, "unterminated list")
		}
		if rest[0].Kind == TokClosing {
			return &Apply{Operator: operator, Arguments: args}, rest[1:], nil
		}
		var arg Node
		arg, rest, err = ParseExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
	}
}
