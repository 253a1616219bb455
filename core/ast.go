package kimi

import "strings"

// Node is a parsed expression: *Literal, *Symbol or *Apply.
type Node interface {
	String() string
	node()
}

type Literal struct {
	Value Value
}

type Symbol struct {
	Name string
}

// Apply is a parenthesized form. Whether it is a special form or a call
// is decided by the evaluator.
type Apply struct {
	Operator  Node
	Arguments []Node
}

func (*Literal) node() {}
func (*Symbol) node()  {}
func (*Apply) node()   {}

func (n *Literal) String() string {
	if n.Value.Kind == ValString {
		return `"` + n.Value.Str + `"`
	}
	return n.Value.String()
}

func (n *Symbol) String() string { return n.Name }

func (n *Apply) String() string {
	parts := make([]string, 0, len(n.Arguments)+1)
	parts = append(parts, n.Operator.String())
	for _, a := range n.Arguments {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
