package kimi

import (
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValInt ValueKind = iota
	ValBool
	ValString
	ValPair
	ValEmpty
	ValBuiltin
	ValClosure
)

// Builtin is a primitive implemented in Go, called with evaluated arguments.
type Builtin func(args []Value) (Value, error)

// Pair is a cons cell. Next is usually another pair or the empty list,
// but prepend accepts any tail.
type Pair struct {
	Head Value
	Next Value
}

// Closure is a lambda value. Env is the environment the lambda was
// created in; it is shared, not copied.
type Closure struct {
	Params []string
	Body   Node
	Env    *Environment
}

type Value struct {
	Kind    ValueKind
	Int     int64
	Bool    bool
	Str     string // string payload, or the name of a builtin
	Pair    *Pair
	Builtin Builtin
	Closure *Closure
}

func IntVal(n int64) Value     { return Value{Kind: ValInt, Int: n} }
func BoolVal(b bool) Value     { return Value{Kind: ValBool, Bool: b} }
func StringVal(s string) Value { return Value{Kind: ValString, Str: s} }
func Empty() Value             { return Value{Kind: ValEmpty} }
func PairVal(head, next Value) Value {
	return Value{Kind: ValPair, Pair: &Pair{Head: head, Next: next}}
}
func BuiltinVal(name string, fn Builtin) Value {
	return Value{Kind: ValBuiltin, Str: name, Builtin: fn}
}
func ClosureVal(c *Closure) Value { return Value{Kind: ValClosure, Closure: c} }

// ListVal builds a proper list from elems.
func ListVal(elems ...Value) Value {
	result := Empty()
	for i := len(elems) - 1; i >= 0; i-- {
		result = PairVal(elems[i], result)
	}
	return result
}

// Callable reports whether v can appear in operator position.
func (v Value) Callable() bool {
	return v.Kind == ValBuiltin || v.Kind == ValClosure
}

func (v Value) String() string {
	switch v.Kind {
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValString:
		return v.Str
	case ValEmpty:
		return "nil"
	case ValBuiltin:
		return "<builtin " + v.Str + ">"
	case ValClosure:
		return "<lambda " + strings.Join(v.Closure.Params, " ") + ">"
	case ValPair:
		var parts []string
		cur := v
		for cur.Kind == ValPair {
			parts = append(parts, elemString(cur.Pair.Head))
			cur = cur.Pair.Next
		}
		if cur.Kind != ValEmpty {
			parts = append(parts, ".", elemString(cur))
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

func elemString(v Value) string {
	if v.Kind == ValString {
		return fmt.Sprintf("%q", v.Str)
	}
	return v.String()
}

// KindName is the runtime type name used in error messages.
func (v Value) KindName() string {
	switch v.Kind {
	case ValInt:
		return "int"
	case ValBool:
		return "bool"
	case ValString:
		return "string"
	case ValPair:
		return "pair"
	case ValEmpty:
		return "nil"
	case ValBuiltin:
		return "builtin"
	case ValClosure:
		return "lambda"
	default:
		return "unknown"
	}
}

// ValuesEqual is the equality used by "=": values of different kinds are
// never equal, pairs compare element-wise, closures by identity.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValInt:
		return a.Int == b.Int
	case ValBool:
		return a.Bool == b.Bool
	case ValString:
		return a.Str == b.Str
	case ValEmpty:
		return true
	case ValPair:
		return ValuesEqual(a.Pair.Head, b.Pair.Head) && ValuesEqual(a.Pair.Next, b.Pair.Next)
	case ValBuiltin:
		return a.Str == b.Str
	case ValClosure:
		return a.Closure == b.Closure
	}
	return false
}
