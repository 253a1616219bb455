package kimi

// StandardEnvironment returns a fresh global scope holding the builtins.
func StandardEnvironment() *Environment {
	env := NewEnvironment("global", nil)
	env.vars["true"] = BoolVal(true)
	env.vars["false"] = BoolVal(false)
	env.vars["nil"] = Empty()
	for name, fn := range standardBuiltins() {
		env.vars[name] = BuiltinVal(name, fn)
	}
	return env
}

func standardBuiltins() map[string]Builtin {
	return map[string]Builtin{
		// Arithmetic
		"+": intOp("+", func(a, b int64) (Value, error) { return IntVal(a + b), nil }),
		"-": intOp("-", func(a, b int64) (Value, error) { return IntVal(a - b), nil }),
		"*": intOp("*", func(a, b int64) (Value, error) { return IntVal(a * b), nil }),
		"/": intOp("/", floorDiv),
		"%": intOp("%", floorMod),
		// Logic
		"&": boolOp("&", 2, func(b []bool) bool { return b[0] && b[1] }),
		"|": boolOp("|", 2, func(b []bool) bool { return b[0] || b[1] }),
		"!": boolOp("!", 1, func(b []bool) bool { return !b[0] }),
		// Equality
		"=": builtinEquals,
		// Comparison
		">":  intOp(">", func(a, b int64) (Value, error) { return BoolVal(a > b), nil }),
		"<":  intOp("<", func(a, b int64) (Value, error) { return BoolVal(a < b), nil }),
		">=": intOp(">=", func(a, b int64) (Value, error) { return BoolVal(a >= b), nil }),
		"<=": intOp("<=", func(a, b int64) (Value, error) { return BoolVal(a <= b), nil }),
		// Lists
		"list":    builtinList,
		"prepend": builtinPrepend,
		"first":   builtinFirst,
		"rest":    builtinRest,
	}
}

func checkArity(name string, args []Value, n int) error {
	if len(args) != n {
		return errorf(KindType, "%s: expected %d arguments, got %d", name, n, len(args))
	}
	return nil
}

// checkKinds rejects any argument whose runtime type is not want.
func checkKinds(args []Value, want ValueKind, wantName string) error {
	for _, a := range args {
		if a.Kind != want {
			return errorf(KindType, "Invalid argument type: %s is type %s, expected type %s", elemString(a), a.KindName(), wantName)
		}
	}
	return nil
}

func intOp(name string, fn func(a, b int64) (Value, error)) Builtin {
	return func(args []Value) (Value, error) {
		if err := checkArity(name, args, 2); err != nil {
			return Value{}, err
		}
		if err := checkKinds(args, ValInt, "int"); err != nil {
			return Value{}, err
		}
		return fn(args[0].Int, args[1].Int)
	}
}

func boolOp(name string, arity int, fn func(b []bool) bool) Builtin {
	return func(args []Value) (Value, error) {
		if err := checkArity(name, args, arity); err != nil {
			return Value{}, err
		}
		if err := checkKinds(args, ValBool, "bool"); err != nil {
			return Value{}, err
		}
		b := make([]bool, len(args))
		for i, a := range args {
			b[i] = a.Bool
		}
		return BoolVal(fn(b)), nil
	}
}

// floorDiv rounds toward negative infinity, so (/ -3 2) is -2.
func floorDiv(a, b int64) (Value, error) {
	if b == 0 {
		return Value{}, errorf(KindUnknown, "division by zero")
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return IntVal(q), nil
}

// floorMod takes the sign of the divisor: (% 6 -4) is -2.
func floorMod(a, b int64) (Value, error) {
	if b == 0 {
		return Value{}, errorf(KindUnknown, "division by zero")
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return IntVal(m), nil
}

func builtinEquals(args []Value) (Value, error) {
	if err := checkArity("=", args, 2); err != nil {
		return Value{}, err
	}
	return BoolVal(ValuesEqual(args[0], args[1])), nil
}

func builtinList(args []Value) (Value, error) {
	return ListVal(args...), nil
}

func builtinPrepend(args []Value) (Value, error) {
	if err := checkArity("prepend", args, 2); err != nil {
		return Value{}, err
	}
	return PairVal(args[0], args[1]), nil
}

func builtinFirst(args []Value) (Value, error) {
	if err := checkArity("first", args, 1); err != nil {
		return Value{}, err
	}
	switch args[0].Kind {
	case ValEmpty:
		return Empty(), nil
	case ValPair:
		return args[0].Pair.Head, nil
	default:
		return Value{}, errorf(KindType, "first: %s is type %s, not a list", elemString(args[0]), args[0].KindName())
	}
}

func builtinRest(args []Value) (Value, error) {
	if err := checkArity("rest", args, 1); err != nil {
		return Value{}, err
	}
	switch args[0].Kind {
	case ValEmpty:
		return Empty(), nil
	case ValPair:
		return args[0].Pair.Next, nil
	default:
		return Value{}, errorf(KindType, "rest: %s is type %s, not a list", elemString(args[0]), args[0].KindName())
	}
}
