package kimi

// DefaultMaxDepth bounds expression nesting during evaluation. Recursion
// deeper than this fails instead of exhausting the goroutine stack.
const DefaultMaxDepth = 10000

// Evaluator walks an AST against an environment. The zero value is ready
// to use. An Evaluator holds no per-evaluation state, so one value may be
// shared by concurrent evaluations that use separate scope chains.
type Evaluator struct {
	MaxDepth int // 0 means DefaultMaxDepth
}

// Evaluate evaluates node in env with a default Evaluator.
func Evaluate(node Node, env *Environment) (Value, error) {
	return (&Evaluator{}).Eval(node, env)
}

// Run tokenizes, parses and evaluates src in env.
func Run(src string, env *Environment) (Value, error) {
	return (&Evaluator{}).Run(src, env)
}

func (e *Evaluator) Run(src string, env *Environment) (Value, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return Value{}, err
	}
	node, err := Parse(tokens)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(node, env)
}

func (e *Evaluator) Eval(node Node, env *Environment) (Value, error) {
	return e.eval(node, env, 0)
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return DefaultMaxDepth
}

func (e *Evaluator) eval(node Node, env *Environment, depth int) (Value, error) {
	if depth > e.maxDepth() {
		return Value{}, errorf(KindUnknown, "maximum recursion depth exceeded")
	}
	switch n := node.(type) {
	case *Literal:
		return n.Value, nil
	case *Symbol:
		return env.Get(n.Name)
	case *Apply:
		if op, ok := n.Operator.(*Symbol); ok {
			switch op.Name {
			case "define":
				return e.evalDefine(n, env, depth)
			case "if":
				return e.evalIf(n, env, depth)
			case "lambda":
				return evalLambda(n, env)
			case "do":
				return e.evalDo(n, env, depth)
			}
		}
		return e.apply(n, env, depth)
	default:
		return Value{}, errorf(KindUnknown, "unknown node %T", node)
	}
}

// evalDefine: (define name expr) binds in the current scope only.
func (e *Evaluator) evalDefine(n *Apply, env *Environment, depth int) (Value, error) {
	if len(n.Arguments) != 2 {
		return Value{}, errorf(KindType, "define: expected 2 arguments (name expr), got %d", len(n.Arguments))
	}
	name, ok := n.Arguments[0].(*Symbol)
	if !ok {
		return Value{}, errorf(KindType, "define: name must be a symbol, got %s", n.Arguments[0])
	}
	val, err := e.eval(n.Arguments[1], env, depth+1)
	if err != nil {
		return Value{}, err
	}
	if err := env.Set(name.Name, val); err != nil {
		return Value{}, err
	}
	return val, nil
}

// evalIf: (if cond then else). The condition must be a bool; only the chosen
// branch is evaluated.
func (e *Evaluator) evalIf(n *Apply, env *Environment, depth int) (Value, error) {
	if len(n.Arguments) != 3 {
		return Value{}, errorf(KindType, "if: expected 3 arguments (cond then else), got %d", len(n.Arguments))
	}
	cond, err := e.eval(n.Arguments[0], env, depth+1)
	if err != nil {
		return Value{}, err
	}
	if cond.Kind != ValBool {
		return Value{}, errorf(KindType, "if: condition %s is type %s, expected type bool", elemString(cond), cond.KindName())
	}
	if cond.Bool {
		return e.eval(n.Arguments[1], env, depth+1)
	}
	return e.eval(n.Arguments[2], env, depth+1)
}

// evalLambda: (lambda p1 p2 ... body). The body is not evaluated here.
func evalLambda(n *Apply, env *Environment) (Value, error) {
	if len(n.Arguments) < 2 {
		return Value{}, errorf(KindType, "lambda: expected parameters and a body, got %d arguments", len(n.Arguments))
	}
	last := len(n.Arguments) - 1
	params := make([]string, last)
	for i, p := range n.Arguments[:last] {
		sym, ok := p.(*Symbol)
		if !ok {
			return Value{}, errorf(KindType, "lambda: parameter names must be symbols, got %s", p)
		}
		params[i] = sym.Name
	}
	return ClosureVal(&Closure{Params: params, Body: n.Arguments[last], Env: env}), nil
}

// evalDo: (do e1 e2 ... eN) runs in the current scope, returns eN.
func (e *Evaluator) evalDo(n *Apply, env *Environment, depth int) (Value, error) {
	if len(n.Arguments) == 0 {
		return Value{}, errorf(KindType, "do: expected at least one expression")
	}
	var result Value
	for _, arg := range n.Arguments {
		var err error
		result, err = e.eval(arg, env, depth+1)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func (e *Evaluator) apply(n *Apply, env *Environment, depth int) (Value, error) {
	fn, err := e.eval(n.Operator, env, depth+1)
	if err != nil {
		return Value{}, err
	}
	if !fn.Callable() {
		return Value{}, errorf(KindType, "%s is type %s, not callable", elemString(fn), fn.KindName())
	}
	args := make([]Value, len(n.Arguments))
	for i, arg := range n.Arguments {
		if args[i], err = e.eval(arg, env, depth+1); err != nil {
			return Value{}, err
		}
	}
	if fn.Kind == ValBuiltin {
		return fn.Builtin(args)
	}
	return e.call(fn.Closure, args, depth)
}

// call runs a closure body in a new scope whose outer scope is the one the
// closure was created in, not the caller's.
func (e *Evaluator) call(c *Closure, args []Value, depth int) (Value, error) {
	if len(args) != len(c.Params) {
		return Value{}, errorf(KindType, "lambda: expected %d arguments, got %d", len(c.Params), len(args))
	}
	local := NewEnvironment("lambda", c.Env)
	for i, p := range c.Params {
		if err := local.Set(p, args[i]); err != nil {
			return Value{}, err
		}
	}
	return e.eval(c.Body, local, depth+1)
}
