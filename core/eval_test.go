package kimi

import (
	"strings"
	"testing"
)

func testEval(t *testing.T, input string, expected Value) {
	t.Helper()
	val, err := Run(input, StandardEnvironment())
	if err != nil {
		t.Fatalf("eval %q: %v", input, err)
	}
	if !ValuesEqual(val, expected) {
		t.Fatalf("eval %q: expected %s, got %s", input, expected.String(), val.String())
	}
}

func testEvalError(t *testing.T, input string, kind ErrorKind) error {
	t.Helper()
	_, err := Run(input, StandardEnvironment())
	if err == nil {
		t.Fatalf("expected error for %q", input)
	}
	if KindOf(err) != kind {
		t.Fatalf("eval %q: expected %s, got %v", input, kind, err)
	}
	return err
}

// --- Atoms ---

func TestEvalAtoms(t *testing.T) {
	testEval(t, "-10", IntVal(-10))
	testEval(t, "true", BoolVal(true))
	testEval(t, `"string"`, StringVal("string"))
	testEval(t, "nil", Empty())
}

func TestEvalUndefined(t *testing.T) {
	testEvalError(t, "undefined-thing", KindName)
}

func TestEvaluateNode(t *testing.T) {
	node := &Apply{
		Operator:  &Symbol{Name: "+"},
		Arguments: []Node{&Literal{Value: IntVal(1)}, &Literal{Value: IntVal(2)}},
	}
	val, err := Evaluate(node, StandardEnvironment())
	if err != nil {
		t.Fatal(err)
	}
	if !ValuesEqual(val, IntVal(3)) {
		t.Fatalf("expected 3, got %s", val)
	}
}

func TestEvalNesting(t *testing.T) {
	testEval(t, "(| (& true false) (! true))", BoolVal(false))
	testEval(t, "(+ (* 2 3) (- 4 2))", IntVal(8))
}

func TestEvalBadProgram(t *testing.T) {
	testEvalError(t, "(+ (1) (2))", KindType)
	testEvalError(t, "(+ 1 2) (+ 3 4)", KindSyntax)
}

// --- Builtins ---

func TestBuiltinArithmetic(t *testing.T) {
	testEval(t, "(+ 1 2)", IntVal(3))
	testEval(t, "(+ -1 2)", IntVal(1))
	testEval(t, "(- 2 1)", IntVal(1))
	testEval(t, "(- 1 -2)", IntVal(3))
	testEval(t, "(* 2 4)", IntVal(8))
	testEval(t, "(* 3 -2)", IntVal(-6))
}

func TestBuiltinFloorDivision(t *testing.T) {
	testEval(t, "(/ 6 2)", IntVal(3))
	testEval(t, "(/ 7 2)", IntVal(3))
	testEval(t, "(/ 1 2)", IntVal(0))
	testEval(t, "(/ 6 -2)", IntVal(-3))
	testEval(t, "(/ -3 -2)", IntVal(1))
	testEval(t, "(/ -3 2)", IntVal(-2))
	testEval(t, "(/ 3 -2)", IntVal(-2))
}

func TestBuiltinFloorModulo(t *testing.T) {
	testEval(t, "(% 7 2)", IntVal(1))
	testEval(t, "(% 6 -4)", IntVal(-2))
	testEval(t, "(% 2 3)", IntVal(2))
	testEval(t, "(% -7 2)", IntVal(1))
	testEval(t, "(% -8 4)", IntVal(0))
}

func TestFloorSemantics(t *testing.T) {
	for a := int64(-9); a <= 9; a++ {
		for b := int64(-4); b <= 4; b++ {
			if b == 0 {
				continue
			}
			q, _ := floorDiv(a, b)
			m, _ := floorMod(a, b)
			if q.Int*b+m.Int != a {
				t.Fatalf("%d = %d*%d + %d does not hold", a, q.Int, b, m.Int)
			}
			if m.Int != 0 && (m.Int < 0) != (b < 0) {
				t.Fatalf("(%% %d %d) = %d does not follow the divisor's sign", a, b, m.Int)
			}
		}
	}
}

func TestBuiltinDivisionByZero(t *testing.T) {
	err := testEvalError(t, "(/ 1 0)", KindUnknown)
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	testEvalError(t, "(% 1 0)", KindUnknown)
}

func TestBuiltinLogic(t *testing.T) {
	testEval(t, "(& true true)", BoolVal(true))
	testEval(t, "(& true false)", BoolVal(false))
	testEval(t, "(& false true)", BoolVal(false))
	testEval(t, "(& false false)", BoolVal(false))
	testEval(t, "(| true true)", BoolVal(true))
	testEval(t, "(| true false)", BoolVal(true))
	testEval(t, "(| false true)", BoolVal(true))
	testEval(t, "(| false false)", BoolVal(false))
	testEval(t, "(! true)", BoolVal(false))
	testEval(t, "(! false)", BoolVal(true))
}

func TestBuiltinEquality(t *testing.T) {
	testEval(t, "(= 1 1)", BoolVal(true))
	testEval(t, "(= 1 2)", BoolVal(false))
	testEval(t, `(= "yes" "yes")`, BoolVal(true))
	testEval(t, `(= "yes" "no")`, BoolVal(false))
	testEval(t, "(= false false)", BoolVal(true))
	testEval(t, "(= true false)", BoolVal(false))
	// Different runtime types are never equal.
	testEval(t, `(= 1 "1")`, BoolVal(false))
	testEval(t, "(= nil false)", BoolVal(false))
	testEval(t, "(= (list 1 2) (list 1 2))", BoolVal(true))
	testEval(t, "(= nil (list))", BoolVal(true))
}

func TestBuiltinComparison(t *testing.T) {
	testEval(t, "(> 2 1)", BoolVal(true))
	testEval(t, "(> 2 2)", BoolVal(false))
	testEval(t, "(> 1 2)", BoolVal(false))
	testEval(t, "(< 2 1)", BoolVal(false))
	testEval(t, "(< 2 2)", BoolVal(false))
	testEval(t, "(< 1 2)", BoolVal(true))
	testEval(t, "(>= 2 1)", BoolVal(true))
	testEval(t, "(>= 2 2)", BoolVal(true))
	testEval(t, "(>= 1 2)", BoolVal(false))
	testEval(t, "(<= 2 1)", BoolVal(false))
	testEval(t, "(<= 2 2)", BoolVal(true))
	testEval(t, "(<= 1 2)", BoolVal(true))
}

func TestBuiltinTypeGuards(t *testing.T) {
	err := testEvalError(t, `(+ 1 "a")`, KindType)
	if !strings.Contains(err.Error(), `"a" is type string, expected type int`) {
		t.Fatalf("unexpected message: %v", err)
	}
	testEvalError(t, "(> true 1)", KindType)
	err = testEvalError(t, "(& 1 true)", KindType)
	if !strings.Contains(err.Error(), "1 is type int, expected type bool") {
		t.Fatalf("unexpected message: %v", err)
	}
	testEvalError(t, "(! nil)", KindType)
}

func TestBuiltinArity(t *testing.T) {
	testEvalError(t, "(+ 1 2 3)", KindType)
	testEvalError(t, "(! true false)", KindType)
	testEvalError(t, "(first)", KindType)
}

func TestBuiltinLists(t *testing.T) {
	testEval(t, "(prepend 1 (prepend 2 nil))", PairVal(IntVal(1), PairVal(IntVal(2), Empty())))
	testEval(t, "(list 1 2)", PairVal(IntVal(1), PairVal(IntVal(2), Empty())))
	testEval(t, "(first (list 1 2))", IntVal(1))
	testEval(t, "(rest (list 1 2))", PairVal(IntVal(2), Empty()))
	testEval(t, "(list)", Empty())
	testEval(t, "(first nil)", Empty())
	testEval(t, "(rest nil)", Empty())
	testEval(t, "(prepend 1 2)", PairVal(IntVal(1), IntVal(2)))
	testEvalError(t, "(first 5)", KindType)
	testEvalError(t, `(rest "abc")`, KindType)
}

// --- Special forms ---

func TestEvalDo(t *testing.T) {
	testEval(t, "(do (> 4 3))", BoolVal(true))
	testEval(t, "(do (+ 1 2) (+ 3 4))", IntVal(7))
	testEvalError(t, "(do)", KindType)
}

func TestEvalDefine(t *testing.T) {
	testEval(t, "(do (define x 1) (+ x x))", IntVal(2))
	testEval(t, "(define x 5)", IntVal(5))
	testEvalError(t, "(do (define x 1) (define x 2))", KindName)
	testEvalError(t, "(define x)", KindType)
	testEvalError(t, "(define 1 2)", KindType)
}

func TestEvalDefinePersists(t *testing.T) {
	env := StandardEnvironment()
	if _, err := Run("(define square (lambda x (* x x)))", env); err != nil {
		t.Fatal(err)
	}
	val, err := Run("(square 9)", env)
	if err != nil {
		t.Fatal(err)
	}
	if !ValuesEqual(val, IntVal(81)) {
		t.Fatalf("expected 81, got %s", val)
	}
}

func TestEvalIf(t *testing.T) {
	testEval(t, "(if true 1 2)", IntVal(1))
	testEval(t, "(if false 1 2)", IntVal(2))
	testEvalError(t, "(if 1 2 3)", KindType)
	testEvalError(t, "(if nil 2 3)", KindType)
	testEvalError(t, "(if true 1)", KindType)
}

func TestEvalIfIsLazy(t *testing.T) {
	testEval(t, "(if true 1 undefined-thing)", IntVal(1))
	testEval(t, "(if false (/ 1 0) 2)", IntVal(2))
	testEvalError(t, "(do (if false (define x 1) 0) x)", KindName)
	testEval(t, "(do (if false (define x 1) (define y 2)) y)", IntVal(2))
}

func TestEvalLambda(t *testing.T) {
	val, err := Run("(lambda x (* x x))", StandardEnvironment())
	if err != nil {
		t.Fatal(err)
	}
	if !val.Callable() || val.Kind != ValClosure {
		t.Fatalf("expected a closure, got %s", val.KindName())
	}
	testEval(t, "((lambda x (* x x)) 2)", IntVal(4))
	testEval(t, "((lambda a b (! (& a b))) true false)", BoolVal(true))
	testEval(t, "((lambda a ((lambda y (- a y)) 3)) 7)", IntVal(4))
}

func TestEvalLambdaBodyNotEvaluated(t *testing.T) {
	testEval(t, "(do (define f (lambda x (/ x 0))) 1)", IntVal(1))
}

func TestEvalLambdaErrors(t *testing.T) {
	testEvalError(t, "(lambda x)", KindType)
	testEvalError(t, "(lambda 1 x)", KindType)
	testEvalError(t, "((lambda x x) 1 2)", KindType)
	testEvalError(t, "((lambda x y x) 1)", KindType)
	testEvalError(t, "((lambda x x x) 1 2)", KindName)
}

func TestEvalLexicalScope(t *testing.T) {
	// f sees the y it was defined with, not the caller's parameter y.
	testEval(t, "(do (define y 1) (define f (lambda x (+ x y))) ((lambda y (f 10)) 100))", IntVal(11))
}

func TestEvalClosureCapture(t *testing.T) {
	testEval(t, "(do (define make-adder (lambda n (lambda m (+ n m)))) (define add2 (make-adder 2)) (add2 40))", IntVal(42))
}

func TestEvalClosureSharesEnvironment(t *testing.T) {
	// g is bound after f is created; f still sees it through the shared scope.
	testEval(t, "(do (define f (lambda x (g x))) (define g (lambda x (* x 3))) (f 5))", IntVal(15))
}

func TestEvalShadowingLeavesOuterBinding(t *testing.T) {
	testEval(t, "(do (define x 1) ((lambda x (+ x 10)) 5))", IntVal(15))
	testEval(t, "(do (define x 1) ((lambda x x) 5) x)", IntVal(1))
}

func TestEvalDefineInsideLambdaIsLocal(t *testing.T) {
	testEval(t, "(do (define f (lambda x (do (define y x) y))) (f 1) (f 2))", IntVal(2))
	testEvalError(t, "(do (define f (lambda x (do (define y x) y))) (f 1) y)", KindName)
}

func TestEvalRecursion(t *testing.T) {
	testEval(t, "(do (define fact (lambda n (if (<= n 1) 1 (* n (fact (- n 1)))))) (fact 10))", IntVal(3628800))
}

func TestEvalNotCallable(t *testing.T) {
	err := testEvalError(t, "(1 2)", KindType)
	if !strings.Contains(err.Error(), "not callable") {
		t.Fatalf("unexpected message: %v", err)
	}
	testEvalError(t, `("f" 1)`, KindType)
}

func TestEvalSpecialFormOperatorOnly(t *testing.T) {
	// A special form name is only special in operator position.
	testEvalError(t, "(list if)", KindName)
}

func TestEvalMaxDepth(t *testing.T) {
	ev := &Evaluator{MaxDepth: 50}
	_, err := ev.Run("(do (define loop (lambda n (loop n))) (loop 1))", StandardEnvironment())
	if err == nil || KindOf(err) != KindUnknown || !strings.Contains(err.Error(), "recursion depth") {
		t.Fatalf("expected recursion depth error, got %v", err)
	}
}

func TestEvalSyntaxErrors(t *testing.T) {
	testEvalError(t, ")+ 1 2(", KindSyntax)
	testEvalError(t, "(((+ 1 2)))", KindSyntax)
	testEvalError(t, "", KindParsing)
}
