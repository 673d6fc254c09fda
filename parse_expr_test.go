package picoc

import "testing"

// exprPS tokenizes src and returns a ParserState ready to evaluate it as a
// standalone expression, positioned at token 0.
func exprPS(t *testing.T, src string) *ParserState {
	t.Helper()
	toks, err := NewLexer("expr.c", src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return &ParserState{Tokens: toks, Filename: "expr.c", ScopeID: RootScopeID, Mode: Run}
}

func evalExprSrc(t *testing.T, inst *Instance, src string) *Value {
	t.Helper()
	ps := exprPS(t, src)
	v, err := evalExpr(inst, ps)
	if err != nil {
		t.Fatalf("evalExpr(%q): %v", src, err)
	}
	return v
}

func TestEvalExprArithmeticPrecedence(t *testing.T) {
	inst := newTestInstance()
	v := evalExprSrc(t, inst, "1 + 2 * 3")
	if v.Int != 7 {
		t.Fatalf("expected 7, got %d", v.Int)
	}
}

func TestEvalExprParenOverridesPrecedence(t *testing.T) {
	inst := newTestInstance()
	v := evalExprSrc(t, inst, "(1 + 2) * 3")
	if v.Int != 9 {
		t.Fatalf("expected 9, got %d", v.Int)
	}
}

func TestEvalExprLogicalShortCircuitOr(t *testing.T) {
	inst := newTestInstance()
	// the right side would divide by zero if evaluated; short-circuit must skip it
	v := evalExprSrc(t, inst, "1 || (1 / 0)")
	if v.Int != 1 {
		t.Fatalf("expected 1, got %d", v.Int)
	}
}

func TestEvalExprLogicalShortCircuitAnd(t *testing.T) {
	inst := newTestInstance()
	v := evalExprSrc(t, inst, "0 && (1 / 0)")
	if v.Int != 0 {
		t.Fatalf("expected 0, got %d", v.Int)
	}
}

func TestEvalExprPointerComparisonUsesPointerIdentityNotInt(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("x")
	if _, err := Define(inst, psAt("expr.c", 1, 1), name, inst.Types.Int, nil); err != nil {
		t.Fatalf("Define: %v", err)
	}

	// A valid pointer's Value.Int field is always zero (its actual value
	// lives in Value.Pointer), so comparing through scalarInt would wrongly
	// read a non-null pointer as equal to 0.
	if v := evalExprSrc(t, inst, "&x != 0"); v.Int != 1 {
		t.Fatalf("expected &x != 0 to be true for a valid pointer, got %d", v.Int)
	}
	if v := evalExprSrc(t, inst, "&x == 0"); v.Int != 0 {
		t.Fatalf("expected &x == 0 to be false for a valid pointer, got %d", v.Int)
	}

	null1 := &Value{Type: inst.Types.PointerTo(inst.Types.Int)}
	null2 := &Value{Type: inst.Types.PointerTo(inst.Types.Int)}
	if !pointersEqual(null1, null2) {
		t.Fatal("expected two null pointers to compare equal")
	}
}

func TestEvalExprTernary(t *testing.T) {
	inst := newTestInstance()
	if v := evalExprSrc(t, inst, "1 ? 2 : 3"); v.Int != 2 {
		t.Fatalf("expected 2, got %d", v.Int)
	}
	if v := evalExprSrc(t, inst, "0 ? 2 : 3"); v.Int != 3 {
		t.Fatalf("expected 3, got %d", v.Int)
	}
}

func TestEvalExprUnaryOperators(t *testing.T) {
	inst := newTestInstance()
	if v := evalExprSrc(t, inst, "-5"); v.Int != -5 {
		t.Fatalf("expected -5, got %d", v.Int)
	}
	if v := evalExprSrc(t, inst, "!0"); v.Int != 1 {
		t.Fatalf("expected 1, got %d", v.Int)
	}
	if v := evalExprSrc(t, inst, "!5"); v.Int != 0 {
		t.Fatalf("expected 0, got %d", v.Int)
	}
	if v := evalExprSrc(t, inst, "~0"); v.Int != -1 {
		t.Fatalf("expected -1, got %d", v.Int)
	}
}

func TestEvalExprSizeofType(t *testing.T) {
	inst := newTestInstance()
	v := evalExprSrc(t, inst, "sizeof(int)")
	if v.Int != int64(inst.Types.Int.Sizeof) {
		t.Fatalf("expected %d, got %d", inst.Types.Int.Sizeof, v.Int)
	}
}

func TestEvalExprDivisionByZeroFails(t *testing.T) {
	inst := newTestInstance()
	ps := exprPS(t, "1 / 0")
	if _, err := evalExpr(inst, ps); err == nil {
		t.Fatal("expected division by zero to fail")
	} else if f, ok := AsFailure(err); !ok || f.Kind != ErrArithmetic {
		t.Fatalf("expected an ErrArithmetic Failure, got %v", err)
	}
}

func TestEvalExprAssignmentThroughVariable(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("x")
	ps := psAt("expr.c", 1, 1)
	if _, err := Define(inst, ps, name, inst.Types.Int, nil); err != nil {
		t.Fatalf("Define: %v", err)
	}

	assignPS := exprPS(t, "x = 41 + 1")
	v, err := evalExpr(inst, assignPS)
	if err != nil {
		t.Fatalf("evalExpr assignment: %v", err)
	}
	if v.Int != 42 {
		t.Fatalf("expected assignment expression to yield 42, got %d", v.Int)
	}

	got, err := VariableGet(inst, ps, name)
	if err != nil {
		t.Fatalf("VariableGet: %v", err)
	}
	if got.Int != 42 {
		t.Fatalf("expected stored variable to be updated to 42, got %d", got.Int)
	}
}

func TestEvalExprFloatArithmetic(t *testing.T) {
	inst := newTestInstance()
	v := evalExprSrc(t, inst, "1.5 + 2.5")
	if v.Type.Kind != KindFloat || v.Float != 4.0 {
		t.Fatalf("expected float 4.0, got %+v", v)
	}
}

func TestEvalExprIncrementDecrement(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("counter")
	ps := psAt("expr.c", 1, 1)
	if _, err := Define(inst, ps, name, inst.Types.Int, nil); err != nil {
		t.Fatalf("Define: %v", err)
	}

	preInc := exprPS(t, "++counter")
	v, err := evalExpr(inst, preInc)
	if err != nil {
		t.Fatalf("evalExpr ++counter: %v", err)
	}
	if v.Int != 1 {
		t.Fatalf("expected pre-increment to yield 1, got %d", v.Int)
	}

	postInc := exprPS(t, "counter++")
	v, err = evalExpr(inst, postInc)
	if err != nil {
		t.Fatalf("evalExpr counter++: %v", err)
	}
	if v.Int != 1 {
		t.Fatalf("expected post-increment to yield the pre-increment value 1, got %d", v.Int)
	}

	got, err := VariableGet(inst, ps, name)
	if err != nil {
		t.Fatalf("VariableGet: %v", err)
	}
	if got.Int != 2 {
		t.Fatalf("expected counter to be 2 after both increments, got %d", got.Int)
	}
}
