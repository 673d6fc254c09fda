package picoc

// This file is the reference expression evaluator spec §1 calls "out of
// scope, specified only at its interface": a precedence-climbing
// recursive-descent parser that evaluates as it parses, in keeping with
// the single-pass parse-execute core (spec §4.7). Grounded on
// _examples/RobertP-SyndicateLabs-SIC-lang/compiler's expression-parser
// shape (one method per precedence level, falling through to the next
// tighter level), adapted to evaluate immediately rather than build an AST,
// and to respect ParserState.Mode: when Mode is Skip, sub-expressions are
// still parsed (so token positions stay in sync) but never looked up or
// mutated, and && / || / ?: switch the untaken side into Skip mode for the
// span they parse so its side effects never happen — this is the only
// place outside statement execution that flips Mode transiently.

// withMode runs fn with ps.Mode temporarily forced to mode (unless ps is
// already Skip, in which case it stays Skip), restoring the previous mode
// afterward.
func withMode(ps *ParserState, mode RunMode, fn func() (*Value, error)) (*Value, error) {
	old := ps.Mode
	if old != Skip {
		ps.Mode = mode
	}
	v, err := fn()
	ps.Mode = old
	return v, err
}

// notExecuting reports whether the current mode means "parse but don't
// perform side effects": Skip (an untaken if/while branch), CaseSearch
// (scanning a switch body for the matching case label), and Goto (scanning
// forward or backward for a goto target) all qualify. parseCaseLabel
// briefly forces Mode to Run while evaluating a case constant itself,
// since that value must be computed even while searching.
func notExecuting(ps *ParserState) bool {
	return ps.Mode == Skip || ps.Mode == CaseSearch || ps.Mode == Goto
}

func truthy(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.Type.Kind {
	case KindFloat:
		return v.Float != 0
	case KindPointer:
		return v.Pointer.Kind != PointerNull
	default:
		return v.Int != 0
	}
}

func dummyInt(inst *Instance) *Value {
	return &Value{Type: inst.Types.Int}
}

func boolValue(inst *Instance, b bool) *Value {
	v := &Value{Type: inst.Types.Int}
	if b {
		v.Int = 1
	}
	return v
}

// evalExpr is the expression grammar's entry point.
func evalExpr(inst *Instance, ps *ParserState) (*Value, error) {
	return evalAssign(inst, ps)
}

func evalAssign(inst *Instance, ps *ParserState) (*Value, error) {
	lhs, err := evalTernary(inst, ps)
	if err != nil {
		return nil, err
	}
	if ps.Peek().Kind == TokAssign {
		ps.Advance()
		rhs, err := evalAssign(inst, ps)
		if err != nil {
			return nil, err
		}
		if notExecuting(ps) {
			return rhs, nil
		}
		if err := assignInto(inst, ps, lhs, rhs); err != nil {
			return nil, err
		}
		return lhs, nil
	}
	return lhs, nil
}

func assignInto(inst *Instance, ps *ParserState, lhs, rhs *Value) error {
	if !lhs.IsLValue {
		return newFailure(ErrType, ps.Position(), "not an lvalue")
	}
	if lhs.Host != nil {
		lhs.Host.Set(scalarInt(rhs))
		return nil
	}
	if isAggregate(lhs.Type.Kind) {
		if lhs.Bytes != nil && rhs.Bytes != nil {
			copy(lhs.Bytes, rhs.Bytes)
		}
		return nil
	}
	switch lhs.Type.Kind {
	case KindFloat:
		lhs.Float = scalarFloat(rhs)
	case KindPointer:
		lhs.Pointer = coercePointer(inst, rhs)
	default:
		lhs.Int = scalarInt(rhs)
		if lhs.Bytes != nil {
			EncodeInt(lhs.Bytes, lhs.Int)
		}
	}
	return nil
}

func scalarInt(v *Value) int64 {
	if v.Type.Kind == KindFloat {
		return int64(v.Float)
	}
	return v.Int
}

func scalarFloat(v *Value) float64 {
	if v.Type.Kind == KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func coercePointer(inst *Instance, v *Value) PointerValue {
	if v.Type.Kind == KindPointer {
		return v.Pointer
	}
	if v.Int == 0 {
		return PointerValue{Kind: PointerNull}
	}
	return v.Pointer
}

func evalTernary(inst *Instance, ps *ParserState) (*Value, error) {
	cond, err := evalLogicalOr(inst, ps)
	if err != nil {
		return nil, err
	}
	if ps.Peek().Kind != TokQuestion {
		return cond, nil
	}
	ps.Advance()
	isTrue := !notExecuting(ps) && truthy(cond)

	var thenV, elseV *Value
	if isTrue {
		thenV, err = evalAssign(inst, ps)
	} else {
		thenV, err = withMode(ps, Skip, func() (*Value, error) { return evalAssign(inst, ps) })
	}
	if err != nil {
		return nil, err
	}
	if ps.Peek().Kind != TokColon {
		return nil, newFailure(ErrSyntax, ps.Position(), "expected ':'")
	}
	ps.Advance()
	if !isTrue {
		elseV, err = evalAssign(inst, ps)
	} else {
		elseV, err = withMode(ps, Skip, func() (*Value, error) { return evalAssign(inst, ps) })
	}
	if err != nil {
		return nil, err
	}
	if notExecuting(ps) {
		return dummyInt(inst), nil
	}
	if isTrue {
		return thenV, nil
	}
	return elseV, nil
}

type binLevel struct {
	kinds []TokenKind
	next  func(*Instance, *ParserState) (*Value, error)
}

func evalLogicalOr(inst *Instance, ps *ParserState) (*Value, error) {
	left, err := evalLogicalAnd(inst, ps)
	if err != nil {
		return nil, err
	}
	for ps.Peek().Kind == TokOrOr {
		ps.Advance()
		if !notExecuting(ps) && truthy(left) {
			if _, err := withMode(ps, Skip, func() (*Value, error) { return evalLogicalAnd(inst, ps) }); err != nil {
				return nil, err
			}
			left = boolValue(inst, true)
			continue
		}
		right, err := evalLogicalAnd(inst, ps)
		if err != nil {
			return nil, err
		}
		if !notExecuting(ps) {
			left = boolValue(inst, truthy(right))
		}
	}
	return left, nil
}

func evalLogicalAnd(inst *Instance, ps *ParserState) (*Value, error) {
	left, err := evalBitOr(inst, ps)
	if err != nil {
		return nil, err
	}
	for ps.Peek().Kind == TokAndAnd {
		ps.Advance()
		if !notExecuting(ps) && !truthy(left) {
			if _, err := withMode(ps, Skip, func() (*Value, error) { return evalBitOr(inst, ps) }); err != nil {
				return nil, err
			}
			left = boolValue(inst, false)
			continue
		}
		right, err := evalBitOr(inst, ps)
		if err != nil {
			return nil, err
		}
		if !notExecuting(ps) {
			left = boolValue(inst, truthy(right))
		}
	}
	return left, nil
}

func evalBitOr(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokPipe}, evalBitXor)
}
func evalBitXor(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokCaret}, evalBitAnd)
}
func evalBitAnd(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokAmp}, evalEquality)
}
func evalEquality(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokEqEq, TokNe}, evalRelational)
}
func evalRelational(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokLt, TokGt, TokLe, TokGe}, evalAdditive)
}
func evalAdditive(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokPlus, TokMinus}, evalMultiplicative)
}
func evalMultiplicative(inst *Instance, ps *ParserState) (*Value, error) {
	return evalBinaryLevel(inst, ps, []TokenKind{TokStar, TokSlash, TokPercent}, evalUnary)
}

func evalBinaryLevel(inst *Instance, ps *ParserState, kinds []TokenKind, next func(*Instance, *ParserState) (*Value, error)) (*Value, error) {
	left, err := next(inst, ps)
	if err != nil {
		return nil, err
	}
	for {
		op := ps.Peek().Kind
		matched := false
		for _, k := range kinds {
			if k == op {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		ps.Advance()
		right, err := next(inst, ps)
		if err != nil {
			return nil, err
		}
		if notExecuting(ps) {
			continue
		}
		left, err = applyBinary(inst, ps, op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func applyBinary(inst *Instance, ps *ParserState, op TokenKind, l, r *Value) (*Value, error) {
	if l.Type.Kind == KindPointer && (op == TokPlus || op == TokMinus) {
		elemSize := 1
		if l.Type.FromType != nil && l.Type.FromType.Sizeof > 0 {
			elemSize = l.Type.FromType.Sizeof
		}
		delta := int(scalarInt(r)) * elemSize
		if op == TokMinus {
			delta = -delta
		}
		nv := &Value{Type: l.Type, Pointer: l.Pointer}
		nv.Pointer.Offset += delta
		return nv, nil
	}

	usePointer := l.Type.Kind == KindPointer || r.Type.Kind == KindPointer
	useFloat := l.Type.Kind == KindFloat || r.Type.Kind == KindFloat
	switch op {
	case TokEqEq, TokNe, TokLt, TokGt, TokLe, TokGe:
		var cmp bool
		switch {
		case usePointer:
			cmp = comparePointer(op, l, r)
		case useFloat:
			a, b := scalarFloat(l), scalarFloat(r)
			cmp = compareFloat(op, a, b)
		default:
			a, b := scalarInt(l), scalarInt(r)
			cmp = compareInt(op, a, b)
		}
		return boolValue(inst, cmp), nil
	}

	if useFloat {
		a, b := scalarFloat(l), scalarFloat(r)
		var res float64
		switch op {
		case TokPlus:
			res = a + b
		case TokMinus:
			res = a - b
		case TokStar:
			res = a * b
		case TokSlash:
			if b == 0 {
				return nil, newFailure(ErrArithmetic, ps.Position(), "division by zero")
			}
			res = a / b
		default:
			return nil, newFailure(ErrType, ps.Position(), "invalid operator on float operands")
		}
		return &Value{Type: inst.Types.Float, Float: res}, nil
	}

	a, b := scalarInt(l), scalarInt(r)
	var res int64
	switch op {
	case TokPlus:
		res = a + b
	case TokMinus:
		res = a - b
	case TokStar:
		res = a * b
	case TokSlash:
		if b == 0 {
			return nil, newFailure(ErrArithmetic, ps.Position(), "division by zero")
		}
		res = a / b
	case TokPercent:
		if b == 0 {
			return nil, newFailure(ErrArithmetic, ps.Position(), "division by zero")
		}
		res = a % b
	case TokAmp:
		res = a & b
	case TokPipe:
		res = a | b
	case TokCaret:
		res = a ^ b
	default:
		return nil, newFailure(ErrType, ps.Position(), "invalid integer operator")
	}
	return &Value{Type: inst.Types.Int, Int: res}, nil
}

func compareInt(op TokenKind, a, b int64) bool {
	switch op {
	case TokEqEq:
		return a == b
	case TokNe:
		return a != b
	case TokLt:
		return a < b
	case TokGt:
		return a > b
	case TokLe:
		return a <= b
	case TokGe:
		return a >= b
	}
	return false
}

func compareFloat(op TokenKind, a, b float64) bool {
	switch op {
	case TokEqEq:
		return a == b
	case TokNe:
		return a != b
	case TokLt:
		return a < b
	case TokGt:
		return a > b
	case TokLe:
		return a <= b
	case TokGe:
		return a >= b
	}
	return false
}

// pointerNull reports whether v reads as a null pointer for comparison
// purposes: an actual null PointerValue, or a non-pointer scalar operand
// (the "== 0" / "!= 0" idiom for a NULL literal) whose value is zero.
func pointerNull(v *Value) bool {
	if v.Type.Kind == KindPointer {
		return v.Pointer.Kind == PointerNull
	}
	return scalarInt(v) == 0
}

// pointersEqual compares two pointer-or-zero operands per C's pointer
// equality rules: two pointers are equal if both are null, or if they
// name the same capability (arena target+offset, or the same host cell);
// a pointer and a zero-valued scalar are equal only if the pointer is
// null.
func pointersEqual(l, r *Value) bool {
	lIsPtr := l.Type.Kind == KindPointer
	rIsPtr := r.Type.Kind == KindPointer
	if lIsPtr && rIsPtr {
		if l.Pointer.Kind == PointerNull || r.Pointer.Kind == PointerNull {
			return l.Pointer.Kind == r.Pointer.Kind
		}
		if l.Pointer.Kind != r.Pointer.Kind {
			return false
		}
		switch l.Pointer.Kind {
		case PointerArena:
			return l.Pointer.Target == r.Pointer.Target && l.Pointer.Offset == r.Pointer.Offset
		case PointerHost:
			return l.Pointer.Host == r.Pointer.Host
		default:
			return true
		}
	}
	return pointerNull(l) && pointerNull(r)
}

// comparePointer handles a relational/equality operator where at least one
// operand is a pointer. Equality/inequality follow pointersEqual; ordering
// is only meaningful between two arena pointers into the same target
// (pointer arithmetic within one object), compared by Offset — C itself
// leaves ordering undefined for pointers into different objects.
func comparePointer(op TokenKind, l, r *Value) bool {
	switch op {
	case TokEqEq:
		return pointersEqual(l, r)
	case TokNe:
		return !pointersEqual(l, r)
	}
	if l.Type.Kind == KindPointer && r.Type.Kind == KindPointer &&
		l.Pointer.Kind == PointerArena && r.Pointer.Kind == PointerArena &&
		l.Pointer.Target == r.Pointer.Target {
		return compareInt(op, int64(l.Pointer.Offset), int64(r.Pointer.Offset))
	}
	return compareInt(op, scalarInt(l), scalarInt(r))
}

func evalUnary(inst *Instance, ps *ParserState) (*Value, error) {
	switch ps.Peek().Kind {
	case TokMinus:
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil || notExecuting(ps) {
			return v, err
		}
		if v.Type.Kind == KindFloat {
			return &Value{Type: inst.Types.Float, Float: -v.Float}, nil
		}
		return &Value{Type: inst.Types.Int, Int: -scalarInt(v)}, nil
	case TokPlus:
		ps.Advance()
		return evalUnary(inst, ps)
	case TokBang:
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil || notExecuting(ps) {
			return v, err
		}
		return boolValue(inst, !truthy(v)), nil
	case TokTilde:
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil || notExecuting(ps) {
			return v, err
		}
		return &Value{Type: inst.Types.Int, Int: ^scalarInt(v)}, nil
	case TokAmp:
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil {
			return nil, err
		}
		if notExecuting(ps) {
			return dummyInt(inst), nil
		}
		if !v.IsLValue {
			return nil, newFailure(ErrType, ps.Position(), "cannot take address of non-lvalue")
		}
		pt := inst.Types.PointerTo(v.Type)
		return &Value{Type: pt, IsLValue: false, Pointer: PointerValue{Kind: PointerArena, Target: v}}, nil
	case TokStar:
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil {
			return nil, err
		}
		if notExecuting(ps) {
			return dummyInt(inst), nil
		}
		return dereference(inst, ps, v)
	case TokPlusPlus, TokMinusMinus:
		incr := ps.Peek().Kind == TokPlusPlus
		ps.Advance()
		v, err := evalUnary(inst, ps)
		if err != nil || notExecuting(ps) {
			return v, err
		}
		delta := int64(1)
		if !incr {
			delta = -1
		}
		if err := assignInto(inst, ps, v, &Value{Type: inst.Types.Int, Int: scalarInt(v) + delta}); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return evalPostfix(inst, ps)
	}
}

func dereference(inst *Instance, ps *ParserState, v *Value) (*Value, error) {
	if v.Type.Kind != KindPointer {
		return nil, newFailure(ErrType, ps.Position(), "cannot dereference a non-pointer")
	}
	switch v.Pointer.Kind {
	case PointerNull:
		return nil, newFailure(ErrRuntime, ps.Position(), "null pointer dereference")
	case PointerHost:
		hv := &Value{Type: v.Type.FromType, IsLValue: true, Host: v.Pointer.Host}
		hv.Int = v.Pointer.Host.Get()
		return hv, nil
	default:
		target := v.Pointer.Target
		if target == nil {
			return nil, newFailure(ErrRuntime, ps.Position(), "invalid pointer")
		}
		if target.OutOfScope {
			return nil, newFailure(ErrName, ps.Position(), "dereference of a pointer to an out-of-scope variable")
		}
		if v.Pointer.Offset == 0 {
			return target, nil
		}
		elemSize := 1
		if v.Type.FromType.Sizeof > 0 {
			elemSize = v.Type.FromType.Sizeof
		}
		idx := v.Pointer.Offset / elemSize
		return elementAt(inst, target, idx)
	}
}

func elementAt(inst *Instance, arr *Value, idx int) (*Value, error) {
	elemType := arr.Type
	if arr.Type.Kind == KindArray || arr.Type.Kind == KindPointer {
		elemType = arr.Type.FromType
	}
	size := elemType.Sizeof
	if size <= 0 {
		size = arenaAlign
	}
	off := idx * size
	if off < 0 || off+size > len(arr.Bytes) {
		return nil, newFailure(ErrRuntime, nil, "index out of bounds")
	}
	ev := AllocValueShared(arr, off, size, elemType)
	if !isAggregate(elemType.Kind) {
		ev.Int = decodeIntBytes(arr.Bytes[off : off+size])
	}
	return ev, nil
}

func decodeIntBytes(b []byte) int64 {
	var v int64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | int64(b[i])
	}
	return v
}

func evalPostfix(inst *Instance, ps *ParserState) (*Value, error) {
	v, err := evalPrimary(inst, ps)
	if err != nil {
		return nil, err
	}
	for {
		switch ps.Peek().Kind {
		case TokLBracket:
			ps.Advance()
			idxV, err := evalExpr(inst, ps)
			if err != nil {
				return nil, err
			}
			if ps.Peek().Kind != TokRBracket {
				return nil, newFailure(ErrSyntax, ps.Position(), "expected ']'")
			}
			ps.Advance()
			if notExecuting(ps) {
				v = dummyInt(inst)
				continue
			}
			v, err = elementAt(inst, v, int(scalarInt(idxV)))
			if err != nil {
				return nil, err
			}
		case TokDot, TokArrow:
			arrow := ps.Peek().Kind == TokArrow
			ps.Advance()
			if ps.Peek().Kind != TokIdent {
				return nil, newFailure(ErrSyntax, ps.Position(), "expected member name")
			}
			member := ps.Advance().Text
			if notExecuting(ps) {
				v = dummyInt(inst)
				continue
			}
			base := v
			if arrow {
				base, err = dereference(inst, ps, v)
				if err != nil {
					return nil, err
				}
			}
			off := base.Type.MemberOffset(member)
			if off < 0 {
				return nil, newFailure(ErrType, ps.Position(), "no member named '%s'", member)
			}
			mType := base.Type.MemberType(member)
			mv := AllocValueShared(base, off, mType.Sizeof, mType)
			if !isAggregate(mType.Kind) {
				mv.Int = decodeIntBytes(base.Bytes[off : off+mType.Sizeof])
			}
			v = mv
		case TokPlusPlus, TokMinusMinus:
			incr := ps.Peek().Kind == TokPlusPlus
			ps.Advance()
			if notExecuting(ps) {
				continue
			}
			old := &Value{Type: v.Type, Int: v.Int, Float: v.Float, Pointer: v.Pointer}
			delta := int64(1)
			if !incr {
				delta = -1
			}
			if err := assignInto(inst, ps, v, &Value{Type: inst.Types.Int, Int: scalarInt(v) + delta}); err != nil {
				return nil, err
			}
			v = old
		case TokLParen:
			v, err = evalCall(inst, ps, v)
			if err != nil {
				return nil, err
			}
		default:
			return v, nil
		}
	}
}

func evalCall(inst *Instance, ps *ParserState, fn *Value) (*Value, error) {
	ps.Advance() // '('
	var args []*Value
	for ps.Peek().Kind != TokRParen {
		a, err := evalAssign(inst, ps)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if ps.Peek().Kind == TokComma {
			ps.Advance()
			continue
		}
		break
	}
	if ps.Peek().Kind != TokRParen {
		return nil, newFailure(ErrSyntax, ps.Position(), "expected ')'")
	}
	ps.Advance()
	if notExecuting(ps) {
		return dummyInt(inst), nil
	}
	if fn.Func == nil {
		return nil, newFailure(ErrType, ps.Position(), "value is not callable")
	}
	return CallFunction(inst, ps, fn, args)
}

func evalPrimary(inst *Instance, ps *ParserState) (*Value, error) {
	t := ps.Peek()
	switch t.Kind {
	case TokIntLiteral:
		ps.Advance()
		return &Value{Type: inst.Types.Int, Int: t.Int}, nil
	case TokCharLiteral:
		ps.Advance()
		return &Value{Type: inst.Types.Char, Int: t.Int}, nil
	case TokFloatLiteral:
		ps.Advance()
		return &Value{Type: inst.Types.Float, Float: t.Float}, nil
	case TokStringLiteral:
		ps.Advance()
		if notExecuting(ps) {
			return dummyInt(inst), nil
		}
		return StringLiteralDefine(inst, t.Text)
	case TokIdent:
		ps.Advance()
		if notExecuting(ps) {
			return dummyInt(inst), nil
		}
		name := inst.Interner.Register(t.Text)
		return VariableGet(inst, ps, name)
	case TokSizeof:
		ps.Advance()
		return evalSizeof(inst, ps)
	case TokLParen:
		ps.Advance()
		if kind, ok := peekTypeName(ps); ok {
			_ = kind
			typ, err := parseTypeName(inst, ps)
			if err != nil {
				return nil, err
			}
			if ps.Peek().Kind != TokRParen {
				return nil, newFailure(ErrSyntax, ps.Position(), "expected ')'")
			}
			ps.Advance()
			v, err := evalUnary(inst, ps)
			if err != nil || notExecuting(ps) {
				return v, err
			}
			return castValue(inst, v, typ), nil
		}
		v, err := evalExpr(inst, ps)
		if err != nil {
			return nil, err
		}
		if ps.Peek().Kind != TokRParen {
			return nil, newFailure(ErrSyntax, ps.Position(), "expected ')'")
		}
		ps.Advance()
		return v, nil
	default:
		return nil, newFailure(ErrSyntax, ps.Position(), "unexpected token in expression")
	}
}

func castValue(inst *Instance, v *Value, typ *Type) *Value {
	nv := &Value{Type: typ}
	switch typ.Kind {
	case KindFloat:
		nv.Float = scalarFloat(v)
	case KindPointer:
		nv.Pointer = coercePointer(inst, v)
	default:
		nv.Int = scalarInt(v)
	}
	return nv
}

func evalSizeof(inst *Instance, ps *ParserState) (*Value, error) {
	if ps.Peek().Kind == TokLParen {
		save := ps.Pos
		ps.Advance()
		if _, ok := peekTypeName(ps); ok {
			typ, err := parseTypeName(inst, ps)
			if err != nil {
				return nil, err
			}
			if ps.Peek().Kind != TokRParen {
				return nil, newFailure(ErrSyntax, ps.Position(), "expected ')'")
			}
			ps.Advance()
			return &Value{Type: inst.Types.Int, Int: int64(typ.Sizeof)}, nil
		}
		ps.Pos = save
	}
	v, err := evalUnary(inst, ps)
	if err != nil {
		return nil, err
	}
	if notExecuting(ps) {
		return dummyInt(inst), nil
	}
	return &Value{Type: inst.Types.Int, Int: int64(v.Type.Sizeof)}, nil
}
