package picoc

// This file implements spec §4.4's declarator grammar: a "front" (base
// type keywords, possibly a struct/union/enum body), an "ident-part"
// (pointer stars then a name), and a "back" (array brackets), grounded on
// _examples/original_source/type.cpp's StructUnionParse layout algorithm
// (already ported onto Type in types.go) for the aggregate-body case.

func isTypeStartToken(k TokenKind) bool {
	switch k {
	case TokInt, TokChar, TokVoid, TokShort, TokLong, TokUnsigned, TokSigned,
		TokFloatKw, TokStruct, TokUnion, TokEnum:
		return true
	}
	return false
}

func isDeclStart(k TokenKind) bool {
	return k == TokStatic || k == TokTypedef || isTypeStartToken(k)
}

// peekTypeName reports whether the parser is sitting at the start of a
// type-name (used to disambiguate a cast or sizeof(type) from a plain
// parenthesized expression).
func peekTypeName(ps *ParserState) (TokenKind, bool) {
	k := ps.Peek().Kind
	return k, isTypeStartToken(k)
}

// parseTypeName parses a base type followed by any number of pointer
// stars, e.g. for a cast "(int *)" or "sizeof(struct Point *)".
func parseTypeName(inst *Instance, ps *ParserState) (*Type, error) {
	base, err := parseBaseType(inst, ps)
	if err != nil {
		return nil, err
	}
	for ps.Peek().Kind == TokStar {
		ps.Advance()
		base = inst.Types.PointerTo(base)
	}
	return base, nil
}

// parseBaseType consumes the "front" of a declarator: the base type
// keyword(s), or a struct/union/enum tag with an optional inline body.
func parseBaseType(inst *Instance, ps *ParserState) (*Type, error) {
	switch ps.Peek().Kind {
	case TokVoid:
		ps.Advance()
		return inst.Types.Void, nil
	case TokChar:
		ps.Advance()
		return inst.Types.Char, nil
	case TokShort:
		ps.Advance()
		if ps.Peek().Kind == TokInt {
			ps.Advance()
		}
		return inst.Types.Short, nil
	case TokInt:
		ps.Advance()
		return inst.Types.Int, nil
	case TokLong:
		ps.Advance()
		if ps.Peek().Kind == TokInt {
			ps.Advance()
		}
		return inst.Types.Long, nil
	case TokFloatKw:
		ps.Advance()
		return inst.Types.Float, nil
	case TokSigned:
		ps.Advance()
		return parseBaseType(inst, ps)
	case TokUnsigned:
		ps.Advance()
		switch ps.Peek().Kind {
		case TokChar:
			ps.Advance()
			return inst.Types.UChar, nil
		case TokShort:
			ps.Advance()
			if ps.Peek().Kind == TokInt {
				ps.Advance()
			}
			return inst.Types.UShort, nil
		case TokLong:
			ps.Advance()
			if ps.Peek().Kind == TokInt {
				ps.Advance()
			}
			return inst.Types.ULong, nil
		case TokInt:
			ps.Advance()
			return inst.Types.UInt, nil
		default:
			return inst.Types.UInt, nil
		}
	case TokStruct, TokUnion:
		return parseStructOrUnion(inst, ps)
	case TokEnum:
		return parseEnum(inst, ps)
	case TokIdent:
		if t, ok := inst.Types.namedTypes[ps.Peek().Text]; ok {
			ps.Advance()
			return t, nil
		}
		return nil, newFailure(ErrSyntax, ps.Position(), "expected a type")
	default:
		return nil, newFailure(ErrSyntax, ps.Position(), "expected a type")
	}
}

func parseStructOrUnion(inst *Instance, ps *ParserState) (*Type, error) {
	kind := KindStruct
	if ps.Peek().Kind == TokUnion {
		kind = KindUnion
	}
	ps.Advance()
	if ps.Peek().Kind != TokIdent {
		return nil, newFailure(ErrSyntax, ps.Position(), "expected a struct/union tag")
	}
	tag := ps.Advance().Text
	typ := inst.Types.NamedAggregate(kind, inst.Interner.Register(tag))

	if ps.Peek().Kind != TokLBrace {
		return typ, nil
	}
	ps.Advance()
	if typ.Members != nil {
		return nil, newFailure(ErrType, ps.Position(), "'%s' is already defined", tag)
	}
	typ.BeginStructLayout()
	for ps.Peek().Kind != TokRBrace {
		memberBase, err := parseBaseType(inst, ps)
		if err != nil {
			return nil, err
		}
		for {
			mType, nameTok, err := parseDeclarator(inst, ps, memberBase)
			if err != nil {
				return nil, err
			}
			typ.AddMember(nameTok.Text, mType)
			if ps.Peek().Kind == TokComma {
				ps.Advance()
				continue
			}
			break
		}
		if ps.Peek().Kind != TokSemicolon {
			return nil, newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
	}
	ps.Advance() // '}'
	typ.FinishStructLayout()
	return typ, nil
}

func parseEnum(inst *Instance, ps *ParserState) (*Type, error) {
	ps.Advance()
	var typ *Type
	if ps.Peek().Kind == TokIdent {
		tag := ps.Advance().Text
		typ = inst.Types.NamedAggregate(KindEnum, inst.Interner.Register(tag))
	} else {
		typ = inst.Types.GetOrCreate(inst.Types.Uber, KindEnum, 0, inst.Interner.Empty())
	}
	if ps.Peek().Kind != TokLBrace {
		return typ, nil
	}
	ps.Advance()
	var next int64
	for ps.Peek().Kind != TokRBrace {
		if ps.Peek().Kind != TokIdent {
			return nil, newFailure(ErrSyntax, ps.Position(), "expected an enum constant")
		}
		nameTok := ps.Advance()
		if ps.Peek().Kind == TokAssign {
			ps.Advance()
			v, err := evalAssign(inst, ps)
			if err != nil {
				return nil, err
			}
			next = scalarInt(v)
		}
		if !notExecuting(ps) {
			key := inst.Interner.Register(nameTok.Text)
			site := DeclSite{Filename: ps.Filename, Line: nameTok.Line, Column: nameTok.Column}
			cv := &Value{Type: inst.Types.Int, Int: next}
			if _, err := inst.Globals.Set(key, GlobalScopeID, site, cv); err != nil {
				return nil, err
			}
		}
		next++
		if ps.Peek().Kind == TokComma {
			ps.Advance()
			continue
		}
		break
	}
	if ps.Peek().Kind != TokRBrace {
		return nil, newFailure(ErrSyntax, ps.Position(), "expected '}'")
	}
	ps.Advance()
	return typ, nil
}

// parseDeclarator consumes the "ident-part" (pointer stars, then a name)
// and the "back" (array brackets) of one declarator, returning the fully
// derived type and the identifier token.
func parseDeclarator(inst *Instance, ps *ParserState, base *Type) (*Type, Token, error) {
	typ := base
	for ps.Peek().Kind == TokStar {
		ps.Advance()
		typ = inst.Types.PointerTo(typ)
	}
	if ps.Peek().Kind != TokIdent {
		return nil, Token{}, newFailure(ErrSyntax, ps.Position(), "expected an identifier")
	}
	nameTok := ps.Advance()
	for ps.Peek().Kind == TokLBracket {
		ps.Advance()
		size := 0
		if ps.Peek().Kind == TokIntLiteral {
			size = int(ps.Advance().Int)
		}
		if ps.Peek().Kind != TokRBracket {
			return nil, Token{}, newFailure(ErrSyntax, ps.Position(), "expected ']'")
		}
		ps.Advance()
		typ = inst.Types.ArrayOf(typ, size)
	}
	return typ, nameTok, nil
}

// parseDeclOrFuncDef parses one top-level or block-scope declaration
// statement: a variable declaration list (with optional initializers) or
// a function definition, per spec §4.4/§4.7.
func parseDeclOrFuncDef(inst *Instance, ps *ParserState) error {
	isStatic := false
	if ps.Peek().Kind == TokStatic {
		isStatic = true
		ps.Advance()
	}
	if ps.Peek().Kind == TokTypedef {
		ps.Advance()
		base, err := parseBaseType(inst, ps)
		if err != nil {
			return err
		}
		typ, nameTok, err := parseDeclarator(inst, ps, base)
		if err != nil {
			return err
		}
		if !notExecuting(ps) {
			inst.Types.namedTypes[nameTok.Text] = typ
		}
		if ps.Peek().Kind != TokSemicolon {
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
		return nil
	}

	base, err := parseBaseType(inst, ps)
	if err != nil {
		return err
	}
	if ps.Peek().Kind == TokSemicolon {
		// a bare "struct Foo;" forward declaration or "enum { ... };"
		ps.Advance()
		return nil
	}

	for {
		typ, nameTok, err := parseDeclarator(inst, ps, base)
		if err != nil {
			return err
		}
		if ps.Peek().Kind == TokLParen {
			return parseFunctionRest(inst, ps, typ, nameTok, isStatic)
		}

		name := inst.Interner.Register(nameTok.Text)

		// A static local's initializer runs for effect only the first time
		// its declaration statement executes (spec §4.5); every later visit
		// still has to parse past the initializer expression, just without
		// evaluating it for real.
		firstVisit := true
		if isStatic && !notExecuting(ps) {
			fv, err := StaticLocalIsFirstVisit(inst, ps, name)
			if err != nil {
				return err
			}
			firstVisit = fv
		}

		var initFrom *Value
		if ps.Peek().Kind == TokAssign {
			ps.Advance()
			if isStatic && !firstVisit {
				if err := runSkipped(ps, func() error {
					_, err := evalAssign(inst, ps)
					return err
				}); err != nil {
					return err
				}
			} else {
				v, err := evalAssign(inst, ps)
				if err != nil {
					return err
				}
				initFrom = v
			}
		}
		if !notExecuting(ps) {
			if isStatic {
				if _, err := DefineButIgnoreIdentical(inst, ps, name, typ, initFrom); err != nil {
					return err
				}
			} else {
				if _, err := Define(inst, ps, name, typ, initFrom); err != nil {
					return err
				}
			}
		}
		if ps.Peek().Kind == TokComma {
			ps.Advance()
			continue
		}
		break
	}
	if ps.Peek().Kind != TokSemicolon {
		return newFailure(ErrSyntax, ps.Position(), "expected ';'")
	}
	ps.Advance()
	return nil
}

// parseFunctionRest parses a parameter list and either a prototype
// semicolon or a body, registering a scripted FuncDef whose body is a
// stored token range (spec §3's FuncDef, §4.7's "function bodies are
// parsed once and executed on call").
func parseFunctionRest(inst *Instance, ps *ParserState, retType *Type, nameTok Token, isStatic bool) error {
	ps.Advance() // '('
	var paramNames []*InternedString
	var paramTypes []*Type
	if ps.Peek().Kind == TokVoid {
		// tolerate "(void)" with no following identifier
		save := ps.Pos
		ps.Advance()
		if ps.Peek().Kind != TokRParen {
			ps.Pos = save
		}
	}
	for ps.Peek().Kind != TokRParen {
		pbase, err := parseBaseType(inst, ps)
		if err != nil {
			return err
		}
		ptyp, pnameTok, err := parseDeclarator(inst, ps, pbase)
		if err != nil {
			return err
		}
		paramTypes = append(paramTypes, ptyp)
		paramNames = append(paramNames, inst.Interner.Register(pnameTok.Text))
		if ps.Peek().Kind == TokComma {
			ps.Advance()
			continue
		}
		break
	}
	if ps.Peek().Kind != TokRParen {
		return newFailure(ErrSyntax, ps.Position(), "expected ')'")
	}
	ps.Advance()

	if ps.Peek().Kind == TokSemicolon {
		ps.Advance() // a prototype; nothing further to bind
		return nil
	}
	if ps.Peek().Kind != TokLBrace {
		return newFailure(ErrSyntax, ps.Position(), "expected a function body")
	}
	bodyStart := ps.Pos
	depth := 0
	cursor := ps.Pos
	for {
		k := ps.Tokens[cursor].Kind
		if k == TokLBrace {
			depth++
		}
		if k == TokRBrace {
			depth--
			if depth == 0 {
				cursor++
				break
			}
		}
		if k == TokEOF {
			return newFailure(ErrSyntax, ps.Position(), "unterminated function body")
		}
		cursor++
	}
	bodyEnd := cursor

	if !notExecuting(ps) {
		name := inst.Interner.Register(nameTok.Text)
		def := &FuncDef{Name: name, ParamNames: paramNames, ParamTypes: paramTypes, ReturnType: retType, BodyStart: bodyStart, BodyEnd: bodyEnd}
		v := &Value{Type: inst.Types.Function, Storage: HeapContiguous, ScopeID: GlobalScopeID, Func: def}
		site := DeclSite{Filename: ps.Filename, Line: nameTok.Line, Column: nameTok.Column}
		if existing, ok := inst.Globals.Get(name); ok {
			if fd, ok := existing.Payload.(*Value); ok && fd.Func != nil && fd.Func.BodyStart == 0 && fd.Func.BodyEnd == 0 && fd.Func.Intrinsic == nil {
				// a prior prototype-only entry; replace it with the real body.
				inst.Globals.Delete(name)
			}
		}
		if _, err := inst.Globals.Set(name, GlobalScopeID, site, v); err != nil {
			return err
		}
	}
	ps.Pos = bodyEnd
	return nil
}
