package picoc

// This file is the single-pass statement parse-execute core of spec §4.7:
// each statement kind is parsed and, unless the current RunMode says
// otherwise, executed in the same walk. Grounded in shape on
// _examples/original_source/interpreter.h's ParseStatement dispatch (one
// case per keyword) though the actual body is new, since the source's
// setjmp/longjmp control flow has no Go equivalent worth imitating (spec
// Design Notes §9 / DESIGN.md's decision to propagate failures as errors).

// runSkipped runs fn with Mode forced to Skip for its duration (any other
// mode, CaseSearch and Goto included, is replaced), restoring afterward.
func runSkipped(ps *ParserState, fn func() error) error {
	old := ps.Mode
	if old != Skip {
		ps.Mode = Skip
	}
	err := fn()
	ps.Mode = old
	return err
}

func isRun(ps *ParserState) bool { return ps.Mode == Run }

// ParseAndExecuteTopLevel parses and executes one top-level construct: a
// declaration, function definition, or (rarely) a bare statement.
func ParseAndExecuteTopLevel(inst *Instance, ps *ParserState) error {
	return parseStatement(inst, ps)
}

func parseStatement(inst *Instance, ps *ParserState) error {
	if ps.DebugEnabled && !notExecuting(ps) {
		runDebugHook(inst, ps)
	}
	switch ps.Peek().Kind {
	case TokLBrace:
		return parseCompound(inst, ps)
	case TokSemicolon:
		ps.Advance()
		return nil
	case TokIf:
		return parseIf(inst, ps)
	case TokWhile:
		return parseWhile(inst, ps)
	case TokDo:
		return parseDoWhile(inst, ps)
	case TokFor:
		return parseFor(inst, ps)
	case TokReturn:
		return parseReturn(inst, ps)
	case TokBreak:
		ps.Advance()
		if ps.Peek().Kind != TokSemicolon {
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
		if isRun(ps) {
			ps.Mode = Break
		}
		return nil
	case TokContinue:
		ps.Advance()
		if ps.Peek().Kind != TokSemicolon {
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
		if isRun(ps) {
			ps.Mode = Continue
		}
		return nil
	case TokGoto:
		return parseGoto(inst, ps)
	case TokSwitch:
		return parseSwitch(inst, ps)
	case TokCase:
		return parseCaseLabel(inst, ps)
	case TokDefault:
		ps.Advance()
		if ps.Peek().Kind != TokColon {
			return newFailure(ErrSyntax, ps.Position(), "expected ':'")
		}
		ps.Advance()
		if ps.Mode == CaseSearch {
			ps.Mode = Run
		}
		return parseStatement(inst, ps)
	case TokIdent:
		if ps.Pos+1 < len(ps.Tokens) && ps.Tokens[ps.Pos+1].Kind == TokColon {
			labelTok := ps.Advance()
			ps.Advance() // ':'
			if ps.Mode == Goto && ps.SearchGotoLabel != nil && ps.SearchGotoLabel.Text == labelTok.Text {
				ps.Mode = Run
				ps.SearchGotoLabel = nil
				ps.GotoResolved = true
			}
			return parseStatement(inst, ps)
		}
		if _, ok := inst.Types.namedTypes[ps.Peek().Text]; ok {
			return parseDeclOrFuncDef(inst, ps)
		}
		return parseExprStatement(inst, ps)
	default:
		if isDeclStart(ps.Peek().Kind) {
			return parseDeclOrFuncDef(inst, ps)
		}
		return parseExprStatement(inst, ps)
	}
}

func parseExprStatement(inst *Instance, ps *ParserState) error {
	if ps.Peek().Kind != TokSemicolon {
		if _, err := evalExpr(inst, ps); err != nil {
			return err
		}
	}
	if ps.Peek().Kind != TokSemicolon {
		return newFailure(ErrSyntax, ps.Position(), "expected ';'")
	}
	ps.Advance()
	return nil
}

// parseCompound implements block scope: variables declared inside are
// hidden again on exit (spec §4.6). A Return/Break/Continue arising partway
// through causes the remaining statements to be skipped over (still
// token-scanned, never executed) rather than parsed normally, since none of
// those three can be resolved by anything later in this same block. Goto is
// different: the label it is searching for may be a later statement in
// this very block (forward) or may need this block re-walked from the
// labeled-statement's dispatch in parseStatement, which already turns
// non-matching statements into no-ops via notExecuting — so a Goto in
// flight lets the loop keep walking normally instead of jumping to the
// closing brace, and only stops naturally once the label flips it back to
// Run or the block runs out of statements.
func parseCompound(inst *Instance, ps *ParserState) error {
	if ps.Peek().Kind != TokLBrace {
		return newFailure(ErrSyntax, ps.Position(), "expected '{'")
	}
	ps.Advance()
	id, prevID := EnterBlock(ps, inst.ActiveTables()...)

	for ps.Peek().Kind != TokRBrace {
		if ps.Peek().Kind == TokEOF {
			return newFailure(ErrSyntax, ps.Position(), "unterminated block")
		}
		if err := parseStatement(inst, ps); err != nil {
			return err
		}
		switch ps.Mode {
		case Return, Break, Continue:
			skipToMatchingBrace(ps)
		}
		if ps.Mode == Return || ps.Mode == Break || ps.Mode == Continue {
			break
		}
	}
	if ps.Peek().Kind == TokRBrace {
		ps.Advance()
	}
	ExitBlock(ps, id, prevID, inst.ActiveTables()...)
	return nil
}

// skipToMatchingBrace advances ps past tokens (without executing) until it
// sits just before the '}' that closes the block whose '{' was already
// consumed by the caller.
func skipToMatchingBrace(ps *ParserState) {
	depth := 1
	for {
		switch ps.Peek().Kind {
		case TokEOF:
			return
		case TokLBrace:
			depth++
		case TokRBrace:
			depth--
			if depth == 0 {
				return
			}
		}
		ps.Advance()
	}
}

func parseIf(inst *Instance, ps *ParserState) error {
	ps.Advance()
	if ps.Peek().Kind != TokLParen {
		return newFailure(ErrSyntax, ps.Position(), "expected '('")
	}
	ps.Advance()
	cond, err := evalExpr(inst, ps)
	if err != nil {
		return err
	}
	if ps.Peek().Kind != TokRParen {
		return newFailure(ErrSyntax, ps.Position(), "expected ')'")
	}
	ps.Advance()

	takeThen := isRun(ps) && truthy(cond)
	if takeThen {
		if err := parseStatement(inst, ps); err != nil {
			return err
		}
	} else if err := runSkipped(ps, func() error { return parseStatement(inst, ps) }); err != nil {
		return err
	}

	if ps.Peek().Kind == TokElse {
		ps.Advance()
		if isRun(ps) && !takeThen {
			if err := parseStatement(inst, ps); err != nil {
				return err
			}
		} else if err := runSkipped(ps, func() error { return parseStatement(inst, ps) }); err != nil {
			return err
		}
	}
	return nil
}

func parseReturn(inst *Instance, ps *ParserState) error {
	ps.Advance()
	var retVal *Value
	if ps.Peek().Kind != TokSemicolon {
		v, err := evalExpr(inst, ps)
		if err != nil {
			return err
		}
		retVal = v
	}
	if ps.Peek().Kind != TokSemicolon {
		return newFailure(ErrSyntax, ps.Position(), "expected ';'")
	}
	ps.Advance()
	if isRun(ps) {
		ps.Mode = Return
		if inst.TopFrame != nil {
			inst.TopFrame.ReturnSlot = retVal
		}
	}
	return nil
}

func parseGoto(inst *Instance, ps *ParserState) error {
	ps.Advance()
	if ps.Peek().Kind != TokIdent {
		return newFailure(ErrSyntax, ps.Position(), "expected a label")
	}
	labelTok := ps.Advance()
	if ps.Peek().Kind != TokSemicolon {
		return newFailure(ErrSyntax, ps.Position(), "expected ';'")
	}
	ps.Advance()
	if isRun(ps) {
		ps.Mode = Goto
		ps.SearchGotoLabel = inst.Interner.Register(labelTok.Text)
	}
	return nil
}

func parseWhile(inst *Instance, ps *ParserState) error {
	ps.Advance()
	if ps.Peek().Kind != TokLParen {
		return newFailure(ErrSyntax, ps.Position(), "expected '('")
	}
	ps.Advance()
	condStart := ps.Pos
	for {
		ps.Pos = condStart
		cond, err := evalExpr(inst, ps)
		if err != nil {
			return err
		}
		if ps.Peek().Kind != TokRParen {
			return newFailure(ErrSyntax, ps.Position(), "expected ')'")
		}
		ps.Advance()

		run := isRun(ps) && truthy(cond)
		if run {
			if err := parseStatement(inst, ps); err != nil {
				return err
			}
		} else {
			if err := runSkipped(ps, func() error { return parseStatement(inst, ps) }); err != nil {
				return err
			}
			return nil
		}
		switch ps.Mode {
		case Break:
			ps.Mode = Run
			return nil
		case Continue:
			ps.Mode = Run
			continue
		case Return, Goto:
			return nil
		}
	}
}

func parseDoWhile(inst *Instance, ps *ParserState) error {
	ps.Advance() // 'do'
	bodyStart := ps.Pos
	for {
		ps.Pos = bodyStart
		if err := parseStatement(inst, ps); err != nil {
			return err
		}
		switch ps.Mode {
		case Break:
			ps.Mode = Run
			return skipWhileTail(ps)
		case Continue:
			ps.Mode = Run
		case Return, Goto:
			return nil
		}
		if ps.Peek().Kind != TokWhile {
			return newFailure(ErrSyntax, ps.Position(), "expected 'while'")
		}
		ps.Advance()
		if ps.Peek().Kind != TokLParen {
			return newFailure(ErrSyntax, ps.Position(), "expected '('")
		}
		ps.Advance()
		cond, err := evalExpr(inst, ps)
		if err != nil {
			return err
		}
		if ps.Peek().Kind != TokRParen {
			return newFailure(ErrSyntax, ps.Position(), "expected ')'")
		}
		ps.Advance()
		if ps.Peek().Kind != TokSemicolon {
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
		if !(isRun(ps) && truthy(cond)) {
			return nil
		}
	}
}

func skipWhileTail(ps *ParserState) error {
	if ps.Peek().Kind != TokWhile {
		return newFailure(ErrSyntax, ps.Position(), "expected 'while'")
	}
	ps.Advance()
	if ps.Peek().Kind != TokLParen {
		return newFailure(ErrSyntax, ps.Position(), "expected '('")
	}
	ps.Advance()
	depth := 1
	for depth > 0 {
		switch ps.Peek().Kind {
		case TokLParen:
			depth++
		case TokRParen:
			depth--
		case TokEOF:
			return newFailure(ErrSyntax, ps.Position(), "unterminated do/while")
		}
		ps.Advance()
	}
	if ps.Peek().Kind != TokSemicolon {
		return newFailure(ErrSyntax, ps.Position(), "expected ';'")
	}
	ps.Advance()
	return nil
}

func skipToForHeaderClose(ps *ParserState) error {
	depth := 0
	for {
		switch ps.Peek().Kind {
		case TokLParen:
			depth++
		case TokRParen:
			if depth == 0 {
				return nil
			}
			depth--
		case TokEOF:
			return newFailure(ErrSyntax, ps.Position(), "unterminated for statement")
		}
		ps.Advance()
	}
}

func parseFor(inst *Instance, ps *ParserState) error {
	ps.Advance()
	if ps.Peek().Kind != TokLParen {
		return newFailure(ErrSyntax, ps.Position(), "expected '('")
	}
	ps.Advance()
	id, prevID := EnterBlock(ps, inst.ActiveTables()...)

	if ps.Peek().Kind == TokSemicolon {
		ps.Advance()
	} else if isDeclStart(ps.Peek().Kind) {
		if err := parseDeclOrFuncDef(inst, ps); err != nil {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return err
		}
	} else {
		if _, err := evalExpr(inst, ps); err != nil {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return err
		}
		if ps.Peek().Kind != TokSemicolon {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
	}

	condStart := ps.Pos
	for {
		ps.Pos = condStart
		var cond *Value
		var err error
		if ps.Peek().Kind != TokSemicolon {
			cond, err = evalExpr(inst, ps)
			if err != nil {
				ExitBlock(ps, id, prevID, inst.ActiveTables()...)
				return err
			}
		} else {
			cond = boolValue(inst, true)
		}
		if ps.Peek().Kind != TokSemicolon {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return newFailure(ErrSyntax, ps.Position(), "expected ';'")
		}
		ps.Advance()
		postStart := ps.Pos

		if err := skipToForHeaderClose(ps); err != nil {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return err
		}
		if ps.Peek().Kind != TokRParen {
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return newFailure(ErrSyntax, ps.Position(), "expected ')'")
		}
		ps.Advance()

		run := isRun(ps) && truthy(cond)
		if run {
			if err := parseStatement(inst, ps); err != nil {
				ExitBlock(ps, id, prevID, inst.ActiveTables()...)
				return err
			}
		} else {
			if err := runSkipped(ps, func() error { return parseStatement(inst, ps) }); err != nil {
				ExitBlock(ps, id, prevID, inst.ActiveTables()...)
				return err
			}
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return nil
		}

		switch ps.Mode {
		case Break:
			ps.Mode = Run
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return nil
		case Return, Goto:
			ExitBlock(ps, id, prevID, inst.ActiveTables()...)
			return nil
		case Continue:
			ps.Mode = Run
		}

		ps.Pos = postStart
		if ps.Peek().Kind != TokRParen {
			if _, err := evalExpr(inst, ps); err != nil {
				ExitBlock(ps, id, prevID, inst.ActiveTables()...)
				return err
			}
		}
	}
}

func parseSwitch(inst *Instance, ps *ParserState) error {
	ps.Advance()
	if ps.Peek().Kind != TokLParen {
		return newFailure(ErrSyntax, ps.Position(), "expected '('")
	}
	ps.Advance()
	val, err := evalExpr(inst, ps)
	if err != nil {
		return err
	}
	if ps.Peek().Kind != TokRParen {
		return newFailure(ErrSyntax, ps.Position(), "expected ')'")
	}
	ps.Advance()

	if !isRun(ps) {
		return runSkipped(ps, func() error { return parseStatement(inst, ps) })
	}

	old := ps.Mode
	oldLabel := ps.SearchLabel
	ps.Mode = CaseSearch
	ps.SearchLabel = val
	if err := parseStatement(inst, ps); err != nil {
		return err
	}
	if ps.Mode == Break || ps.Mode == CaseSearch {
		ps.Mode = old
	}
	ps.SearchLabel = oldLabel
	return nil
}

func parseCaseLabel(inst *Instance, ps *ParserState) error {
	ps.Advance()
	inSearch := ps.Mode == CaseSearch
	origMode := ps.Mode
	if inSearch {
		ps.Mode = Run
	}
	constVal, err := evalExpr(inst, ps)
	if inSearch {
		ps.Mode = origMode
	}
	if err != nil {
		return err
	}
	if ps.Peek().Kind != TokColon {
		return newFailure(ErrSyntax, ps.Position(), "expected ':'")
	}
	ps.Advance()
	if ps.Mode == CaseSearch && ps.SearchLabel != nil && scalarInt(constVal) == scalarInt(ps.SearchLabel) {
		ps.Mode = Run
	}
	return parseStatement(inst, ps)
}
