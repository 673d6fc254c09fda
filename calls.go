package picoc

// CallFunction invokes a function value, either running its native
// Intrinsic entry point directly or pushing a frame, binding parameters,
// and executing the stored body token range, per spec §4.7's function-call
// contract and _examples/original_source/variable.cpp's
// VariableStackFrameAdd/VariableStackFramePop pairing.
func CallFunction(inst *Instance, ps *ParserState, fnVal *Value, args []*Value) (*Value, error) {
	def := fnVal.Func
	if def == nil {
		return nil, newFailure(ErrType, ps.Position(), "value is not callable")
	}
	if def.IsIntrinsic() {
		return def.Intrinsic(inst, ps, args)
	}

	frame, err := inst.PushFrame(ps, def.Name, len(def.ParamNames))
	if err != nil {
		return nil, err
	}

	// ScopeID starts at 0, not GlobalScopeID: EnterBlock treats
	// GlobalScopeID specially as "no enclosing block, nothing to scope",
	// which is right for top-level statements but would wrongly suppress
	// hide/revive for every block nested in this function body. Parameters
	// are bound below with an explicit GlobalScopeID so they are never
	// hidden regardless of how the body's blocks nest.
	callPS := &ParserState{
		Tokens:   ps.Tokens,
		Pos:      def.BodyStart,
		Filename: ps.Filename,
		ScopeID:  0,
		Mode:     Run,
	}

	for i, pname := range def.ParamNames {
		var ptyp *Type
		if i < len(def.ParamTypes) {
			ptyp = def.ParamTypes[i]
		} else {
			ptyp = inst.Types.Int
		}
		var initFrom *Value
		if i < len(args) {
			initFrom = args[i]
		}
		pv, err := allocFor(inst, callPS, ptyp, initFrom, false)
		if err != nil {
			inst.PopFrame(ps)
			return nil, err
		}
		pv.ScopeID = GlobalScopeID // parameters live for the whole call, never hidden by block scoping
		if _, err := frame.Locals.Set(pname, GlobalScopeID, DeclSite{Filename: "<params>"}, pv); err != nil {
			inst.PopFrame(ps)
			return nil, err
		}
		frame.Params = append(frame.Params, pv)
	}

	if err := parseCompound(inst, callPS); err != nil {
		inst.PopFrame(ps)
		return nil, err
	}
	// A goto whose label sits earlier in the body than the goto itself can
	// never be found by parseCompound's single forward walk: once a
	// statement's tokens are behind the cursor they are not revisited. Per
	// spec §4.7, the search covers the whole enclosing function, forward or
	// backward, so re-walk the body from its start whenever it comes back
	// still searching. GotoResolved distinguishes a pass that matched the
	// label at some point (and only ended in Goto again because the matched
	// code went on to issue a fresh goto of its own, e.g. a goto-based loop)
	// from a pass that never matched it at all, which means the label does
	// not exist anywhere in this function.
	for callPS.Mode == Goto {
		callPS.Pos = def.BodyStart
		callPS.GotoResolved = false
		if err := parseCompound(inst, callPS); err != nil {
			inst.PopFrame(ps)
			return nil, err
		}
		if callPS.Mode == Goto && !callPS.GotoResolved {
			inst.PopFrame(ps)
			return nil, newFailure(ErrName, ps.Position(), "'%s' undeclared label", callPS.SearchGotoLabel.Text)
		}
	}

	result := frame.ReturnSlot
	if err := inst.PopFrame(ps); err != nil {
		return nil, err
	}
	if result == nil {
		result = &Value{Type: inst.Types.Void}
	}
	return result, nil
}
