package picoc

// StackFrame delimits one function call's locals and return linkage, per
// spec §3's "Stack Frame" data model and
// _examples/original_source/variable.cpp's VariableStackFrameAdd/
// VariableStackFramePop.
type StackFrame struct {
	ReturnState ParserState // caller's parser state, restored on pop
	FuncName    *InternedString
	ReturnSlot  *Value
	Params      []*Value
	Locals      *SymbolTable
	Previous    *StackFrame
}

// PushFrame pushes a new arena stack frame and a fresh local symbol
// table, links it behind the current top frame, and makes it current.
// Mirrors VariableStackFrameAdd.
func (inst *Instance) PushFrame(ps *ParserState, funcName *InternedString, numParams int) (*StackFrame, error) {
	if _, err := inst.Arena.PushFrame(); err != nil {
		return nil, err
	}
	f := &StackFrame{
		ReturnState: ps.Copy(),
		FuncName:    funcName,
		Locals:      NewSymbolTable(LocalTableSize),
		Params:      make([]*Value, 0, numParams),
		Previous:    inst.TopFrame,
	}
	inst.TopFrame = f
	return f, nil
}

// PopFrame restores the caller's parser state, unlinks the top frame, and
// pops the arena's frame region. Mirrors VariableStackFramePop.
func (inst *Instance) PopFrame(ps *ParserState) error {
	if inst.TopFrame == nil {
		return newFailure(ErrResource, ps.Position(), "stack is empty - can't go back")
	}
	*ps = inst.TopFrame.ReturnState
	inst.TopFrame = inst.TopFrame.Previous
	return inst.Arena.PopFrame()
}

// CurrentTable returns the symbol table operations should target: the top
// frame's locals if one exists, otherwise globals, per spec §4.5/§4.6's
// table-selection rule.
func (inst *Instance) CurrentTable() *SymbolTable {
	if inst.TopFrame != nil {
		return inst.TopFrame.Locals
	}
	return inst.Globals
}

// ActiveTables returns the tables scope hide/revive operations must touch
// for the current call depth: just globals at file scope, or
// locals-then-globals inside a function.
func (inst *Instance) ActiveTables() []*SymbolTable {
	if inst.TopFrame != nil {
		return []*SymbolTable{inst.TopFrame.Locals, inst.Globals}
	}
	return []*SymbolTable{inst.Globals}
}
