package picoc

import "fmt"

// debug.go implements the debug surface named in spec §6: a breakpoint
// table keyed by (file, line, column) and a per-statement hook that checks
// the current parser position against it. No file in the teacher or the
// rest of the pack implements a debugger, so this has no example to
// imitate directly; it is built on the same SymbolTable/DeclSite this
// module already uses for scoped variables (symtab.go, vars.go), keying a
// breakpoint by an interned "file:line:column" string.

// DebugHook is called by runDebugHook before a statement executes, when
// ParserState.DebugEnabled is set and the statement's start matches a set
// breakpoint. Its return value is not read by the parser loop; this
// module does not itself suspend execution — it defers that policy
// decision to the host, the same "mechanism not policy" split the source
// leaves to its own debugger.c.
type DebugHook func(inst *Instance, ps *ParserState) (stop bool)

func breakpointKey(site DeclSite) string {
	return fmt.Sprintf("%s:%d:%d", site.Filename, site.Line, site.Column)
}

// SetBreakpoint records a stop point at the given source location, per
// spec §6's `debug-set-breakpoint`. Re-setting the same location is a
// no-op rather than an error, since a host toggling breakpoints from a UI
// has no reason to track whether one is already present.
func (inst *Instance) SetBreakpoint(filename string, line, column int) {
	site := DeclSite{Filename: filename, Line: line, Column: column}
	key := inst.Interner.Register(breakpointKey(site))
	if _, ok := inst.Breakpoints.Get(key); ok {
		return
	}
	inst.Breakpoints.Set(key, GlobalScopeID, site, true)
}

// ClearBreakpoint removes a previously set breakpoint, a no-op if none was
// set at that location.
func (inst *Instance) ClearBreakpoint(filename string, line, column int) {
	site := DeclSite{Filename: filename, Line: line, Column: column}
	inst.Breakpoints.Delete(inst.Interner.Register(breakpointKey(site)))
}

// AtBreakpoint reports whether the parser's current position matches a
// set breakpoint. runDebugHook calls this once per statement start when
// ps.DebugEnabled is set and a DebugHook is installed, mirroring the source's per-statement DebugCheckStatement
// hook (original_source/debug.cpp).
func (inst *Instance) AtBreakpoint(ps *ParserState) bool {
	key := inst.Interner.Register(breakpointKey(DeclSite{Filename: ps.Filename, Line: ps.Line, Column: ps.Column}))
	_, ok := inst.Breakpoints.Get(key)
	return ok
}

// runDebugHook is called from the statement loop; it is a no-op unless
// both DebugEnabled is set on the parser state and the host has installed
// a hook via Config.
func runDebugHook(inst *Instance, ps *ParserState) {
	if !ps.DebugEnabled || inst.Config.DebugHook == nil {
		return
	}
	if inst.AtBreakpoint(ps) {
		inst.Config.DebugHook(inst, ps)
	}
}
