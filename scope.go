package picoc

import "hash/fnv"

// GlobalScopeID is the sentinel scope-id for global variables and
// intrinsic-registration bindings, which are never hidden (spec §4.6).
const GlobalScopeID int64 = -1

// RootScopeID is the scope-id a ParserState starts at, whether at true
// file scope or at the top of a freshly pushed function-call frame. It is
// deliberately distinct from GlobalScopeID: EnterBlock treats
// GlobalScopeID as "there is no enclosing block, nothing to scope", so if
// a ParserState's initial scope were GlobalScopeID itself, the very first
// block it enters (an if/while/for body, or a function's own compound
// statement) would be mistaken for that same "no scoping needed" case and
// every block nested inside it would inherit the same mistake, silencing
// hide/revive for the entire block permanently.
const RootScopeID int64 = 0

// ComputeScopeID derives a deterministic scope-id for the lexical block
// starting at the given filename/token-cursor, so the same block re-entered
// during re-execution (e.g. a loop body reparsed each iteration) receives
// the same id every time.
//
// Per the Open Question resolution recorded in SPEC_FULL.md §9 and
// DESIGN.md, this replaces
// _examples/original_source/variable.cpp's
// `Parser->ScopeID = (int)(intptr_t)(Parser->SourceText) * ((int)(intptr_t)(Parser->Pos) / sizeof(char*))`
// — which can collide on 32-bit hosts — with a 64-bit FNV-1a hash of
// (filename, token cursor). Go has no source-text address to hash, and
// the token cursor is already a stable, source-order-derived integer, so
// hashing (filename, cursor) gives the same "same block ⇒ same id"
// guarantee without the multiplication's collision risk.
func ComputeScopeID(filename string, cursor int) int64 {
	h := fnv.New64a()
	h.Write([]byte(filename))
	h.Write([]byte{byte(cursor), byte(cursor >> 8), byte(cursor >> 16), byte(cursor >> 24),
		byte(cursor >> 32), byte(cursor >> 40), byte(cursor >> 48), byte(cursor >> 56)})
	id := int64(h.Sum64())
	if id == GlobalScopeID || id == RootScopeID {
		id++ // avoid colliding with either reserved sentinel
	}
	return id
}

// EnterBlock and ExitBlock implement spec §4.6's hide-on-exit/
// revive-on-entry contract against whichever symbol tables are currently
// relevant (globals alone at file scope, or locals-then-globals inside a
// function, per spec §4.6's table-selection rule).

// EnterBlock computes a new scope-id for the block starting at
// (filename, cursor), revives any variables previously hidden under that
// id in every currently-relevant table, and returns the new id plus the
// previous one for restoration on exit.
func EnterBlock(ps *ParserState, tables ...*SymbolTable) (newID, prevID int64) {
	prevID = ps.ScopeID
	if prevID == GlobalScopeID {
		return prevID, prevID
	}
	newID = ComputeScopeID(ps.Filename, ps.Pos)
	for _, t := range tables {
		if t != nil {
			t.Revive(newID)
		}
	}
	ps.ScopeID = newID
	return newID, prevID
}

// ExitBlock hides every variable whose scope-id equals id (that isn't
// already hidden) in every relevant table, then restores the parser's
// previous scope-id.
func ExitBlock(ps *ParserState, id, prevID int64, tables ...*SymbolTable) {
	if id == GlobalScopeID {
		return
	}
	for _, t := range tables {
		if t != nil {
			t.Hide(id)
		}
	}
	ps.ScopeID = prevID
}
