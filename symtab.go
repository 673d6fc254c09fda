package picoc

// Bucket-count constants per spec §4.2. Go's map does not actually bucket
// by these sizes (they were a real concern for the C source's fixed-size
// hash arrays, not for Go's built-in map), but they are kept as named
// constants and passed through NewSymbolTable so the table's declared
// capacity documents intent the way the source's per-use-site sizing did,
// and so a future non-map backing (e.g. a true open-addressing table) has
// a size to start from.
const (
	GlobalTableSize        = 97
	LocalTableSize         = 11
	StructMemberTableSize  = 11
	ReservedWordTableSize  = 97
	StringLiteralTableSize = 97
	BreakpointTableSize    = 21
)

// SymbolEntry is one binding in a SymbolTable: an interned key, its
// declaration site, and a payload. Purpose-specific payloads (variable
// Value, string-literal Value, breakpoint record) are stored via the
// generic Payload field per table purpose, per spec §3.
type SymbolEntry struct {
	Key      *InternedString
	Site     DeclSite
	ScopeID  int64
	Payload  interface{}
}

// DeclSite is the exact source location a declaration occurred at, used by
// define-but-ignore-identical (spec §4.5) to recognize re-execution of the
// very same declaration versus a genuine redeclaration.
type DeclSite struct {
	Filename string
	Line     int
	Column   int
}

func (a DeclSite) equals(b DeclSite) bool {
	return a.Filename == b.Filename && a.Line == b.Line && a.Column == b.Column
}

// SymbolTable is a fixed-purpose symbol table with scope-based hide/revive
// support. Per Design Notes §9 ("Out-of-scope marking via key tagging"),
// this replaces the source's LSB-tag hash-perturbation hack with a
// straightforward live/shadowed split: hidden entries move out of `live`
// into `shadowed[scopeID]` and back, so lookups never need to special-case
// a tagged key.
type SymbolTable struct {
	live     map[*InternedString]*SymbolEntry
	shadowed map[int64][]*SymbolEntry
}

// NewSymbolTable creates an empty table. size is retained only as
// documentation of the table's intended scale (see the constants above).
func NewSymbolTable(size int) *SymbolTable {
	return &SymbolTable{
		live:     make(map[*InternedString]*SymbolEntry),
		shadowed: make(map[int64][]*SymbolEntry),
	}
}

// Set binds key to payload at site. Fails ("already defined") if key is
// already live in this table.
func (t *SymbolTable) Set(key *InternedString, scopeID int64, site DeclSite, payload interface{}) (*SymbolEntry, error) {
	if _, exists := t.live[key]; exists {
		return nil, newFailure(ErrName, nil, "'%s' is already defined", key.Text)
	}
	e := &SymbolEntry{Key: key, Site: site, ScopeID: scopeID, Payload: payload}
	t.live[key] = e
	return e, nil
}

// Get returns the live entry for key, or (nil, false).
func (t *SymbolTable) Get(key *InternedString) (*SymbolEntry, bool) {
	e, ok := t.live[key]
	return e, ok
}

// Delete removes key from the live set entirely (used to replace or drop a
// single binding, e.g. Define's same-site replacement and ClearBreakpoint;
// scope hiding uses Hide instead, and Cleanup replaces whole tables).
func (t *SymbolTable) Delete(key *InternedString) {
	delete(t.live, key)
}

// IsShadowed reports whether key exists in some shadowed scope, i.e. it
// was defined but is currently out of scope — used to distinguish "never
// defined" from "defined but out of scope" per spec §4.6.
func (t *SymbolTable) IsShadowed(key *InternedString) bool {
	for _, entries := range t.shadowed {
		for _, e := range entries {
			if e.Key == key {
				return true
			}
		}
	}
	return false
}

// Hide moves every live entry whose ScopeID equals scopeID out of the live
// map and into the shadowed set for that scope-id, per spec §4.6. A
// variable entry's underlying Value is also marked OutOfScope, so a pointer
// that already captured it (rather than looking it up by name again) can
// still detect the access as invalid per spec §4.6's scenario 6.
func (t *SymbolTable) Hide(scopeID int64) {
	var moved []*SymbolEntry
	for k, e := range t.live {
		if e.ScopeID == scopeID {
			if v, ok := e.Payload.(*Value); ok {
				v.OutOfScope = true
			}
			moved = append(moved, e)
			delete(t.live, k)
		}
	}
	if len(moved) > 0 {
		t.shadowed[scopeID] = append(t.shadowed[scopeID], moved...)
	}
}

// Revive moves every entry shadowed under scopeID back into the live map,
// clearing OutOfScope on its Value so it reads normally again.
func (t *SymbolTable) Revive(scopeID int64) {
	entries, ok := t.shadowed[scopeID]
	if !ok {
		return
	}
	for _, e := range entries {
		if v, ok := e.Payload.(*Value); ok {
			v.OutOfScope = false
		}
		t.live[e.Key] = e
	}
	delete(t.shadowed, scopeID)
}

// Each iterates every live entry, used by table cleanup (§4.9).
func (t *SymbolTable) Each(fn func(*SymbolEntry)) {
	for _, e := range t.live {
		fn(e)
	}
}
