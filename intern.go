package picoc

// InternedString is the canonical handle for a registered character
// sequence. Two identifiers compare equal iff their *InternedString
// pointers are equal (§8 invariant 1) — the whole reason for interning is
// to turn identifier comparison into a pointer compare instead of a
// byte-for-byte one at every lookup.
//
// Grounded on spec §3's "Interned String" (a table entry whose key bytes
// are the canonical pointer) and _examples/original_source/variable.cpp's
// TableStrRegister/VariableStringLiteralGet usage. Go strings are already
// value types with structural equality, so there is no address to expose;
// the handle plays the same functional role the source's raw pointer did.
type InternedString struct {
	Text string
}

// Interner deduplicates character sequences into canonical *InternedString
// handles.
type Interner struct {
	table map[string]*InternedString
	empty *InternedString
}

// NewInterner creates an interner with its dedicated empty-string sentinel
// pre-registered, matching spec §4.2 ("the empty string has a dedicated
// canonical sentinel held on the Instance").
func NewInterner() *Interner {
	in := &Interner{table: make(map[string]*InternedString)}
	in.empty = &InternedString{Text: ""}
	in.table[""] = in.empty
	return in
}

// Register returns the canonical handle for text, creating one on first
// sight.
func (in *Interner) Register(text string) *InternedString {
	if s, ok := in.table[text]; ok {
		return s
	}
	s := &InternedString{Text: text}
	in.table[text] = s
	return s
}

// Empty returns the canonical empty-string handle.
func (in *Interner) Empty() *InternedString { return in.empty }
