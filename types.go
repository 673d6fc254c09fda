package picoc

// TypeKind enumerates the kinds a Type node can be, per spec §3.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindInt
	KindShort
	KindChar
	KindLong
	KindUnsignedInt
	KindUnsignedShort
	KindUnsignedChar
	KindUnsignedLong
	KindFloat
	KindFunction
	KindMacro
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindGotoLabel
	KindTypeOfType
)

// PointerSize is the host pointer width used for pointer sizeof
// calculations (enum sizeof is SizeInt), per spec §4.4 ("pointer sizeof is the host pointer
// size"). Modeled as 8 (a 64-bit host), matching Go's own GOARCH=amd64/
// arm64 default rather than the C source's `sizeof(void*)`.
const PointerSize = 8

// SizeInt/SizeChar/etc. are the base scalar sizes used to build the fixed
// base-type slots, mirroring type.cpp's TypeAddBaseType calls (sizeof(int),
// sizeof(char), ...) for a typical 32-bit-int/64-bit-long/64-bit-pointer
// target.
const (
	SizeVoid  = 0
	SizeChar  = 1
	SizeShort = 2
	SizeInt   = 4
	SizeLong  = 8
	SizeFloat = 8
)

// Type is one node in the type tree: base scalar types are fixed slots on
// the Instance; every derived type (pointer/array/typedef) or aggregate
// (struct/union/enum) is a node reachable from the root "uber type" via
// FromType/Children/Next, per spec §3 and §4.4.
type Type struct {
	Kind       TypeKind
	ArraySize  int
	Sizeof     int
	AlignBytes int
	Identifier *InternedString
	FromType   *Type // the type this one is derived from (nil for base types)
	Children   *Type // head of this type's derived-type child chain
	Next       *Type // sibling link within the parent's child chain
	Members    *StructLayout
	OnHeap     bool
	Static     bool
}

// StructLayout holds the ordered member list and offset table for a
// struct or union type. A struct/union type with Members == nil is a
// forward declaration (spec §4.4).
type StructLayout struct {
	Order   []string
	Offsets map[string]int
	Types   map[string]*Type
}

func newStructLayout() *StructLayout {
	return &StructLayout{Offsets: make(map[string]int), Types: make(map[string]*Type)}
}

// IsForwardDeclared reports whether t is a struct/union without a known
// member layout, or an array of such a type, per spec §4.4.
func (t *Type) IsForwardDeclared() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindStruct, KindUnion:
		return t.Members == nil
	case KindArray:
		return t.FromType.IsForwardDeclared()
	default:
		return false
	}
}

// TypeTree owns the base scalar type slots and the uber-type root that all
// derived and aggregate types hang off of.
type TypeTree struct {
	interner *Interner

	Uber     *Type
	Void     *Type
	Int      *Type
	Short    *Type
	Char     *Type
	Long     *Type
	UInt     *Type
	UShort   *Type
	UChar    *Type
	ULong    *Type
	Float    *Type
	Function *Type
	Macro    *Type
	GotoLbl  *Type

	CharPtr    *Type
	CharPtrPtr *Type
	VoidPtr    *Type

	namedTypes map[string]*Type // typedef name -> type
}

// NewTypeTree constructs the fixed base-type slots exactly as
// _examples/original_source/type.cpp's TypeInit/TypeAddBaseType does,
// then derives the handful of pointer types the source pre-builds
// (CharPtrType, CharPtrPtrType, VoidPtrType).
func NewTypeTree(interner *Interner) *TypeTree {
	tt := &TypeTree{interner: interner, namedTypes: make(map[string]*Type)}
	tt.Uber = &Type{Kind: KindTypeOfType, Identifier: interner.Empty()}

	base := func(kind TypeKind, size, align int) *Type {
		return &Type{Kind: kind, Sizeof: size, AlignBytes: align, Identifier: interner.Empty()}
	}

	tt.Void = base(KindVoid, SizeVoid, 1)
	tt.Int = base(KindInt, SizeInt, 4)
	tt.Short = base(KindShort, SizeShort, 2)
	tt.Char = base(KindChar, SizeChar, 1)
	tt.Long = base(KindLong, SizeLong, 8)
	tt.UInt = base(KindUnsignedInt, SizeInt, 4)
	tt.UShort = base(KindUnsignedShort, SizeShort, 2)
	tt.UChar = base(KindUnsignedChar, SizeChar, 1)
	tt.ULong = base(KindUnsignedLong, SizeLong, 8)
	tt.Float = base(KindFloat, SizeFloat, 8)
	tt.Function = base(KindFunction, SizeInt, 4)
	tt.Macro = base(KindMacro, SizeInt, 4)
	tt.GotoLbl = base(KindGotoLabel, SizeVoid, 1)

	tt.CharPtr = tt.derive(tt.Char, KindPointer, 0, interner.Empty())
	tt.CharPtrPtr = tt.derive(tt.CharPtr, KindPointer, 0, interner.Empty())
	tt.VoidPtr = tt.derive(tt.Void, KindPointer, 0, interner.Empty())

	return tt
}

// GetOrCreate deduplicates a derived type by walking parent's child chain
// for a matching (kind, arraySize, identifier) triple, per spec §4.4;
// TypeGetMatching in _examples/original_source/type.cpp is the direct
// model. Struct/union/enum use this too, keyed off the uber type, so a
// named aggregate is found rather than redefined every time its name is
// mentioned.
func (tt *TypeTree) GetOrCreate(parent *Type, kind TypeKind, arraySize int, identifier *InternedString) *Type {
	for c := parent.Children; c != nil; c = c.Next {
		if c.Kind == kind && c.ArraySize == arraySize && c.Identifier == identifier {
			return c
		}
	}
	return tt.derive(parent, kind, arraySize, identifier)
}

func (tt *TypeTree) derive(parent *Type, kind TypeKind, arraySize int, identifier *InternedString) *Type {
	nt := &Type{Kind: kind, ArraySize: arraySize, Identifier: identifier, FromType: parent}
	switch kind {
	case KindPointer:
		nt.Sizeof = PointerSize
		nt.AlignBytes = PointerSize
	case KindArray:
		nt.Sizeof = parent.Sizeof * arraySize
		nt.AlignBytes = parent.AlignBytes
	case KindStruct, KindUnion:
		nt.AlignBytes = 1
	case KindEnum:
		nt.Sizeof = SizeInt
		nt.AlignBytes = 4
	default:
		nt.Sizeof = parent.Sizeof
		nt.AlignBytes = parent.AlignBytes
	}
	nt.Next = parent.Children
	parent.Children = nt
	return nt
}

// PointerTo returns (creating if needed) the pointer-to-elem type.
func (tt *TypeTree) PointerTo(elem *Type) *Type {
	return tt.GetOrCreate(elem, KindPointer, 0, tt.interner.Empty())
}

// ArrayOf returns (creating if needed) the array-of-elem type with the
// given element count. size == 0 denotes an unsized array (spec §4.4
// "back" phase), whose size is resolved later by an initializer.
func (tt *TypeTree) ArrayOf(elem *Type, size int) *Type {
	return tt.GetOrCreate(elem, KindArray, size, tt.interner.Empty())
}

// NamedAggregate returns (creating if needed) the struct/union/enum type
// with the given name, hung off the uber type as source does via
// TypeGetMatching(&pc->UberType, ...).
func (tt *TypeTree) NamedAggregate(kind TypeKind, name *InternedString) *Type {
	return tt.GetOrCreate(tt.Uber, kind, 0, name)
}

// BeginStructLayout starts a fresh member table for a struct/union
// definition. Called only once per aggregate; redefinition is rejected by
// the caller (parse_decl.go) before this runs.
func (t *Type) BeginStructLayout() {
	t.Members = newStructLayout()
	t.Sizeof = 0
	t.AlignBytes = 1
}

// AddMember lays out one struct/union member in declaration order,
// implementing the algorithm in spec §4.4 exactly as
// _examples/original_source/type.cpp's StructUnionParse does (lines
// 225-266): round up to the member's alignment, record the offset, grow
// (struct) or max (union) the aggregate size, and track the widest
// alignment seen.
func (t *Type) AddMember(name string, memberType *Type) {
	align := memberType.AlignBytes
	if align == 0 {
		align = 1
	}
	var offset int
	if t.Kind == KindStruct {
		if t.Sizeof%align != 0 {
			t.Sizeof += align - (t.Sizeof % align)
		}
		offset = t.Sizeof
		t.Sizeof += memberType.Sizeof
	} else { // union
		offset = 0
		if memberType.Sizeof > t.Sizeof {
			t.Sizeof = memberType.Sizeof
		}
	}
	if t.AlignBytes < align {
		t.AlignBytes = align
	}
	t.Members.Order = append(t.Members.Order, name)
	t.Members.Offsets[name] = offset
	t.Members.Types[name] = memberType
}

// FinishStructLayout rounds the aggregate's final sizeof up to its own
// alignment, the last step of the layout algorithm in spec §4.4.
func (t *Type) FinishStructLayout() {
	align := t.AlignBytes
	if align == 0 {
		align = 1
	}
	if t.Sizeof%align != 0 {
		t.Sizeof += align - (t.Sizeof % align)
	}
}

// MemberOffset returns the byte offset of a named member, or -1 if this
// type has no such member (or is a forward declaration).
func (t *Type) MemberOffset(name string) int {
	if t.Members == nil {
		return -1
	}
	if off, ok := t.Members.Offsets[name]; ok {
		return off
	}
	return -1
}

// MemberType returns the type of a named member, or nil.
func (t *Type) MemberType(name string) *Type {
	if t.Members == nil {
		return nil
	}
	return t.Members.Types[name]
}
