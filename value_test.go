package picoc

import "testing"

func TestAllocValueStackScalar(t *testing.T) {
	a := NewArena(256)
	tt := NewTypeTree(NewInterner())
	ps := &ParserState{ScopeID: GlobalScopeID}

	v, err := AllocValueStack(a, ps, tt.Int, true)
	if err != nil {
		t.Fatalf("AllocValueStack: %v", err)
	}
	if v.Storage != StackContiguous {
		t.Fatalf("expected StackContiguous, got %v", v.Storage)
	}
	if v.Bytes != nil {
		t.Fatal("expected no Bytes payload for a bare scalar stack value")
	}
}

func TestAllocValueHeapAggregate(t *testing.T) {
	a := NewArena(256)
	tt := NewTypeTree(NewInterner())
	arr := tt.ArrayOf(tt.Char, 8)

	v, err := AllocValueHeap(a, arr, true)
	if err != nil {
		t.Fatalf("AllocValueHeap: %v", err)
	}
	if len(v.Bytes) != 8 {
		t.Fatalf("expected an 8-byte backing buffer, got %d", len(v.Bytes))
	}
	copy(v.Bytes, "hi")
	if string(v.Bytes[:2]) != "hi" {
		t.Fatal("expected writes to Bytes to be visible through the same slice")
	}
}

func TestAllocValueSharedViewWritesBackToParent(t *testing.T) {
	a := NewArena(256)
	tt := NewTypeTree(NewInterner())
	s := tt.NamedAggregate(KindStruct, tt.interner.Register("pair"))
	s.BeginStructLayout()
	s.AddMember("a", tt.Int)
	s.AddMember("b", tt.Int)
	s.FinishStructLayout()

	parent, err := AllocValueHeap(a, s, true)
	if err != nil {
		t.Fatalf("AllocValueHeap: %v", err)
	}

	member := AllocValueShared(parent, s.MemberOffset("b"), tt.Int.Sizeof, tt.Int)
	if member.Storage != SharedView {
		t.Fatalf("expected SharedView storage, got %v", member.Storage)
	}
	EncodeInt(member.Bytes, 99)

	// The shared view's Bytes must be a sub-slice of the parent's backing
	// array, so writing through it is visible in the parent's buffer too.
	got := int64(0)
	for i := len(member.Bytes) - 1; i >= 0; i-- {
		got = got<<8 | int64(parent.Bytes[s.MemberOffset("b")+i])
	}
	if got != 99 {
		t.Fatalf("expected parent bytes to reflect member write, got %d", got)
	}
}

func TestAllocValueAndCopyDeepCopiesBytes(t *testing.T) {
	a := NewArena(256)
	tt := NewTypeTree(NewInterner())
	arr := tt.ArrayOf(tt.Char, 4)

	from, _ := AllocValueHeap(a, arr, true)
	copy(from.Bytes, "abcd")

	to, err := AllocValueAndCopy(a, nil, from, true)
	if err != nil {
		t.Fatalf("AllocValueAndCopy: %v", err)
	}
	if string(to.Bytes) != "abcd" {
		t.Fatalf("expected copy to carry the same bytes, got %q", to.Bytes)
	}
	to.Bytes[0] = 'z'
	if from.Bytes[0] == 'z' {
		t.Fatal("expected AllocValueAndCopy to make an independent copy, not alias the source")
	}
}

func TestFreeStackValuePopsExactSize(t *testing.T) {
	a := NewArena(256)
	tt := NewTypeTree(NewInterner())
	ps := &ParserState{ScopeID: GlobalScopeID}
	top0 := a.StackTop()

	v, _ := AllocValueStack(a, ps, tt.Int, true)
	if err := Free(a, v); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if a.StackTop() != top0 {
		t.Fatalf("expected stack top restored to %d, got %d", top0, a.StackTop())
	}
}
