package picoc

import "testing"

func TestTypeTreePointerDedup(t *testing.T) {
	tt := NewTypeTree(NewInterner())
	p1 := tt.PointerTo(tt.Int)
	p2 := tt.PointerTo(tt.Int)
	if p1 != p2 {
		t.Fatal("expected two pointer-to-int requests to return the same type node")
	}
	if p1.Sizeof != PointerSize {
		t.Fatalf("expected pointer sizeof %d, got %d", PointerSize, p1.Sizeof)
	}
}

func TestTypeTreeArrayOf(t *testing.T) {
	tt := NewTypeTree(NewInterner())
	a := tt.ArrayOf(tt.Char, 10)
	if a.Sizeof != 10 {
		t.Fatalf("expected array-of-10-chars sizeof 10, got %d", a.Sizeof)
	}
	if tt.ArrayOf(tt.Char, 10) != a {
		t.Fatal("expected array-of-10-chars to dedup to the same node")
	}
	if tt.ArrayOf(tt.Char, 4) == a {
		t.Fatal("expected a different array length to be a distinct type")
	}
}

func TestStructLayoutAlignment(t *testing.T) {
	tt := NewTypeTree(NewInterner())
	s := tt.NamedAggregate(KindStruct, tt.interner.Register("point"))
	s.BeginStructLayout()
	s.AddMember("flag", tt.Char) // offset 0, size 1
	s.AddMember("x", tt.Int)     // rounds up to offset 4
	s.AddMember("y", tt.Int)     // offset 8
	s.FinishStructLayout()

	if off := s.MemberOffset("flag"); off != 0 {
		t.Fatalf("expected flag at offset 0, got %d", off)
	}
	if off := s.MemberOffset("x"); off != 4 {
		t.Fatalf("expected x at offset 4 (aligned), got %d", off)
	}
	if off := s.MemberOffset("y"); off != 8 {
		t.Fatalf("expected y at offset 8, got %d", off)
	}
	if s.Sizeof != 12 {
		t.Fatalf("expected total struct size 12, got %d", s.Sizeof)
	}
}

func TestUnionLayoutOverlaysMembers(t *testing.T) {
	tt := NewTypeTree(NewInterner())
	u := tt.NamedAggregate(KindUnion, tt.interner.Register("v"))
	u.BeginStructLayout()
	u.AddMember("i", tt.Int)
	u.AddMember("c", tt.Char)
	u.FinishStructLayout()

	if off := u.MemberOffset("i"); off != 0 {
		t.Fatalf("expected union member i at offset 0, got %d", off)
	}
	if off := u.MemberOffset("c"); off != 0 {
		t.Fatalf("expected union member c at offset 0, got %d", off)
	}
	if u.Sizeof != SizeInt {
		t.Fatalf("expected union sizeof to be the widest member (%d), got %d", SizeInt, u.Sizeof)
	}
}

func TestIsForwardDeclared(t *testing.T) {
	tt := NewTypeTree(NewInterner())
	s := tt.NamedAggregate(KindStruct, tt.interner.Register("incomplete"))
	if !s.IsForwardDeclared() {
		t.Fatal("expected a struct with no members to be forward-declared")
	}
	s.BeginStructLayout()
	s.FinishStructLayout()
	if s.IsForwardDeclared() {
		t.Fatal("expected a struct with a (possibly empty) layout to not be forward-declared")
	}
}
