package picoc

import "testing"

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Register("foo")
	b := in.Register("foo")
	if a != b {
		t.Fatal("expected identical identifiers to intern to the same pointer")
	}
	c := in.Register("bar")
	if a == c {
		t.Fatal("expected distinct identifiers to intern to distinct pointers")
	}
}

func TestInternerEmptySentinel(t *testing.T) {
	in := NewInterner()
	if in.Register("") != in.Empty() {
		t.Fatal("expected Register(\"\") to return the canonical empty sentinel")
	}
}
