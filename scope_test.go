package picoc

import "testing"

func TestComputeScopeIDStable(t *testing.T) {
	a := ComputeScopeID("f.c", 10)
	b := ComputeScopeID("f.c", 10)
	if a != b {
		t.Fatal("expected the same (filename, cursor) to hash to the same scope id")
	}
	c := ComputeScopeID("f.c", 11)
	if a == c {
		t.Fatal("expected different cursors to hash to different scope ids")
	}
}

func TestComputeScopeIDNeverGlobal(t *testing.T) {
	for cursor := 0; cursor < 64; cursor++ {
		if id := ComputeScopeID("x.c", cursor); id == GlobalScopeID {
			t.Fatalf("cursor %d hashed to the reserved global scope id", cursor)
		}
	}
}

func TestEnterExitBlockHidesAndRevives(t *testing.T) {
	in := NewInterner()
	locals := NewSymbolTable(LocalTableSize)
	key := in.Register("i")

	ps := &ParserState{Filename: "loop.c", Pos: 5, ScopeID: 1000}
	id, prevID := EnterBlock(ps, locals)

	locals.Set(key, id, DeclSite{}, "loop var")
	if _, ok := locals.Get(key); !ok {
		t.Fatal("expected loop var visible inside its own block")
	}

	ExitBlock(ps, id, prevID, locals)
	if _, ok := locals.Get(key); ok {
		t.Fatal("expected loop var hidden after ExitBlock")
	}
	if ps.ScopeID != 1000 {
		t.Fatalf("expected scope id restored to 1000, got %d", ps.ScopeID)
	}
}

func TestEnterBlockNoopAtGlobalScope(t *testing.T) {
	ps := &ParserState{Filename: "top.c", Pos: 0, ScopeID: GlobalScopeID}
	id, prevID := EnterBlock(ps)
	if id != GlobalScopeID || prevID != GlobalScopeID {
		t.Fatal("expected EnterBlock at global scope to be a no-op")
	}
}
