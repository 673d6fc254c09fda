package picoc

import "testing"

func newTestInstance() *Instance {
	cfg := DefaultConfig()
	cfg.IncludeBundles = nil
	return New(cfg)
}

func psAt(filename string, line, col int) *ParserState {
	return &ParserState{Filename: filename, Line: line, Column: col, ScopeID: RootScopeID}
}

func TestDefineGlobal(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("counter")
	ps := psAt("a.c", 1, 1)

	v, err := Define(inst, ps, name, inst.Types.Int, nil)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if v.Storage != HeapContiguous {
		t.Fatalf("expected file-scope define to allocate on the heap, got %v", v.Storage)
	}

	got, err := VariableGet(inst, ps, name)
	if err != nil {
		t.Fatalf("VariableGet: %v", err)
	}
	if got != v {
		t.Fatal("expected VariableGet to return the value Define created")
	}
}

func TestDefineDuplicateFails(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("x")

	if _, err := Define(inst, psAt("a.c", 1, 1), name, inst.Types.Int, nil); err != nil {
		t.Fatalf("first Define: %v", err)
	}
	if _, err := Define(inst, psAt("a.c", 2, 1), name, inst.Types.Int, nil); err == nil {
		t.Fatal("expected redefining the same name at a genuinely different site to fail")
	}
}

func TestDefineAtSameSiteReplacesInsteadOfFailing(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("t")
	ps := psAt("loop.c", 3, 5)

	v1, err := Define(inst, ps, name, inst.Types.Int, nil)
	if err != nil {
		t.Fatalf("first Define: %v", err)
	}
	v1.Int = 99
	v2, err := Define(inst, ps, name, inst.Types.Int, nil)
	if err != nil {
		t.Fatalf("expected re-declaring at the exact same site to succeed (loop body re-entry), got: %v", err)
	}
	if v2 == v1 {
		t.Fatal("expected a fresh Value on re-declaration, not the stale one")
	}
	if v2.Int != 0 {
		t.Fatalf("expected the fresh Value to be zero-initialized, got %d", v2.Int)
	}
}

func TestVariableGetUndefined(t *testing.T) {
	inst := newTestInstance()
	ps := psAt("a.c", 1, 1)
	if _, err := VariableGet(inst, ps, inst.Interner.Register("nope")); err == nil {
		t.Fatal("expected VariableGet on an undefined name to fail")
	}
}

func TestDefineButIgnoreIdenticalIsIdempotentAtSameSite(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("counter")
	ps := psAt("fn.c", 10, 5)

	v1, err := DefineButIgnoreIdentical(inst, ps, name, inst.Types.Int, nil)
	if err != nil {
		t.Fatalf("first DefineButIgnoreIdentical: %v", err)
	}
	v2, err := DefineButIgnoreIdentical(inst, ps, name, inst.Types.Int, nil)
	if err != nil {
		t.Fatalf("re-execution at the same site should not fail: %v", err)
	}
	if v1 != v2 {
		t.Fatal("expected the exact same static-local Value to be returned on re-execution")
	}
}

func TestDefineButIgnoreIdenticalRejectsDifferentSite(t *testing.T) {
	inst := newTestInstance()
	name := inst.Interner.Register("counter")
	ps1 := psAt("fn.c", 10, 5)
	ps2 := psAt("fn.c", 20, 5)

	if _, err := DefineButIgnoreIdentical(inst, ps1, name, inst.Types.Int, nil); err != nil {
		t.Fatalf("first DefineButIgnoreIdentical: %v", err)
	}
	if _, err := DefineButIgnoreIdentical(inst, ps2, name, inst.Types.Int, nil); err == nil {
		t.Fatal("expected a genuinely different declaration site to be rejected")
	}
}

func TestStringLiteralInterning(t *testing.T) {
	inst := newTestInstance()
	v1, err := StringLiteralDefine(inst, "hello")
	if err != nil {
		t.Fatalf("StringLiteralDefine: %v", err)
	}
	v2, err := StringLiteralDefine(inst, "hello")
	if err != nil {
		t.Fatalf("StringLiteralDefine (again): %v", err)
	}
	if v1 != v2 {
		t.Fatal("expected identical string literal spellings to share one backing Value")
	}
	if string(v1.Bytes[:5]) != "hello" {
		t.Fatalf("expected literal bytes 'hello', got %q", v1.Bytes[:5])
	}
}

func TestDefinePlatformVarRoundTrips(t *testing.T) {
	inst := newTestInstance()
	var backing int64 = 7
	cell := &HostCell{
		Get: func() int64 { return backing },
		Set: func(v int64) { backing = v },
	}
	v, err := DefinePlatformVar(inst, "errno", inst.Types.Int, cell)
	if err != nil {
		t.Fatalf("DefinePlatformVar: %v", err)
	}
	if v.Host.Get() != 7 {
		t.Fatalf("expected host cell to read through to backing var, got %d", v.Host.Get())
	}
	v.Host.Set(42)
	if backing != 42 {
		t.Fatalf("expected host cell write to update backing var, got %d", backing)
	}
}
