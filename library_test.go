package picoc

import "testing"

func TestIncludeBindsIntrinsics(t *testing.T) {
	inst := newTestInstance()
	inst.RegisterLibrary(&Bundle{
		Name: "greet",
		Intrinsics: map[string]*FuncDef{
			"hello": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				return retInt(inst, 1), nil
			}),
		},
	})

	if err := inst.Include("greet"); err != nil {
		t.Fatalf("Include: %v", err)
	}
	e, ok := inst.Globals.Get(inst.Interner.Register("hello"))
	if !ok {
		t.Fatal("expected 'hello' to be bound as a global after Include")
	}
	v := e.Payload.(*Value)
	if v.Type.Kind != KindFunction || v.Func == nil || !v.Func.IsIntrinsic() {
		t.Fatal("expected 'hello' to resolve to an intrinsic function value")
	}
}

func TestIncludeIsIdempotent(t *testing.T) {
	inst := newTestInstance()
	calls := 0
	inst.RegisterLibrary(&Bundle{
		Name: "once",
		Setup: func(inst *Instance) error {
			calls++
			return nil
		},
	})
	inst.Include("once")
	inst.Include("once")
	if calls != 1 {
		t.Fatalf("expected Setup to run exactly once across repeated Include calls, ran %d times", calls)
	}
}

func TestIncludeUnknownLibraryFails(t *testing.T) {
	inst := newTestInstance()
	if err := inst.Include("nonexistent"); err == nil {
		t.Fatal("expected including an unregistered bundle to fail")
	}
}

func TestRegisterStdlibBundlesRegistersAll(t *testing.T) {
	inst := New(DefaultConfig())
	want := []string{"stdio", "string", "math", "time", "errno", "ctype", "stdbool", "unistd"}
	for _, name := range want {
		if _, ok := inst.registeredLibs[name]; !ok {
			t.Fatalf("expected bundle %q to be registered by New", name)
		}
	}
}
