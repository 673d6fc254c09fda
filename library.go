package picoc

// Bundle is a host library's registration unit, per spec §4.8: a name, an
// optional setup callback, a table of intrinsic functions, and an optional
// picoc source snippet (e.g. macros or thin wrapper functions written in
// the scripted language itself) parsed once the intrinsics are in place.
// Grounded on _examples/phroun-pawscript's lib_math.go/lib_bitwise.go/
// lib_system.go one-file-per-domain convention, generalized from
// pawscript's single flat command table into named, independently
// includable bundles the way spec §4.8 describes.
type Bundle struct {
	Name       string
	Setup      func(inst *Instance) error
	Intrinsics map[string]*FuncDef
	Source     string
}

// RegisterLibrary makes a bundle available for later inclusion. Registering
// twice under the same name replaces the previous registration, matching
// the source's "last definition wins" behavior for library setup
// functions.
func (inst *Instance) RegisterLibrary(b *Bundle) {
	inst.registeredLibs[b.Name] = b
	inst.libraries = append(inst.libraries, b)
}

// Include activates a registered bundle: runs its setup callback (if any),
// binds each intrinsic into globals as a callable function value, then
// parses its source snippet (if any). Including an already-included
// bundle is a no-op, per spec §4.8's "including the same bundle twice has
// no additional effect" rule.
func (inst *Instance) Include(name string) error {
	if inst.includedLibs[name] {
		return nil
	}
	b, ok := inst.registeredLibs[name]
	if !ok {
		return newFailure(ErrResource, nil, "unknown library %q", name)
	}
	if b.Setup != nil {
		if err := b.Setup(inst); err != nil {
			return err
		}
	}
	for name, def := range b.Intrinsics {
		def.Name = inst.Interner.Register(name)
		v := &Value{Type: inst.Types.Function, Storage: HeapContiguous, IsLValue: false, ScopeID: GlobalScopeID, Func: def}
		key := inst.Interner.Register(name)
		if _, err := inst.Globals.Set(key, GlobalScopeID, DeclSite{Filename: "<" + b.Name + ">"}, v); err != nil {
			return err
		}
	}
	inst.includedLibs[name] = true
	if b.Source != "" {
		if err := inst.Parse("<"+b.Name+">", b.Source, DefaultParseOptions()); err != nil {
			return err
		}
	}
	return nil
}
