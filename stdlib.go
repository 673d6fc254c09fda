package picoc

// registerStdlibBundles registers every bundle this module ships (spec
// §4.8), matching phroun-pawscript's own pattern of a single top-level
// registration call (RegisterStandardLibrary) that wires up each domain's
// file. Registration alone does not activate a bundle — a host calls
// Include, or IncludeAllSystemHeaders for the bundles named in
// Config.IncludeBundles, to actually bring one into scope.
func registerStdlibBundles(inst *Instance) {
	inst.RegisterLibrary(newStdioBundle())
	inst.RegisterLibrary(newStringBundle())
	inst.RegisterLibrary(newMathBundle())
	inst.RegisterLibrary(newTimeBundle())
	inst.RegisterLibrary(newErrnoBundle())
	inst.RegisterLibrary(newCtypeBundle())
	inst.RegisterLibrary(newStdboolBundle())
	inst.RegisterLibrary(newUnistdBundle())
}
