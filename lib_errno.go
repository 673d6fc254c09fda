package picoc

// lib_errno.go supplements the distilled spec with the errno global that
// _examples/original_source/cstdlib/errno.cpp defines, using
// DefinePlatformVar (spec §4.5) to bind it as a live host cell rather than
// an ordinary arena variable, so every intrinsic in the process can update
// it without going through a symbol-table lookup.

func newErrnoBundle() *Bundle {
	return &Bundle{
		Name: "errno",
		Setup: func(inst *Instance) error {
			cell := &HostCell{
				Get: func() int64 { return inst.errnoValue },
				Set: func(v int64) { inst.errnoValue = v },
			}
			_, err := DefinePlatformVar(inst, "errno", inst.Types.Int, cell)
			return err
		},
		Intrinsics: map[string]*FuncDef{
			"perror": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				inst.Write("%s: error %d\n", argString(args, 0), inst.errnoValue)
				return retVoid(inst), nil
			}),
		},
	}
}
