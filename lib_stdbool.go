package picoc

// lib_stdbool.go supplements the distilled spec with the constants
// _examples/original_source/cstdlib/stdbool.cpp defines, mirroring
// _examples/phroun-pawscript/stdlib.go's own "true"/"false" registration
// (there as pawscript booleans; here as the plain ints C's <stdbool.h>
// used before _Bool existed).
func newStdboolBundle() *Bundle {
	return &Bundle{
		Name: "stdbool",
		Setup: func(inst *Instance) error {
			for name, val := range map[string]int64{"true": 1, "false": 0} {
				key := inst.Interner.Register(name)
				v := &Value{Type: inst.Types.Int, Int: val, ScopeID: GlobalScopeID}
				if _, err := inst.Globals.Set(key, GlobalScopeID, DeclSite{Filename: "<stdbool>"}, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
