package picoc

import gotime "time"

// lib_time.go supplements the distilled spec with the <time.h> surface
// present in _examples/original_source/cstdlib/time.cpp (time/clock/
// difftime), one of the SUPPLEMENTED FEATURES named in SPEC_FULL.md.
// clock() there returns processor time in an implementation-defined unit;
// here it returns milliseconds since the Instance's arena was created,
// the closest Go equivalent available without host-specific cgo calls.

func newTimeBundle() *Bundle {
	start := gotime.Now()
	return &Bundle{
		Name: "time",
		Setup: func(inst *Instance) error {
			return nil
		},
		Intrinsics: map[string]*FuncDef{
			"time": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				return retInt(inst, gotime.Now().Unix()), nil
			}),
			"clock": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				return retInt(inst, gotime.Since(start).Milliseconds()), nil
			}),
			"difftime": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				return retFloat(inst, argFloat(args, 0)-argFloat(args, 1)), nil
			}),
		},
	}
}
