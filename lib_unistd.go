package picoc

import (
	"os"
	gotime "time"
)

// lib_unistd.go rounds out the default include set (DefaultConfig's
// IncludeBundles) with a
// couple of <unistd.h> calls scripted programs commonly reach for. There
// is no unistd.cpp in original_source to ground this against directly, so
// it follows the same one-native-function-per-libc-call shape the other
// lib_*.go bundles use.
func newUnistdBundle() *Bundle {
	return &Bundle{
		Name: "unistd",
		Intrinsics: map[string]*FuncDef{
			"sleep": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				gotime.Sleep(gotime.Duration(argInt(args, 0)) * gotime.Second)
				return retInt(inst, 0), nil
			}),
			"getpid": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				return retInt(inst, int64(os.Getpid())), nil
			}),
		},
	}
}
