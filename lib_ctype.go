package picoc

// lib_ctype.go implements the <ctype.h> character classification and case
// conversion functions, part of the default include set (DefaultConfig's
// IncludeBundles), each a thin wrapper over a byte-range check the way
// original_source's cstdlib bundles wrap single library calls one at a
// time rather than a shared helper table.

func newCtypeBundle() *Bundle {
	return &Bundle{
		Name: "ctype",
		Intrinsics: map[string]*FuncDef{
			"isalpha": intrinsic(ctypePred(func(c byte) bool { return isAlpha(c) })),
			"isdigit": intrinsic(ctypePred(func(c byte) bool { return c >= '0' && c <= '9' })),
			"isalnum": intrinsic(ctypePred(func(c byte) bool { return isAlpha(c) || (c >= '0' && c <= '9') })),
			"isspace": intrinsic(ctypePred(func(c byte) bool {
				return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
			})),
			"isupper": intrinsic(ctypePred(func(c byte) bool { return c >= 'A' && c <= 'Z' })),
			"islower": intrinsic(ctypePred(func(c byte) bool { return c >= 'a' && c <= 'z' })),
			"toupper": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				c := byte(argInt(args, 0))
				if c >= 'a' && c <= 'z' {
					c -= 'a' - 'A'
				}
				return retInt(inst, int64(c)), nil
			}),
			"tolower": intrinsic(func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
				c := byte(argInt(args, 0))
				if c >= 'A' && c <= 'Z' {
					c += 'a' - 'A'
				}
				return retInt(inst, int64(c)), nil
			}),
		},
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func ctypePred(pred func(byte) bool) NativeFunc {
	return func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
		if pred(byte(argInt(args, 0))) {
			return retInt(inst, 1), nil
		}
		return retInt(inst, 0), nil
	}
}
