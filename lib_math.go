package picoc

import "math"

// lib_math.go wraps Go's math package for <math.h>, grounded on
// _examples/phroun-pawscript/src/lib_math.go's one-file-per-domain,
// direct-stdlib-delegation style.

func newMathBundle() *Bundle {
	return &Bundle{
		Name: "math",
		Intrinsics: map[string]*FuncDef{
			"sin":   intrinsic(mathUnary(math.Sin)),
			"cos":   intrinsic(mathUnary(math.Cos)),
			"tan":   intrinsic(mathUnary(math.Tan)),
			"sqrt":  intrinsic(mathUnary(math.Sqrt)),
			"fabs":  intrinsic(mathUnary(math.Abs)),
			"floor": intrinsic(mathUnary(math.Floor)),
			"ceil":  intrinsic(mathUnary(math.Ceil)),
			"log":   intrinsic(mathUnary(math.Log)),
			"exp":   intrinsic(mathUnary(math.Exp)),
			"pow":   intrinsic(mathPow),
		},
	}
}

func mathUnary(fn func(float64) float64) NativeFunc {
	return func(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
		return retFloat(inst, fn(argFloat(args, 0))), nil
	}
}

func mathPow(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	return retFloat(inst, math.Pow(argFloat(args, 0), argFloat(args, 1))), nil
}
