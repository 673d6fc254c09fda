package picoc

import "strconv"

// lib_stdio.go is grounded on _examples/phroun-pawscript/stdlib.go's
// write/echo/print command family, generalized to a proper printf-style
// formatter since the target language is C rather than pawscript's
// shell-flavored output commands.

func newStdioBundle() *Bundle {
	return &Bundle{
		Name: "stdio",
		Intrinsics: map[string]*FuncDef{
			"printf":  intrinsic(picocPrintf),
			"putchar": intrinsic(picocPutchar),
			"puts":    intrinsic(picocPuts),
		},
	}
}

func picocPrintf(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	if len(args) == 0 {
		return retInt(inst, 0), nil
	}
	out := formatC(argString(args, 0), args[1:])
	inst.Write("%s", out)
	return retInt(inst, int64(len(out))), nil
}

func picocPutchar(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	inst.Write("%c", byte(argInt(args, 0)))
	return retInt(inst, argInt(args, 0)), nil
}

func picocPuts(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	s := argString(args, 0)
	inst.Write("%s\n", s)
	return retInt(inst, int64(len(s)+1)), nil
}

// formatC implements the small subset of printf conversions spec's
// supplemented-feature set needs: %d %i %u %f %g %s %c %x %%.
func formatC(format string, args []*Value) string {
	var out []byte
	argi := 0
	next := func() *Value {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return nil
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			out = append(out, c)
			continue
		}
		i++
		spec := format[i]
		switch spec {
		case 'd', 'i', 'u':
			if v := next(); v != nil {
				out = append(out, strconv.FormatInt(scalarInt(v), 10)...)
			}
		case 'x':
			if v := next(); v != nil {
				out = append(out, strconv.FormatInt(scalarInt(v), 16)...)
			}
		case 'f', 'g':
			if v := next(); v != nil {
				out = append(out, strconv.FormatFloat(scalarFloat(v), 'f', 6, 64)...)
			}
		case 's':
			if v := next(); v != nil {
				out = append(out, cstring(v)...)
			}
		case 'c':
			if v := next(); v != nil {
				out = append(out, byte(scalarInt(v)))
			}
		case '%':
			out = append(out, '%')
		default:
			out = append(out, '%', spec)
		}
	}
	return string(out)
}
