package picoc

// lib_string.go implements the handful of <string.h> functions a small
// scripted program typically needs, operating directly on the char[]/char*
// byte buffers backing a Value's arena storage rather than copying through
// Go strings, matching the "operate on the arena in place" style of
// _examples/original_source/variable.cpp's buffer-oriented helpers.

func newStringBundle() *Bundle {
	return &Bundle{
		Name: "string",
		Intrinsics: map[string]*FuncDef{
			"strlen":  intrinsic(picocStrlen),
			"strcpy":  intrinsic(picocStrcpy),
			"strncpy": intrinsic(picocStrncpy),
			"strcat":  intrinsic(picocStrcat),
			"strcmp":  intrinsic(picocStrcmp),
			"strchr":  intrinsic(picocStrchr),
			"memcpy":  intrinsic(picocMemcpy),
			"memset":  intrinsic(picocMemset),
		},
	}
}

func picocStrlen(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	return retInt(inst, int64(len(argString(args, 0)))), nil
}

func picocStrcpy(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	dst := charBuf(argAt(args, 0))
	src := argString(args, 1)
	n := copy(dst, src)
	if n < len(dst) {
		dst[n] = 0
	}
	return argAt(args, 0), nil
}

func picocStrncpy(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	dst := charBuf(argAt(args, 0))
	src := argString(args, 1)
	limit := int(argInt(args, 2))
	if limit > len(dst) {
		limit = len(dst)
	}
	if limit > len(src) {
		limit = len(src)
	}
	copy(dst[:limit], src[:limit])
	return argAt(args, 0), nil
}

func picocStrcat(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	dstBuf := charBuf(argAt(args, 0))
	end := 0
	for end < len(dstBuf) && dstBuf[end] != 0 {
		end++
	}
	src := argString(args, 1)
	n := copy(dstBuf[end:], src)
	if end+n < len(dstBuf) {
		dstBuf[end+n] = 0
	}
	return argAt(args, 0), nil
}

func picocStrcmp(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	a, b := argString(args, 0), argString(args, 1)
	switch {
	case a < b:
		return retInt(inst, -1), nil
	case a > b:
		return retInt(inst, 1), nil
	default:
		return retInt(inst, 0), nil
	}
}

func picocStrchr(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	s := argAt(args, 0)
	root, base := rootAndBase(s)
	buf := charBuf(s)
	target := byte(argInt(args, 1))
	for i, b := range buf {
		if b == target {
			return AllocValueShared(root, base+i, 1, inst.Types.Char), nil
		}
		if b == 0 {
			break
		}
	}
	return &Value{Type: inst.Types.PointerTo(inst.Types.Char), Pointer: PointerValue{Kind: PointerNull}}, nil
}

// rootAndBase returns the aggregate Value backing v's byte buffer and the
// absolute offset within it that v's own buffer starts at, so a new
// shared view can be built at an index relative to v.
func rootAndBase(v *Value) (*Value, int) {
	if v.Type.Kind == KindPointer && v.Pointer.Target != nil {
		return v.Pointer.Target, v.Pointer.Offset
	}
	return v, 0
}

func picocMemcpy(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	dst := charBuf(argAt(args, 0))
	src := charBuf(argAt(args, 1))
	n := int(argInt(args, 2))
	if n > len(dst) {
		n = len(dst)
	}
	if n > len(src) {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return argAt(args, 0), nil
}

func picocMemset(inst *Instance, ps *ParserState, args []*Value) (*Value, error) {
	dst := charBuf(argAt(args, 0))
	val := byte(argInt(args, 1))
	n := int(argInt(args, 2))
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = val
	}
	return argAt(args, 0), nil
}
