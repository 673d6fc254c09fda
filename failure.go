package picoc

import "fmt"

// ErrorKind classifies a Failure per spec §7. These are the eight error
// kinds named there; they are not Go type names, just a tag carried by the
// single Failure error type below.
type ErrorKind int

const (
	ErrLex ErrorKind = iota
	ErrSyntax
	ErrType
	ErrName
	ErrArithmetic
	ErrResource
	ErrRuntime
	ErrUser
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex error"
	case ErrSyntax:
		return "syntax error"
	case ErrType:
		return "type error"
	case ErrName:
		return "name error"
	case ErrArithmetic:
		return "arithmetic error"
	case ErrResource:
		return "resource error"
	case ErrRuntime:
		return "runtime error"
	case ErrUser:
		return "user error"
	default:
		return "error"
	}
}

// Failure is the interpreter's single error type. Per Design Notes §9
// ("Non-local control flow"), the source's longjump-to-exit-point is
// replaced here by ordinary Go error propagation: every parse/execute
// function that can fail returns (..., error), and a *Failure travels back
// up the call stack a frame at a time until the top-level entry point
// (Parse, ParseInteractive, CallMain, ...) reports it to the host. Nothing
// in this package uses panic/recover for control flow.
type Failure struct {
	Kind     ErrorKind
	Position *SourcePosition
	Message  string
}

func (f *Failure) Error() string {
	if f.Position == nil {
		return f.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", f.Position.Filename, f.Position.Line, f.Position.Column, f.Message)
}

func newFailure(kind ErrorKind, pos *SourcePosition, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)}
}

// AsFailure unwraps err into a *Failure if it is one.
func AsFailure(err error) (*Failure, bool) {
	f, ok := err.(*Failure)
	return f, ok
}
