// Package picoc implements an embeddable interpreter for a small C-like
// language: a single-pass parse-and-execute core over a dual stack/heap
// arena, with a type tree, scoped symbol tables, and a host library
// registration surface.
package picoc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Instance owns all interpreter state. Per Design Notes §9 ("Global
// mutable state"), there are no package-level globals anywhere in this
// module; every entry point takes an *Instance explicitly, and multiple
// Instances may coexist without interacting (spec §5).
type Instance struct {
	Config *Config
	Logger *Logger

	Arena    *Arena
	Interner *Interner
	Types    *TypeTree

	Globals        *SymbolTable
	StringLiterals *SymbolTable
	ReservedWords  *SymbolTable
	Breakpoints    *SymbolTable

	TopFrame *StackFrame

	libraries      []*Bundle
	registeredLibs map[string]*Bundle
	includedLibs   map[string]bool

	exitPointSet bool
	errnoValue   int64

	sourceLines map[string][]string // filename -> lines, for caret diagnostics
	scriptArgs  []string

	Writer io.Writer // host write stream (§6): where printf and the other output intrinsics write; diagnostics go through Logger
}

// New constructs and initializes an Instance. A nil cfg uses
// DefaultConfig(), mirroring _examples/phroun-pawscript/pawscript.go's
// New(config *Config) pattern.
func New(cfg *Config) *Instance {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	inst := &Instance{
		Config:         cfg,
		Logger:         NewLogger(cfg.Debug),
		registeredLibs: make(map[string]*Bundle),
		includedLibs:   make(map[string]bool),
		sourceLines:    make(map[string][]string),
		Writer:         os.Stdout,
	}
	inst.Init(cfg.ArenaSize)
	registerStdlibBundles(inst)
	return inst
}

// Init constructs the arena, base types, and symbol tables — the
// `init(instance, arena-size)` host entry point of spec §6. Exposed as a
// method (rather than folded invisibly into New) so an embedder that
// built an Instance by hand can call it explicitly, matching the source's
// separate PicocInitialise step.
func (inst *Instance) Init(arenaSize int) {
	inst.Arena = NewArena(arenaSize)
	inst.Interner = NewInterner()
	inst.Types = NewTypeTree(inst.Interner)
	inst.Globals = NewSymbolTable(GlobalTableSize)
	inst.StringLiterals = NewSymbolTable(StringLiteralTableSize)
	inst.ReservedWords = NewSymbolTable(ReservedWordTableSize)
	inst.Breakpoints = NewSymbolTable(BreakpointTableSize)
	for kw := range keywords {
		inst.ReservedWords.Set(inst.Interner.Register(kw), GlobalScopeID, DeclSite{}, true)
	}
}

// SetExitPoint is retained purely as an interface-fidelity shim for spec
// §6's `set-exit-point(instance)`. The source uses it to install a
// longjump target; per Design Notes §9 this module propagates failures as
// ordinary Go errors instead, so there is no actual jump target to
// install. The first call returns nil ("returns zero on first call");
// there is no second-call/fail-channel-fired return path here because
// there is no longjump to resume from — callers detect failure from the
// error return of Parse/CallMain/etc. directly.
func (inst *Instance) SetExitPoint() error {
	inst.exitPointSet = true
	return nil
}

// ParseOptions controls one Parse invocation, matching the parameters of
// spec §6's `parse(instance, file-name, source-text, len, run,
// cleanup-now, cleanup-source, enable-debug)`.
type ParseOptions struct {
	Run          bool
	CleanupNow   bool
	CleanupSrc   bool
	EnableDebug  bool
}

// DefaultParseOptions runs and cleans up immediately, the common case for
// scan-file/one-shot script execution.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Run: true, CleanupNow: true, CleanupSrc: true}
}

// Parse lexes and parse-executes source text attributed to filename. This
// is the ExecuteSource core loop: it always runs to end-of-input, letting
// a top-level Failure return immediately.
func (inst *Instance) Parse(filename, source string, opts ParseOptions) error {
	inst.sourceLines[filename] = strings.Split(source, "\n")

	lx := NewLexer(filename, source)
	toks, err := lx.Tokenize()
	if err != nil {
		inst.reportIfFailure(err)
		return err
	}

	// ScopeID starts at RootScopeID, not GlobalScopeID: the latter tells
	// EnterBlock "there is no enclosing block, don't scope anything", which
	// would silence hide/revive for every block at file scope for the
	// entire parse (see calls.go's identical concern for function bodies).
	ps := &ParserState{Tokens: toks, Filename: filename, Line: 1, Column: 1, ScopeID: RootScopeID, DebugEnabled: opts.EnableDebug}
	if !opts.Run {
		ps.Mode = Skip
	}

	for ps.Peek().Kind != TokEOF {
		if err := ParseAndExecuteTopLevel(inst, ps); err != nil {
			inst.reportIfFailure(err)
			return err
		}
	}

	if opts.CleanupNow {
		// token buffers are ordinary Go slices reclaimed by the garbage
		// collector; nothing further to release here beyond what
		// Cleanup() already tears down for the Instance as a whole.
		if opts.CleanupSrc {
			delete(inst.sourceLines, filename)
		}
	}
	return nil
}

func (inst *Instance) reportIfFailure(err error) {
	f, ok := AsFailure(err)
	if !ok {
		return
	}
	var ctx []string
	if inst.Config.ShowErrorContext && f.Position != nil {
		ctx = inst.sourceLines[f.Position.Filename]
	}
	inst.Logger.ReportFailure(f, ctx)
}

// ScanFile reads a file and parses it with DefaultParseOptions, matching
// spec §6's `scan-file(instance, path)` convenience wrapper.
func (inst *Instance) ScanFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newFailure(ErrResource, nil, "cannot read %s: %v", path, err)
	}
	return inst.Parse(path, string(data), DefaultParseOptions())
}

// ParseInteractive runs a read-eval-print loop, reading one statement at a
// time from readLine (the host's line-input callback per spec §6). It
// returns nil when readLine reports end-of-input (its second return
// value false).
func (inst *Instance) ParseInteractive(readLine func() (string, bool)) error {
	for {
		line, ok := readLine()
		if !ok {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := inst.Parse("<interactive>", line, DefaultParseOptions()); err != nil {
			// interactive sessions keep prompting after a statement fails
			continue
		}
	}
}

// CallMain looks up a function named "main" and calls it, for spec §6's
// `call-main(instance, argc, argv)`. Each argv string is passed as its own
// char-array argument, in order; no argc value is passed and argv is not
// bound as a single char** value.
func (inst *Instance) CallMain(argv []string) (*Value, error) {
	entry, ok := inst.Globals.Get(inst.Interner.Register("main"))
	if !ok {
		return nil, newFailure(ErrName, nil, "'main' is undefined")
	}
	fnVal, ok := entry.Payload.(*Value)
	if !ok || fnVal.Type.Kind != KindFunction {
		return nil, newFailure(ErrType, nil, "'main' is not a function")
	}
	inst.scriptArgs = argv
	args := make([]*Value, 0, len(argv))
	for _, a := range argv {
		args = append(args, inst.newStringValue(a))
	}
	ps := &ParserState{Filename: "<call-main>", Line: 0, Column: 0, ScopeID: GlobalScopeID}
	return CallFunction(inst, ps, fnVal, args)
}

// IncludeAllSystemHeaders activates every library bundle named in
// Config.IncludeBundles, per spec §6.
func (inst *Instance) IncludeAllSystemHeaders() error {
	for _, name := range inst.Config.IncludeBundles {
		if err := inst.Include(name); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup tears down the Instance in the reverse order it was built, per
// spec §4.9: libraries, variables, types, lexer state, arena.
func (inst *Instance) Cleanup() {
	inst.libraries = nil
	inst.includedLibs = make(map[string]bool)

	inst.Globals.Each(func(e *SymbolEntry) {})
	inst.StringLiterals.Each(func(e *SymbolEntry) {})
	inst.Globals = NewSymbolTable(GlobalTableSize)
	inst.StringLiterals = NewSymbolTable(StringLiteralTableSize)

	inst.Types = nil
	inst.sourceLines = make(map[string][]string)
	inst.Arena = nil
}

func (inst *Instance) newStringValue(s string) *Value {
	t := inst.Types.ArrayOf(inst.Types.Char, len(s)+1)
	v, _ := AllocValueHeap(inst.Arena, t, false)
	copy(v.Bytes, s)
	return v
}

// Write sends interpreter output (printf, echo, ...) to the host's write
// stream, per spec §6 ("output is diagnostic text to the host-supplied
// write callback").
func (inst *Instance) Write(format string, args ...interface{}) {
	fmt.Fprintf(inst.Writer, format, args...)
}
