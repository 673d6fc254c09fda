package picoc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// SourcePosition locates a diagnostic in the original source text.
// Grounded on _examples/phroun-pawscript/types.go's SourcePosition, trimmed
// to the fields the core actually needs (no MacroContext: this language has
// no macro-expansion layer).
type SourcePosition struct {
	Filename string
	Line     int
	Column   int
	Length   int
}

// Logger handles diagnostic and debug output. Grounded almost verbatim on
// _examples/phroun-pawscript/logger.go: the same [TAG] prefixing, the same
// "at line %d, column %d in %s" layout, and the same caret-annotated
// source-context block, adapted from PawScript's MacroContext-aware
// formatting to this module's simpler Failure/SourcePosition types.
type Logger struct {
	enabled bool
	out     io.Writer
	errOut  io.Writer
}

// NewLogger creates a logger; debug output is gated on enabled.
func NewLogger(enabled bool) *Logger {
	return &Logger{enabled: enabled, out: os.Stdout, errOut: os.Stderr}
}

// SetEnabled toggles debug-level output.
func (l *Logger) SetEnabled(enabled bool) { l.enabled = enabled }

// SetOutput redirects normal and error output, used by embedders that want
// to capture interpreter output rather than writing to the process stdio.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	if out != nil {
		l.out = out
	}
	if errOut != nil {
		l.errOut = errOut
	}
}

// Debug logs a debug message, visible only when enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
	}
}

// Warn logs a warning, visible only when enabled.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[PicoC WARN] "+format+"\n", args...)
	}
}

// Error logs an error, visible only when enabled.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[PicoC ERROR] "+format+"\n", args...)
	}
}

// ReportFailure always writes a diagnostic for f (fatal errors are visible
// regardless of the debug flag, matching the teacher's ParseError/
// UnknownCommandError, which are "always visible"). context, if non-nil,
// is the source split into lines so a caret can be rendered under the
// failing column.
func (l *Logger) ReportFailure(f *Failure, context []string) {
	msg := fmt.Sprintf("[PicoC ERROR] %s: %s", f.Kind, f.Message)
	if f.Position != nil {
		filename := f.Position.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		msg += fmt.Sprintf("\n  at line %d, column %d in %s", f.Position.Line, f.Position.Column, filename)
		if len(context) > 0 {
			msg += l.formatSourceContext(f.Position, context)
		}
	}
	fmt.Fprintln(l.errOut, msg)
}

func (l *Logger) formatSourceContext(position *SourcePosition, context []string) string {
	var b strings.Builder
	b.WriteString("\n")

	contextStart := maxInt(0, position.Line-2)
	contextEnd := minInt(len(context), position.Line+1)

	for i := contextStart; i < contextEnd; i++ {
		lineNum := i + 1
		isErrorLine := lineNum == position.Line

		prefix := " "
		if isErrorLine {
			prefix = ">"
		}

		b.WriteString(fmt.Sprintf("\n  %s %3d | %s", prefix, lineNum, context[i]))

		if isErrorLine && position.Column > 0 {
			indent := "      | " + strings.Repeat(" ", position.Column-1)
			caretLen := maxInt(1, position.Length)
			b.WriteString(fmt.Sprintf("\n  %s%s", indent, strings.Repeat("^", caretLen)))
		}
	}

	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
