// Package diag implements spec component 6/7's diagnostic reports:
// each report carries a level, a module, the reporting call site
// (file/line/function), an input reference, and a (start_mark,
// end_mark) byte/line/column range — independent of Go's error values
// so multiple diagnostics can accumulate per operation instead of a
// single returned error replacing the last.
//
// Rendering is grounded directly on an error/printer
// stack: errors/error.go's *syntaxError formats a positioned message
// through printer.Printer (source-line excerpt plus a `^` annotation),
// and cmd/ycat/ycat.go wraps its writer in mattn/go-colorable so ANSI
// color codes degrade gracefully on non-TTY output (Windows consoles,
// piped output) — StreamSink reuses that exact wrapping for its
// default writer.
package diag

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/fyparse/fyparse/errors"
	"github.com/fyparse/fyparse/printer"
	"github.com/fyparse/fyparse/token"
	"github.com/mattn/go-colorable"
)

// Level is a diagnostic severity (spec §6 "level (debug/info/notice/
// warning/error)").
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Module names the reporting subsystem (spec §6 "module (atom/scanner/
// parser/tree/builder/internal/system)").
type Module int

const (
	ModuleAtom Module = iota
	ModuleScanner
	ModuleParser
	ModuleTree
	ModuleBuilder
	ModuleInternal
	ModuleSystem
)

func (m Module) String() string {
	switch m {
	case ModuleAtom:
		return "atom"
	case ModuleScanner:
		return "scanner"
	case ModuleParser:
		return "parser"
	case ModuleTree:
		return "tree"
	case ModuleBuilder:
		return "builder"
	case ModuleInternal:
		return "internal"
	case ModuleSystem:
		return "system"
	}
	return "unknown"
}

// Mark is a single position: (byte_pos, line, column) per spec §6.
type Mark struct {
	Byte   int
	Line   int
	Column int
}

// MarkOf projects a token.Position into a Mark.
func MarkOf(pos *token.Position) Mark {
	if pos == nil {
		return Mark{}
	}
	return Mark{Byte: pos.Offset, Line: pos.Line, Column: pos.Column}
}

// Report is one diagnostic entry (spec §6's full report shape).
type Report struct {
	Level   Level
	Module  Module
	Message string
	Input   string
	Start   Mark
	End     Mark

	File string
	Line int
	Func string
}

func (r *Report) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s:%d:%d-%d:%d) at %s:%d (%s)",
		r.Level, r.Module, r.Message,
		r.Input, r.Start.Line, r.Start.Column, r.End.Line, r.End.Column,
		r.File, r.Line, r.Func)
}

func newReport(skip int, level Level, module Module, input string, start, end Mark, format string, args ...interface{}) *Report {
	r := &Report{
		Level:   level,
		Module:  module,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
		Start:   start,
		End:     end,
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		r.File = file
		r.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			r.Func = fn.Name()
		}
	}
	return r
}

// New builds one diagnostic report at the given level/module/range,
// recording the call site two frames above New: the caller of the
// function that calls New, so a small reporting helper wrapping New
// (such as a Decoder's report method) is skipped.
func New(level Level, module Module, input string, start, end Mark, format string, args ...interface{}) *Report {
	return newReport(3, level, module, input, start, end, format, args...)
}

// Sink consumes reports as they are produced (spec §7 "Callers opting
// into COLLECT_DIAG can inspect a textual log; otherwise diagnostics
// are written to the configured stream").
type Sink interface {
	Report(r *Report)
}

// MemorySink collects reports in order, for COLLECT_DIAG-style
// in-memory inspection instead of immediate streaming.
type MemorySink struct {
	mu      sync.Mutex
	reports []*Report
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Report(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
}

// Reports returns a snapshot of the collected reports in arrival order.
func (s *MemorySink) Reports() []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// StreamSink writes each report to w as it arrives, formatted through
// a printer.Printer-style error-message rendering (colored when
// Colored is set).
type StreamSink struct {
	w       io.Writer
	Colored bool
}

// NewStreamSink wraps w for ANSI-safe writing: when colored is false,
// go-colorable strips any embedded escape codes so the caller's raw
// message text survives on a non-TTY destination (log file, pipe).
func NewStreamSink(w io.Writer, colored bool) *StreamSink {
	if !colored {
		w = colorable.NewNonColorable(w)
	}
	return &StreamSink{w: w, Colored: colored}
}

// NewStderrSink is the default diagnostic sink: colored output on a
// real terminal, degrading automatically on redirected/Windows output.
func NewStderrSink() *StreamSink {
	return &StreamSink{w: colorable.NewColorableStderr(), Colored: errors.ColoredErr}
}

func (s *StreamSink) Report(r *Report) {
	var p printer.Printer
	fmt.Fprintln(s.w, p.PrintErrorMessage(r.String(), s.Colored))
}
