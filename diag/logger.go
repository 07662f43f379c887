// Package diag accumulates the typed error and warning messages produced
// while analyzing a script and renders them in the host's fixed format.
package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/secondlife/tailslide/ast"
)

// Severity orders message classes from most to least severe; the sort
// order of a log keyed by (severity, line, column) relies on it.
type Severity int

const (
	SevError Severity = iota
	SevWarn
	SevInfo
	SevDebug
	SevOther
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarn:
		return "WARN"
	case SevInfo:
		return "INFO"
	case SevDebug:
		return "DEBUG"
	}
	return "OTHER"
}

// Message is one rendered diagnostic.
type Message struct {
	Severity Severity
	Loc      ast.Loc
	Code     Code
	Text     string
}

// String renders the message as `<SEV>:: (<line>,<col>): [E<code>] <text>`.
// The severity is right-padded to width 5, line and column right-justified
// to width 3. The location prefix is omitted when both components are
// non-positive and the code prefix when the code is zero.
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%5s:: ", m.Severity)
	if m.Loc.FirstLine > 0 || m.Loc.FirstColumn > 0 {
		fmt.Fprintf(&b, "(%3d,%3d): ", m.Loc.FirstLine, m.Loc.FirstColumn)
	}
	if m.Code != 0 {
		fmt.Fprintf(&b, "[E%d] ", int(m.Code))
	}
	b.WriteString(m.Text)
	return b.String()
}

// Logger accumulates diagnostics for one script. It is not safe for
// concurrent use; each script analysis owns its logger.
type Logger struct {
	messages []*Message
	errors   int
	warnings int
	sorted   bool
	showInfo bool
}

func NewLogger() *Logger {
	return &Logger{}
}

// SetSort keeps messages stably ordered by (severity, line, column).
func (l *Logger) SetSort(sorted bool) { l.sorted = sorted }

// SetShowInfo enables recording of info-level messages, off by default.
func (l *Logger) SetShowInfo(show bool) { l.showInfo = show }

func (l *Logger) Messages() []*Message { return l.messages }
func (l *Logger) Errors() int          { return l.errors }
func (l *Logger) Warnings() int        { return l.warnings }

// Reset drops all messages and counters.
func (l *Logger) Reset() {
	l.messages = nil
	l.errors = 0
	l.warnings = 0
}

// Report formats and records the diagnostic identified by code. The
// severity is derived from the code's band.
func (l *Logger) Report(loc ast.Loc, code Code, args ...any) {
	format, ok := messageFormats[code]
	if !ok {
		panic(fmt.Sprintf("diag: unknown diagnostic code %d", int(code)))
	}
	sev := SevError
	if code.IsWarning() {
		sev = SevWarn
	}
	l.append(&Message{Severity: sev, Loc: loc, Code: code, Text: fmt.Sprintf(format, args...)})
}

// Log records a free-form message at the given severity with no code.
func (l *Logger) Log(sev Severity, loc ast.Loc, format string, args ...any) {
	if sev == SevInfo && !l.showInfo {
		return
	}
	if sev == SevDebug {
		return
	}
	l.append(&Message{Severity: sev, Loc: loc, Text: fmt.Sprintf(format, args...)})
}

func (l *Logger) append(m *Message) {
	switch m.Severity {
	case SevError:
		l.errors++
	case SevWarn:
		l.warnings++
	}
	l.messages = append(l.messages, m)
	if l.sorted {
		sort.SliceStable(l.messages, func(i, j int) bool {
			a, b := l.messages[i], l.messages[j]
			if a.Severity != b.Severity {
				return a.Severity < b.Severity
			}
			if a.Loc.FirstLine != b.Loc.FirstLine {
				return a.Loc.FirstLine < b.Loc.FirstLine
			}
			return a.Loc.FirstColumn < b.Loc.FirstColumn
		})
	}
}

// FilterAssertions matches the messages against the expected (line, code)
// pairs collected from a test script. Matched messages are suppressed;
// each unmatched expectation surfaces as a synthetic error on its line.
// The logger itself is left untouched.
func (l *Logger) FilterAssertions(asserts []ast.Assertion) []*Message {
	remaining := append([]ast.Assertion(nil), asserts...)
	var filtered []*Message
	for _, msg := range l.messages {
		suppressed := false
		for i, a := range remaining {
			if a.Line == msg.Loc.FirstLine && Code(a.Code) == msg.Code {
				remaining = append(remaining[:i], remaining[i+1:]...)
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, msg)
		}
	}
	for _, failed := range remaining {
		filtered = append(filtered, &Message{
			Severity: SevError,
			Loc:      ast.Loc{FirstLine: failed.Line, FirstColumn: 1, LastLine: failed.Line, LastColumn: 1},
			Code:     ErrBase,
			Text:     fmt.Sprintf("Assertion failed: expected error %d", failed.Code),
		})
	}
	return filtered
}

// WriteReport prints every message followed by the totals trailer.
func (l *Logger) WriteReport(w io.Writer) {
	for _, m := range l.messages {
		fmt.Fprintln(w, m.String())
	}
	fmt.Fprintf(w, "TOTAL:: Errors: %d  Warnings: %d\n", l.errors, l.warnings)
}
