// Package report prints the human-readable status text every command
// produces. Marks and rulers are fixed so that output stays greppable.
package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	markPass      = "✅"
	markFail      = "❌"
	markWarn      = "⚠️ "
	markInfo      = "ℹ️ "
	markLocked    = "🔒"
	markCelebrate = "🎉"
)

// Reporter writes a report to an underlying writer. Write errors are
// ignored: the report is best-effort console output.
type Reporter struct {
	w io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Title prints a heading underlined with a 60 character ruler.
func (r *Reporter) Title(title string) {
	fmt.Fprintln(r.w, title)
	fmt.Fprintln(r.w, Ruler('=', 60))
}

// Section prints a blank line and a heading framed by 50 character rulers.
func (r *Reporter) Section(title string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, Ruler('=', 50))
	fmt.Fprintln(r.w, title)
	fmt.Fprintln(r.w, Ruler('=', 50))
}

// Subsection prints a blank line and a heading underlined with dashes.
func (r *Reporter) Subsection(title string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, title)
	fmt.Fprintln(r.w, Ruler('-', 40))
}

func (r *Reporter) Pass(format string, args ...interface{}) { r.mark(markPass, format, args...) }

func (r *Reporter) Fail(format string, args ...interface{}) { r.mark(markFail, format, args...) }

func (r *Reporter) Warn(format string, args ...interface{}) { r.mark(markWarn, format, args...) }

func (r *Reporter) Info(format string, args ...interface{}) { r.mark(markInfo, format, args...) }

func (r *Reporter) Locked(format string, args ...interface{}) { r.mark(markLocked, format, args...) }

func (r *Reporter) Celebrate(format string, args ...interface{}) {
	r.mark(markCelebrate, format, args...)
}

// Item prints an indented list entry.
func (r *Reporter) Item(format string, args ...interface{}) {
	fmt.Fprintf(r.w, "  - %s\n", fmt.Sprintf(format, args...))
}

// Detail prints a continuation line that hangs off the previous entry.
func (r *Reporter) Detail(format string, args ...interface{}) {
	fmt.Fprintf(r.w, "   └── %s\n", fmt.Sprintf(format, args...))
}

func (r *Reporter) Line(format string, args ...interface{}) {
	fmt.Fprintln(r.w, fmt.Sprintf(format, args...))
}

func (r *Reporter) Blank() {
	fmt.Fprintln(r.w)
}

func (r *Reporter) mark(mark, format string, args ...interface{}) {
	fmt.Fprintf(r.w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Ruler returns n copies of c.
func Ruler(c rune, n int) string {
	return strings.Repeat(string(c), n)
}

// Truncate shortens s to at most n runes and appends "..." when it cut something.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// YesNo renders a verdict for summary lines.
func YesNo(ok bool) string {
	if ok {
		return markPass + " YES"
	}
	return markFail + " NO"
}

// Status renders a single pass/fail mark.
func Status(ok bool) string {
	if ok {
		return markPass
	}
	return markFail
}
