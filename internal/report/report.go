// Package report renders a smoke run for a human watching the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// Reporter writes tagged lines. It is not safe for concurrent use.
type Reporter struct {
	out io.Writer
	au  aurora.Aurora
}

// New returns a reporter on out. Colors are only emitted when color is set.
func New(out io.Writer, color bool) *Reporter {
	return &Reporter{out: out, au: aurora.NewAurora(color)}
}

// Stdout returns a reporter on os.Stdout, colored when it is a terminal.
func Stdout() *Reporter {
	return New(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

func (r *Reporter) Info(format string, args ...any) {
	r.tagged(r.au.Cyan("[INFO]"), format, args...)
}

func (r *Reporter) Success(format string, args ...any) {
	r.tagged(r.au.Green("[SUCCESS]"), format, args...)
}

func (r *Reporter) Error(format string, args ...any) {
	r.tagged(r.au.Red("[ERROR]"), format, args...)
}

// Detail prints an indented bullet under the previous tagged line.
func (r *Reporter) Detail(format string, args ...any) {
	fmt.Fprintf(r.out, "    - "+format+"\n", args...)
}

// Hint prints a continuation line aligned under an [ERROR] message.
func (r *Reporter) Hint(format string, args ...any) {
	fmt.Fprintf(r.out, "        "+format+"\n", args...)
}

func (r *Reporter) Blank() {
	fmt.Fprintln(r.out)
}

// Block prints text as is, ensuring it ends with a newline.
func (r *Reporter) Block(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	io.WriteString(r.out, text)
}

func (r *Reporter) tagged(tag aurora.Value, format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

// PhaseRow is one line of the run summary.
type PhaseRow struct {
	Phase    string
	Status   string
	Requests int
	Duration time.Duration
}

// Summary renders the per-phase table printed at the end of a run.
func (r *Reporter) Summary(rows []PhaseRow) {
	tw := tablewriter.NewWriter(r.out)
	tw.SetHeader([]string{"phase", "status", "requests", "duration"})
	for _, row := range rows {
		tw.Append([]string{
			row.Phase,
			row.Status,
			fmt.Sprintf("%d", row.Requests),
			row.Duration.Round(time.Millisecond).String(),
		})
	}
	tw.Render()
}
