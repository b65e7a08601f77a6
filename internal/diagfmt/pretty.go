// Package diagfmt renders diagnostic bags for people and machines.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"llvmads/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgBlue)
	subjectColor = color.New(color.Bold)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// [<prog>: ]<subject>: <severity> <CODE>: <Message>
// затем notes с отступом.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts) error {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}

	var sb strings.Builder
	if opts.Prog != "" {
		sb.WriteString(opts.Prog + ": ")
	}
	if d.Subject != "" {
		sb.WriteString(paint(subjectColor, d.Subject) + ": ")
	}
	sb.WriteString(paint(severityColor(d.Severity), severityLabel(d.Severity)))
	fmt.Fprintf(&sb, " %s: %s\n", d.Code.ID(), d.Message)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			sb.WriteString("  " + paint(noteColor, "note") + ": ")
			if n.Subject != "" {
				sb.WriteString(n.Subject + ": ")
			}
			sb.WriteString(n.Msg + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func severityLabel(s diag.Severity) string {
	return strings.ToLower(s.String())
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return noteColor
	}
}
