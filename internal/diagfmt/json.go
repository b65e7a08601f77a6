package diagfmt

import (
	"encoding/json"
	"io"

	"llvmads/internal/diag"
)

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Subject  string     `json:"subject,omitempty"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildOutput converts a bag into its JSON document.
func BuildOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	out.Count = len(items)
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Subject:  d.Subject,
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Subject: n.Subject, Message: n.Msg})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(bag, opts))
}
