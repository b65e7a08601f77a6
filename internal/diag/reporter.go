package diag

import "fmt"

// Reporter is the minimal contract for receiving diagnostics from a phase.
// Implementations: BagReporter (stores into a Bag), DedupReporter (filters
// repeats) and NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, subject, msg string, notes []Note)
}

// Errorf reports a SevError diagnostic with a formatted message.
func Errorf(r Reporter, code Code, subject, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(code, SevError, subject, fmt.Sprintf(format, args...), nil)
}

// Warnf reports a SevWarning diagnostic with a formatted message.
func Warnf(r Reporter, code Code, subject, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(code, SevWarning, subject, fmt.Sprintf(format, args...), nil)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, subject, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Subject: subject, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, string, []Note) {}

type dedupKey struct {
	code    Code
	sev     Severity
	subject string
	msg     string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, subject and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, subject, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, subject: subject, msg: msg}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, subject, msg, notes)
	}
}
