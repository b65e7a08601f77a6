package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "1 module")
	emit := tm.Begin("emit")
	tm.End(emit, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Note != "1 module" {
		t.Fatalf("note = %q", report.Phases[0].Note)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "load") || !strings.Contains(sum, "// 1 module") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerMerge(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	b.End(b.Begin("write"), "")
	a.Merge("x.ll", b)
	if got := a.Report().Phases[0].Name; got != "x.ll: write" {
		t.Fatalf("merged name = %q", got)
	}
	var nilTimer *Timer
	nilTimer.End(nilTimer.Begin("noop"), "")
	if len(nilTimer.Report().Phases) != 0 {
		t.Fatalf("nil timer must stay empty")
	}
}
