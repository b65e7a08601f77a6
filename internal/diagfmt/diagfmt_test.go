package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"llvmads/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LoadBitcode,
		Message:  "bitcode is not read directly",
		Subject:  "lib.bc",
		Notes:    []diag.Note{{Msg: "run llvm-dis first"}},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.LoadOpaquePointer,
		Message:  "opaque pointers are bound as pointers to i8",
		Subject:  "lib.ll",
	})
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{ShowNotes: true, Prog: "llvm-ads"}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "llvm-ads: lib.bc: error LDR1004: bitcode is not read directly\n" +
		"  note: run llvm-dis first\n" +
		"llvm-ads: lib.ll: warning LDR1005: opaque pointers are bound as pointers to i8\n"
	if got := buf.String(); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "note") {
		t.Fatalf("notes must be hidden unless requested")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{Max: 1, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, rendered = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "LDR1004" || d.Severity != "error" || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}
