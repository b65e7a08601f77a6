package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pointDump = `schema = 2

[[module]]
source = "point.c"
structs = [2]

[[module.type]]
kind = "void"

[[module.type]]
kind = "int"
width = 32

[[module.type]]
kind = "struct"
name = "Point"
fields = [1, 1]

[[module.type]]
kind = "ptr"
elem = 2

[[module.global]]
name = "origin"
type = 2

[[module.function]]
name = "add"
result = 1
params = [{ type = 1 }, { type = 1 }]

[[module.function]]
name = "llvm.trap"
result = 0

[[module.function]]
name = "move"
result = 0
params = [{ name = "p", type = 3 }]
`

type cliRun struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color=off"}, args...))
	err := root.Execute()
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func fixture(t *testing.T) (dir, input, config string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "point.toml")
	if err := os.WriteFile(input, []byte(pointDump), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	config = filepath.Join(dir, "ads.toml")
	if err := os.WriteFile(config, []byte("[output]\nexclude = [\"llvm.\"]\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, input, config
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestTranslateCommand(t *testing.T) {
	dir, input, config := fixture(t)
	out := filepath.Join(dir, "Point_Api.ads")

	run := runCLI(t, "--config", config, input, out)
	if run.err != nil {
		t.Fatalf("translate failed: %v\n%s", run.err, run.stderr)
	}
	if !strings.Contains(run.stdout, "wrote "+out+" (package Point_Api)") {
		t.Fatalf("unexpected stdout: %q", run.stdout)
	}
	got := readOutput(t, out)
	if strings.Contains(got, "llvm_trap") || strings.Contains(got, "llvm.trap") {
		t.Fatalf("excluded function emitted:\n%s", got)
	}
	if strings.Contains(got, "-- globals") {
		t.Fatalf("globals must be off by default:\n%s", got)
	}
	for _, want := range []string{
		"package Point_Api is\n",
		`function add (a0 : i32; a1 : i32) return i32 with Import, External_Name => "add";`,
		"end Point_Api;",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestTranslateFlagsOverrideConfig(t *testing.T) {
	dir, input, config := fixture(t)
	out := filepath.Join(dir, "p.ads")

	run := runCLI(t, "--config", config, "--globals", "--no-provenance", "--quiet", input, out)
	if run.err != nil {
		t.Fatalf("translate failed: %v\n%s", run.err, run.stderr)
	}
	if run.stdout != "" {
		t.Fatalf("--quiet must silence status output, got %q", run.stdout)
	}
	got := readOutput(t, out)
	if strings.HasPrefix(got, "-- Generated from") {
		t.Fatalf("--no-provenance ignored:\n%s", got)
	}
	if !strings.Contains(got, "\n-- globals\norigin : Point with Import, External_Name => \"origin\";\n") {
		t.Fatalf("--globals ignored:\n%s", got)
	}
}

func TestTranslateReportsLoadErrors(t *testing.T) {
	dir, _, config := fixture(t)
	input := filepath.Join(dir, "lib.bc")
	if err := os.WriteFile(input, []byte{'B', 'C', 0xC0, 0xDE}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	run := runCLI(t, "--config", config, input, filepath.Join(dir, "lib.ads"))
	if !errors.Is(run.err, errReported) {
		t.Fatalf("expected reported failure, got %v", run.err)
	}
	if !strings.Contains(run.stderr, "llvm-ads: "+input+": error LDR1004:") {
		t.Fatalf("unexpected stderr: %q", run.stderr)
	}
}

func TestTranslateJSONDiagnostics(t *testing.T) {
	dir, _, config := fixture(t)
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("text"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	run := runCLI(t, "--config", config, "--diagnostics-format", "json", input, filepath.Join(dir, "x.ads"))
	if run.err == nil {
		t.Fatalf("expected failure")
	}
	var doc struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(run.stderr), &doc); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, run.stderr)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "LDR1003" {
		t.Fatalf("unexpected diagnostics: %+v", doc)
	}
}

func TestTranslateNeedsTwoArgs(t *testing.T) {
	if run := runCLI(t, "only-one.ll"); run.err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestDumpAndBatch(t *testing.T) {
	dir, input, config := fixture(t)
	srcDir := filepath.Join(dir, "src")
	mp := filepath.Join(srcDir, "point.mp")

	run := runCLI(t, "--config", config, "dump", input, mp)
	if run.err != nil {
		t.Fatalf("dump failed: %v\n%s", run.err, run.stderr)
	}
	if !strings.Contains(run.stdout, "(1 module(s))") {
		t.Fatalf("unexpected dump output: %q", run.stdout)
	}

	outDir := filepath.Join(dir, "out")
	run = runCLI(t, "--config", config, "batch", "--jobs", "2", "--ui", "off", srcDir, outDir)
	if run.err != nil {
		t.Fatalf("batch failed: %v\n%s", run.err, run.stderr)
	}
	got := readOutput(t, filepath.Join(outDir, "point.ads"))
	if !strings.Contains(got, "package point is") {
		t.Fatalf("unexpected batch output:\n%s", got)
	}
}

func TestVersionCommand(t *testing.T) {
	run := runCLI(t, "version", "--format", "json")
	if run.err != nil {
		t.Fatalf("version failed: %v", run.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(run.stdout), &payload); err != nil {
		t.Fatalf("version output is not JSON: %v", err)
	}
	if payload.Tool != progName || payload.Version == "" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if run := runCLI(t, "version", "--format", "yaml"); run.err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestBatchRejectsBadUIMode(t *testing.T) {
	dir, _, config := fixture(t)
	run := runCLI(t, "--config", config, "batch", "--ui", "sometimes", dir, filepath.Join(dir, "out"))
	if run.err == nil || !strings.Contains(run.err.Error(), "invalid --ui value") {
		t.Fatalf("expected --ui error, got %v", run.err)
	}
}

func TestShouldUseTUI(t *testing.T) {
	if shouldUseTUI(uiModeOn, true) {
		t.Fatalf("--quiet must disable the progress UI")
	}
	if !shouldUseTUI(uiModeOn, false) || shouldUseTUI(uiModeOff, false) {
		t.Fatalf("explicit modes must be honoured")
	}
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
}

const pointLL = `source_filename = "point.c"

%struct.Point = type { i32, i32 }

declare void @move(%struct.Point*)
`

func TestCacheClear(t *testing.T) {
	dir, _, config := fixture(t)
	input := filepath.Join(dir, "point.ll")
	if err := os.WriteFile(input, []byte(pointLL), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cacheDir := filepath.Join(dir, "cache")
	out := filepath.Join(dir, "point.ads")

	if run := runCLI(t, "--config", config, "--cache-dir", cacheDir, input, out); run.err != nil {
		t.Fatalf("translate failed: %v\n%s", run.err, run.stderr)
	}
	entries, err := os.ReadDir(filepath.Join(cacheDir, "mods"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache entry, got %v (%v)", entries, err)
	}

	// dumps are never cached, so nothing refills the store after the clear
	dump := filepath.Join(dir, "point.toml")
	run := runCLI(t, "--config", config, "--cache-dir", cacheDir, "--cache-clear", dump, filepath.Join(dir, "again.ads"))
	if run.err != nil {
		t.Fatalf("translate failed: %v\n%s", run.err, run.stderr)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "mods")); !os.IsNotExist(err) {
		t.Fatalf("--cache-clear left entries behind (stat err %v)", err)
	}
}
