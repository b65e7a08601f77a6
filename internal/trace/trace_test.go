package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		if _, err := ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeModule) {
		t.Fatalf("phase level must stop at passes")
	}
	if !LevelDetail.ShouldEmit(ScopeModule) || LevelDetail.ShouldEmit(ScopeDecl) {
		t.Fatalf("detail level must stop at modules")
	}
	if !LevelDebug.ShouldEmit(ScopeDecl) {
		t.Fatalf("debug level must emit declarations")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	outer, ctx := Start(ctx, ScopeDriver, "translate")
	inner, _ := Start(ctx, ScopePass, "emit")
	if CurrentSpan(ctx).SpanID != outer.ID() {
		t.Fatalf("context must carry the outer span")
	}
	inner.WithExtra("decls", "3").End("")
	outer.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], `"name":"emit"`) || !strings.Contains(lines[1], `"parent_id"`) {
		t.Fatalf("inner begin must name its parent: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"decls":"3"`) {
		t.Fatalf("extra missing from end event: %s", lines[2])
	}
}

func TestDisabledSpanKeepsParent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	pass, ctx := Start(ctx, ScopePass, "emit")
	mod, ctx := Start(ctx, ScopeModule, "module:a.c")
	if mod.ID() != pass.ID() {
		t.Fatalf("filtered span must report its parent id")
	}
	decl, _ := Start(ctx, ScopeDecl, "Point")
	decl.End("")
	mod.End("")
	pass.End("")
	if strings.Contains(buf.String(), "module:a.c") {
		t.Fatalf("module span leaked at phase level:\n%s", buf.String())
	}
}

func TestErrorLevelKeepsFailures(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Begin(tr, ScopePass, "load", 0).End("")
	Begin(tr, ScopePass, "write", 0).End("permission denied")
	out := buf.String()
	if strings.Contains(out, "load") || !strings.Contains(out, "write (permission denied)") {
		t.Fatalf("unexpected error-level output:\n%s", out)
	}
}

func TestNopFromEmptyContext(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatalf("empty context must yield the nop tracer")
	}
	span, _ := Start(context.Background(), ScopeDriver, "x")
	if span.End("") != 0 {
		t.Fatalf("nop span must report zero duration")
	}
}
