// Package driver runs translations end to end: load, emit, write.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"llvmads/internal/backend/ada"
	"llvmads/internal/diag"
	"llvmads/internal/loader"
	"llvmads/internal/observ"
	"llvmads/internal/trace"
	"llvmads/internal/typedump"
	"llvmads/internal/types"
)

// ErrNoModules is returned for inputs that decode to an empty bundle.
var ErrNoModules = errors.New("input holds no modules")

// Request describes one input file and where its specs go.
type Request struct {
	Input    string
	Output   string
	Options  ada.Options
	Reporter diag.Reporter
	// Cache, when set, memoizes parsed .ll inputs.
	Cache *DiskCache
	// Timer, when set, receives the load, emit and write phases.
	Timer *observ.Timer
	// Progress, when set, is told about every stage under Label
	// (Input when Label is empty).
	Progress ProgressSink
	Label    string
}

func (r Request) label() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Input
}

// Output is one written package spec.
type Output struct {
	Path   string
	Unit   string
	Source string
}

// Result lists what a translation produced.
type Result struct {
	Input   string
	Outputs []Output
	Cached  bool
}

// Translate loads req.Input and writes one spec per module. Every module is
// rendered, then staged to a temp file, before the first output is renamed
// into place, so type errors and write errors leave no partial output. Only
// a failing rename, after the others succeeded, can leave earlier modules
// written.
func Translate(ctx context.Context, req Request) (*Result, error) {
	if req.Reporter == nil {
		req.Reporter = diag.NopReporter{}
	}
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "translate "+req.Input)
	res, err := translate(ctx, req)
	if err != nil {
		span.End(err.Error())
		report(req.Progress, req.label(), StageWrite, StatusError)
		return nil, err
	}
	span.WithExtra("outputs", strconv.Itoa(len(res.Outputs))).End("")
	report(req.Progress, req.label(), StageWrite, StatusDone)
	return res, nil
}

func translate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{Input: req.Input}

	report(req.Progress, req.label(), StageLoad, StatusWorking)
	idx := req.Timer.Begin("load")
	mods, cached, err := loadModules(ctx, req)
	if err != nil {
		req.Timer.End(idx, "failed")
		return nil, err
	}
	res.Cached = cached
	note := fmt.Sprintf("%d module(s)", len(mods))
	if cached {
		note += ", cached"
	}
	req.Timer.End(idx, note)
	if len(mods) == 0 {
		diag.Errorf(req.Reporter, diag.LoadMalformed, req.Input, "%v", ErrNoModules)
		return nil, fmt.Errorf("%s: %w", req.Input, ErrNoModules)
	}

	report(req.Progress, req.label(), StageEmit, StatusWorking)
	idx = req.Timer.Begin("emit")
	outputs, err := emitModules(ctx, req, mods)
	req.Timer.End(idx, "")
	if err != nil {
		return nil, err
	}

	report(req.Progress, req.label(), StageWrite, StatusWorking)
	idx = req.Timer.Begin("write")
	err = writeOutputs(ctx, req, outputs)
	req.Timer.End(idx, "")
	if err != nil {
		return nil, err
	}
	res.Outputs = outputs
	return res, nil
}

func loadModules(ctx context.Context, req Request) ([]*types.Module, bool, error) {
	if req.Cache == nil || loader.DetectFormat(req.Input) != loader.FormatLL {
		mods, err := loader.Load(ctx, req.Input, req.Reporter)
		return mods, false, err
	}

	content, err := os.ReadFile(req.Input)
	if err != nil {
		diag.Errorf(req.Reporter, diag.LoadUnreadable, req.Input, "%v", err)
		return nil, false, err
	}
	key := HashContent(content)
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	if b, ok, err := req.Cache.Get(key); err == nil && ok {
		if mods, err := b.ToModules(); err == nil {
			trace.Point(tracer, trace.ScopePass, "cache hit", parent, req.Input)
			return mods, true, nil
		}
	}

	mods, err := loader.Load(ctx, req.Input, req.Reporter)
	if err != nil {
		return nil, false, err
	}
	if b, err := typedump.FromModules(mods); err == nil {
		if err := req.Cache.Put(key, b); err != nil {
			trace.Point(tracer, trace.ScopePass, "cache store failed", parent, err.Error())
		}
	}
	return mods, false, nil
}

func emitModules(ctx context.Context, req Request, mods []*types.Module) ([]Output, error) {
	span, ctx := trace.Start(ctx, trace.ScopePass, "emit")
	outputs := make([]Output, 0, len(mods))
	for i, m := range mods {
		path, unit := ModuleOutput(req.Output, i)
		mspan, _ := trace.Start(ctx, trace.ScopeModule, "module:"+moduleLabel(m, i))
		text, err := ada.EmitModule(m, unit, req.Options)
		if err != nil {
			mspan.End(err.Error())
			span.End(err.Error())
			code := diag.TypeInfo
			if errors.Is(err, ada.ErrUnsupportedType) {
				code = diag.TypeUnsupported
			}
			diag.Errorf(req.Reporter, code, req.Input, "%v", err)
			return nil, fmt.Errorf("%s: %w", req.Input, err)
		}
		traceDecls(ctx, m, mspan.ID())
		mspan.WithExtra("unit", unit).End("")
		outputs = append(outputs, Output{Path: path, Unit: unit, Source: text})
	}
	span.End("")
	return outputs, nil
}

// traceDecls lists what a module declares; only at debug level.
func traceDecls(ctx context.Context, m *types.Module, parent uint64) {
	tracer := trace.FromContext(ctx)
	if !tracer.Enabled() || !tracer.Level().ShouldEmit(trace.ScopeDecl) {
		return
	}
	for _, st := range types.NamedStructs(m) {
		trace.Point(tracer, trace.ScopeDecl, "type "+st.Name, parent, "")
	}
	for _, fn := range m.Functions {
		trace.Point(tracer, trace.ScopeDecl, "subprogram "+fn.Name, parent, "")
	}
}

func moduleLabel(m *types.Module, i int) string {
	if m.SourceFileName != "" {
		return m.SourceFileName
	}
	return "#" + strconv.Itoa(i)
}

func writeOutputs(ctx context.Context, req Request, outputs []Output) error {
	span, _ := trace.Start(ctx, trace.ScopePass, "write")
	staged := make([]string, 0, len(outputs))
	discard := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			discard()
			span.End(err.Error())
			return err
		}
		if dir := filepath.Dir(out.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				discard()
				diag.Errorf(req.Reporter, diag.OutCreate, out.Path, "%v", err)
				span.End(err.Error())
				return err
			}
		}
		tmp, err := stage(out.Path, func(f *os.File) error {
			_, err := f.WriteString(out.Source)
			return err
		})
		if err != nil {
			discard()
			diag.Errorf(req.Reporter, diag.OutWrite, out.Path, "%v", err)
			span.End(err.Error())
			return fmt.Errorf("write %s: %w", out.Path, err)
		}
		staged = append(staged, tmp)
	}

	for i, tmp := range staged {
		if err := os.Rename(tmp, outputs[i].Path); err != nil {
			staged = staged[i:]
			discard()
			diag.Errorf(req.Reporter, diag.OutWrite, outputs[i].Path, "%v", err)
			span.End(err.Error())
			return fmt.Errorf("write %s: %w", outputs[i].Path, err)
		}
	}
	span.End("")
	return nil
}
