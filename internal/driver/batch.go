package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"llvmads/internal/backend/ada"
	"llvmads/internal/config"
	"llvmads/internal/diag"
	"llvmads/internal/loader"
	"llvmads/internal/observ"
)

// ErrOutputCollision marks a batch input whose output path is already
// claimed by an earlier input with the same stem.
var ErrOutputCollision = errors.New("output path already used by another input")

// DirRequest describes a batch translation of a directory tree.
type DirRequest struct {
	Dir            string
	OutDir         string
	Options        ada.Options
	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache
	Timings        bool
	// Progress receives a queued event for every input up front, then the
	// per-stage events of each translation.
	Progress ProgressSink
}

// DirResult is the outcome for one input file of a batch.
type DirResult struct {
	Path    string // relative to DirRequest.Dir
	Outputs []Output
	Bag     *diag.Bag
	Err     error
	Timer   *observ.Timer
}

// listInputs returns every translatable file under dir, sorted. ads.toml
// is configuration, not a module dump.
func listInputs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == config.FileName {
			return nil
		}
		if loader.DetectFormat(path) != loader.FormatUnknown {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// batchOutput mirrors rel under outDir with an .ads extension.
func batchOutput(outDir, rel string) string {
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outDir, stem+".ads")
}

// TranslateDir translates every input under req.Dir in parallel. A failing
// file does not stop the others; its error and diagnostics are kept in its
// result. Inputs that would write the same output as an earlier input (in
// sorted order) fail with ErrOutputCollision and are not translated. The
// returned error is reserved for walk failures and cancellation.
func TranslateDir(ctx context.Context, req DirRequest) ([]DirResult, error) {
	files, err := listInputs(req.Dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	rels := make([]string, len(files))
	for i, path := range files {
		rel, err := filepath.Rel(req.Dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		rels[i] = rel
		report(req.Progress, rel, StageLoad, StatusQueued)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]DirResult, len(files))

	// a.ll and a.toml both map to a.ads; the first in sorted order keeps it
	claimed := make(map[string]string, len(files))
	skip := make([]bool, len(files))
	for i, rel := range rels {
		out := batchOutput(req.OutDir, rel)
		first, taken := claimed[out]
		if !taken {
			claimed[out] = rel
			continue
		}
		bag := diag.NewBag(req.MaxDiagnostics)
		diag.Errorf(diag.BagReporter{Bag: bag}, diag.OutCollision, files[i],
			"output %s is already written for %s; rename one of the inputs", out, first)
		results[i] = DirResult{Path: rel, Bag: bag, Err: fmt.Errorf("%s: %w", files[i], ErrOutputCollision)}
		skip[i] = true
		report(req.Progress, rel, StageWrite, StatusError)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		if skip[i] {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			rel := rels[i]
			bag := diag.NewBag(req.MaxDiagnostics)
			var timer *observ.Timer
			if req.Timings {
				timer = observ.NewTimer()
			}
			res, err := Translate(gctx, Request{
				Input:    path,
				Output:   batchOutput(req.OutDir, rel),
				Options:  req.Options,
				Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
				Cache:    req.Cache,
				Timer:    timer,
				Progress: req.Progress,
				Label:    rel,
			})
			results[i] = DirResult{Path: rel, Bag: bag, Err: err, Timer: timer}
			if res != nil {
				results[i].Outputs = res.Outputs
			}
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
