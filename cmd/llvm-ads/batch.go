package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"llvmads/internal/diag"
	"llvmads/internal/driver"
	"llvmads/internal/observ"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir> <outdir>",
		Short: "Translate every module file under a directory",
		Long: `batch walks <dir> for .ll, .mp, .msgpack and .toml inputs and writes one
spec per module under <outdir>, mirroring the directory layout.`,
		Args: cobra.ExactArgs(2),
		RunE: runBatch,
	}
	cmd.Flags().Int("jobs", 0, "max parallel translations (0=auto)")
	cmd.Flags().String("ui", string(uiModeAuto), "progress UI (auto|on|off)")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	jobs, _ := cmd.Flags().GetInt("jobs")
	timings, _ := cmd.Flags().GetBool("timings")
	quiet, _ := cmd.Flags().GetBool("quiet")
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiag)
	opts, err := resolveOptions(cmd, diag.BagReporter{Bag: bag})
	if err != nil {
		return finish(cmd, bag, err)
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}

	req := driver.DirRequest{
		Dir:            args[0],
		OutDir:         args[1],
		Options:        opts,
		Jobs:           jobs,
		MaxDiagnostics: maxDiag,
		Cache:          cache,
		Timings:        timings,
	}
	var results []driver.DirResult
	if shouldUseTUI(mode, quiet) {
		results, err = runBatchWithUI(cmd.Context(), cmd.OutOrStdout(), progName+" batch "+args[0], req)
	} else {
		results, err = driver.TranslateDir(cmd.Context(), req)
	}
	if err != nil {
		return err
	}
	if len(results) == 0 {
		statusf(cmd, "no inputs found in %s\n", args[0])
		return nil
	}

	timer := observ.NewTimer()
	failed := 0
	for _, res := range results {
		bag.Merge(res.Bag)
		timer.Merge(res.Path, res.Timer)
		if res.Err != nil {
			failed++
			continue
		}
		for _, out := range res.Outputs {
			statusf(cmd, "wrote %s (package %s)\n", out.Path, out.Unit)
		}
	}
	if timings {
		printTimings(cmd, timer)
	}
	if failed > 0 {
		return finish(cmd, bag, fmt.Errorf("%d of %d inputs failed", failed, len(results)))
	}
	return finish(cmd, bag, nil)
}
