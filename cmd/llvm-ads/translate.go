package main

import (
	"github.com/spf13/cobra"

	"llvmads/internal/diag"
	"llvmads/internal/driver"
	"llvmads/internal/observ"
)

func runTranslate(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiag)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	opts, err := resolveOptions(cmd, reporter)
	if err != nil {
		return finish(cmd, bag, err)
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		timer = observ.NewTimer()
	}

	res, err := driver.Translate(cmd.Context(), driver.Request{
		Input:    args[0],
		Output:   args[1],
		Options:  opts,
		Reporter: reporter,
		Cache:    cache,
		Timer:    timer,
	})
	if err == nil {
		for _, out := range res.Outputs {
			statusf(cmd, "wrote %s (package %s)\n", out.Path, out.Unit)
		}
	}
	printTimings(cmd, timer)
	return finish(cmd, bag, err)
}
