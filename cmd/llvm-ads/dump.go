package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"llvmads/internal/diag"
	"llvmads/internal/driver"
	"llvmads/internal/loader"
	"llvmads/internal/typedump"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <input> <output.mp|output.toml>",
		Short: "Convert an input into a module dump",
		Long: `dump loads any supported input and writes its modules as a dump: msgpack
by default, TOML when the output ends in .toml. Dumps load faster than
textual IR and make stable test fixtures.`,
		Args: cobra.ExactArgs(2),
		RunE: runDump,
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	in, out := args[0], args[1]
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiag)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	mods, err := loader.Load(cmd.Context(), in, reporter)
	if err != nil {
		return finish(cmd, bag, err)
	}
	bundle, err := typedump.FromModules(mods)
	if err != nil {
		return finish(cmd, bag, err)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			diag.Errorf(reporter, diag.OutCreate, out, "%v", err)
			return finish(cmd, bag, err)
		}
	}
	err = driver.WriteAtomic(out, func(f *os.File) error {
		if strings.EqualFold(filepath.Ext(out), ".toml") {
			return typedump.EncodeTOML(f, bundle)
		}
		return typedump.EncodeMsgpack(f, bundle)
	})
	if err != nil {
		diag.Errorf(reporter, diag.OutWrite, out, "%v", err)
		return finish(cmd, bag, err)
	}
	statusf(cmd, "wrote %s (%d module(s))\n", out, len(bundle.Modules))
	return finish(cmd, bag, nil)
}
