package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"llvmads/internal/version"
)

const progName = "llvm-ads"

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   progName + " <input> <output.ads>",
		Short: "Generate Ada package specs from LLVM modules",
		Long: `llvm-ads reads the named struct types, functions and globals of an LLVM
module and writes an Ada package spec that imports them.

Inputs may be textual IR (.ll) or a module dump (.mp, .msgpack, .toml).`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runTranslate,
	}
	root.Version = version.Version

	root.AddCommand(newDumpCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diagnostics-format", "pretty", "diagnostics format (pretty|json)")
	pf.String("config", "", "path to ads.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Bool("cache", false, "cache parsed .ll inputs on disk")
	pf.String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/llvm-ads)")
	pf.Bool("cache-clear", false, "drop every cached entry before running")

	pf.Bool("globals", false, "import module globals")
	pf.Bool("no-provenance", false, "omit the \"-- Generated from\" line")
	pf.StringSlice("exclude", nil, "skip functions and globals whose linkage name has this prefix")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return applyColorMode(cmd)
	}
	return root
}

// main builds the command tree and executes it. Any error exits with status 1.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", progName, err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
