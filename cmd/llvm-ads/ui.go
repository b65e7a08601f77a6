package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llvmads/internal/diag"
	"llvmads/internal/diagfmt"
)

func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stderr) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("invalid --color value %q (expected: auto|on|off)", mode)
	}
	return nil
}

// reportDiagnostics prints the bag. With --quiet only errors are shown.
func reportDiagnostics(cmd *cobra.Command, bag *diag.Bag) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	format, _ := cmd.Flags().GetString("diagnostics-format")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")

	shown := bag
	if quiet {
		shown = diag.NewBag(maxDiag)
		for _, d := range bag.Items() {
			if d.Severity.Fails() {
				shown.Add(d)
			}
		}
	}
	shown.Sort()

	out := cmd.ErrOrStderr()
	switch strings.ToLower(format) {
	case "json":
		return diagfmt.JSON(out, shown, diagfmt.JSONOpts{Max: maxDiag, IncludeNotes: true})
	case "pretty":
		return diagfmt.Pretty(out, shown, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			ShowNotes: true,
			Prog:      progName,
		})
	default:
		return fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", format)
	}
}

// finish prints diagnostics and turns a failed run into errReported so
// main does not repeat what the diagnostics already said.
func finish(cmd *cobra.Command, bag *diag.Bag, runErr error) error {
	if err := reportDiagnostics(cmd, bag); err != nil {
		return err
	}
	if runErr != nil && bag != nil && bag.HasErrors() {
		return errReported
	}
	return runErr
}

func statusf(cmd *cobra.Command, format string, args ...any) {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
