package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"llvmads/internal/observ"
)

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
