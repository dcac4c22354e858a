package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BinaryVersion is the current version of the amifind binary. Overridden at
// build time via -ldflags "-X main.BinaryVersion=...".
var BinaryVersion = "0.2.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information for this program",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), BinaryVersion)
		},
	}
}
