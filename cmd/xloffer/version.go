package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// set with -ldflags "-X main.version=..."
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// no config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if v == "" {
			if info, ok := debug.ReadBuildInfo(); ok {
				v = info.Main.Version
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "xloffer %s\n", v)
	},
}
