package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print waferc's version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		goVersion := "unknown"
		if info, ok := debug.ReadBuildInfo(); ok {
			goVersion = info.GoVersion
		}
		fmt.Printf("waferc %s (%s)\n", Version, goVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
