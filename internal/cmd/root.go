// Package cmd implements waferc's command-line surface: compile, watch,
// serve and version, built on cobra the way tecch-wiz-hintents structures
// its own CLI.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/wafer-lang/waferc/internal/telemetry"
)

// Version is set by cmd/waferc/main.go from build-time ldflags.
var Version = "dev"

var (
	cacheDirFlag string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "waferc",
	Short: "Compile Wafer source to WebAssembly 1.0 binary modules",
	Long: `waferc compiles Wafer, a small statically-typed, expression-oriented
language, directly to WebAssembly 1.0 binary modules.

Examples:
  waferc compile main.wafer           Compile to main.wasm
  waferc compile --cache .wafer-cache main.wafer
  waferc watch main.wafer             Recompile on every save
  waferc serve --port 4217            Expose Compile over JSON-RPC`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevelFlag != "" {
			var level zapcore.Level
			if err := level.UnmarshalText([]byte(logLevelFlag)); err == nil {
				telemetry.SetLevel(level)
			}
		}
		return nil
	},
	// waferc <file> with no subcommand is shorthand for waferc compile <file>.
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runCompile(args[0])
	},
}

// Execute runs the root command; it is the single entry point called from
// cmd/waferc/main.go.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache", "", "compilation cache directory (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override WAFER_LOG for this run (debug, info, warn, error)")
}
