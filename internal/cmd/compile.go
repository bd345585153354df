package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wafer-lang/waferc/internal/cache"
	"github.com/wafer-lang/waferc/internal/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file.wafer>",
	Short: "Compile a Wafer source file to a WebAssembly binary module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

// runCompile reads path, compiles it (via the cache if --cache was given),
// and writes the result alongside path with its extension swapped to
// ".wasm". It recovers a *compiler.CompileError panic and turns it into a
// formatted message and exit code 101 (watch and serve recover it too, as
// a returned error).
func runCompile(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*compiler.CompileError); ok {
				printCompileError(ce)
				os.Exit(101)
			}
			panic(r)
		}
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out := compileSource(string(source))

	outPath := swapExtension(path, ".wasm")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("%s -> %s (%d bytes)\n", path, outPath, len(out))
	return nil
}

// compileSource runs the compiler, consulting the cache directory named by
// --cache when one was given.
func compileSource(source string) []byte {
	if cacheDirFlag == "" {
		return compiler.Compile(source)
	}
	c, err := cache.Open(cacheDirFlag)
	if err != nil {
		color.Yellow("warning: cache unavailable (%v), compiling without it", err)
		return compiler.Compile(source)
	}
	defer c.Close()
	return compiler.CompileCached(c, source)
}

func swapExtension(path, newExt string) string {
	if dot := strings.LastIndexByte(path, '.'); dot != -1 {
		return path[:dot] + newExt
	}
	return path + newExt
}

func printCompileError(ce *compiler.CompileError) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error[%s]: ", ce.Stage)
	fmt.Fprintln(os.Stderr, ce.Message)
}
