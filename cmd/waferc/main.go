// Command waferc compiles Wafer source to WebAssembly 1.0 binary modules.
package main

import (
	"os"

	"github.com/wafer-lang/waferc/internal/cmd"
)

// version is overwritten at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.Version = version
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
