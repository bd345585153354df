package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecompileOnce_SuccessWritesOutputAndReportsSize(t *testing.T) {
	oldCache := cacheDirFlag
	cacheDirFlag = ""
	defer func() { cacheDirFlag = oldCache }()

	dir := t.TempDir()
	src := filepath.Join(dir, "main.wafer")
	require.NoError(t, os.WriteFile(src, []byte(`public func main() { 1 }`), 0o644))

	result := recompileOnce(src)
	require.NoError(t, result.err)
	require.Greater(t, result.bytes, 0)
	require.FileExists(t, filepath.Join(dir, "main.wasm"))
}

func TestRecompileOnce_CompileErrorIsReportedNotPanicked(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.wafer")
	require.NoError(t, os.WriteFile(src, []byte(`func main( { }`), 0o644))

	result := recompileOnce(src)
	require.Error(t, result.err)
}

func TestRecompileOnce_MissingFileIsReportedAsError(t *testing.T) {
	result := recompileOnce(filepath.Join(t.TempDir(), "missing.wafer"))
	require.Error(t, result.err)
}
