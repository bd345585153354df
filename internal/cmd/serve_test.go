package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wafer-lang/waferc/internal/cache"
)

func TestCompileService_Compile_ReturnsModuleBytes(t *testing.T) {
	svc := &CompileService{}
	var resp CompileResponse
	err := svc.Compile(nil, &CompileRequest{Source: `func main() { 5 }`}, &resp)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, resp.ModuleBytes[:8])
}

func TestCompileService_Compile_ReturnsErrorInsteadOfPanicking(t *testing.T) {
	svc := &CompileService{}
	var resp CompileResponse
	err := svc.Compile(nil, &CompileRequest{Source: `func main( { }`}, &resp)
	require.Error(t, err)
}

func TestCompileService_Compile_UsesCacheWhenConfigured(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	svc := &CompileService{cache: c}
	var resp1, resp2 CompileResponse
	require.NoError(t, svc.Compile(nil, &CompileRequest{Source: `func main() { 9 }`}, &resp1))
	require.NoError(t, svc.Compile(nil, &CompileRequest{Source: `func main() { 9 }`}, &resp2))
	require.Equal(t, resp1.ModuleBytes, resp2.ModuleBytes)
}
