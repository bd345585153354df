package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wafer-lang/waferc/internal/cache"
)

func TestCompileCached_MatchesUncachedOutput(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	src := `func main() { 1 + 2 }`
	require.Equal(t, Compile(src), CompileCached(c, src))
}

func TestCompileCached_SecondCallHitsCache(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	src := `func main() { 7 }`
	first := CompileCached(c, src)
	second := CompileCached(c, src)
	require.Equal(t, first, second)
}
