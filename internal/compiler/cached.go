package compiler

import "github.com/wafer-lang/waferc/internal/cache"

// CompileCached compiles source through c, returning a previous result
// byte-for-byte if source was compiled before and skipping the pipeline
// entirely on a hit.
func CompileCached(c *cache.Cache, source string) []byte {
	return c.GetOrCompile(source, Compile)
}
