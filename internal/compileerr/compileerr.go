// Package compileerr defines the compiler's single error type and the
// fail-fast convention used throughout the front end: a stage that hits a
// fatal condition panics with a *CompileError rather than threading an
// error return through every call site. Only the CLI boundary
// (internal/cmd: compile, watch and serve) recovers it.
package compileerr

import "fmt"

// CompileError is the one error shape the compiler ever produces. Stage
// names which pipeline phase detected the problem (e.g. "parse",
// "resolve", "lower"); Message is a short human-readable description with
// no source span, matching the reference behavior in the specification.
type CompileError struct {
	Stage   string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Fail panics with a *CompileError built from stage and a printf-style
// message. Every front-end package calls this instead of returning an
// error.
func Fail(stage, format string, args ...any) {
	panic(&CompileError{Stage: stage, Message: fmt.Sprintf(format, args...)})
}
