package compiler

import (
	"context"

	"github.com/wafer-lang/waferc/internal/telemetry"
)

func contextBackground() context.Context { return context.Background() }

// traced wraps fn in an OpenTelemetry span named name, child of ctx's
// span. It exists purely to keep Compile's pipeline readable: each phase
// gets its own span without repeating the Start/End boilerplate.
func traced[T any](ctx context.Context, name string, fn func() T) T {
	_, span := telemetry.Tracer().Start(ctx, name)
	defer span.End()
	return fn()
}
