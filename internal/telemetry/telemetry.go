// Package telemetry wires up the process-wide structured logger and
// tracer used across the compiler's pipeline phases. Logging goes
// through zap, configured from the WAFER_LOG environment variable;
// tracing goes through OpenTelemetry with no exporter registered by
// default, so spans are created and discarded in-process unless a caller
// configures a real exporter.
package telemetry

import (
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
	tracer trace.Tracer
	level  zap.AtomicLevel
)

// Logger returns the process-wide zap logger, built from WAFER_LOG on
// first use (one of "debug", "info", "warn", "error"; defaults to
// "warn").
func Logger() *zap.Logger {
	once.Do(initTelemetry)
	return logger
}

// Tracer returns the process-wide tracer used to span each compile
// pipeline phase.
func Tracer() trace.Tracer {
	once.Do(initTelemetry)
	return tracer
}

func initTelemetry() {
	initial := zapcore.WarnLevel
	if env := os.Getenv("WAFER_LOG"); env != "" {
		if err := (&initial).UnmarshalText([]byte(env)); err != nil {
			initial = zapcore.WarnLevel
		}
	}
	level = zap.NewAtomicLevelAt(initial)

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	built, err := cfg.Build()
	if err != nil {
		built = zap.NewNop()
	}
	logger = built

	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer("github.com/wafer-lang/waferc/internal/compiler")
}

// SetLevel overrides the logger's level after initialization, for callers
// (such as a --log-level CLI flag) that need to adjust verbosity without
// re-exporting WAFER_LOG into the environment.
func SetLevel(l zapcore.Level) {
	Logger() // ensure initTelemetry has run
	level.SetLevel(l)
}
