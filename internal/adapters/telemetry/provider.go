package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/restore/internal/core/ports"
)

// DurationLogger is a span processor that logs the duration of every finished span at debug level.
type DurationLogger struct {
	logger ports.Logger
}

var _ sdktrace.SpanProcessor = (*DurationLogger)(nil)

// NewDurationLogger creates a span processor writing to logger.
func NewDurationLogger(logger ports.Logger) *DurationLogger {
	return &DurationLogger{logger: logger}
}

// OnStart does nothing.
func (p *DurationLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, its duration and whether it failed.
func (p *DurationLogger) OnEnd(s sdktrace.ReadOnlySpan) {
	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	msg := fmt.Sprintf("span %s took %s", s.Name(), elapsed)
	if s.Status().Description != "" {
		msg += " (" + s.Status().Description + ")"
	}
	p.logger.Debug(msg)
}

// Shutdown does nothing.
func (p *DurationLogger) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *DurationLogger) ForceFlush(context.Context) error { return nil }

// Install sets a global tracer provider that reports span durations through logger.
// The returned function shuts the provider down.
func Install(logger ports.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewDurationLogger(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
