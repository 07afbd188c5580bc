package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/restore/internal/adapters/telemetry"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *telemetry.OTelTracer) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return sr, telemetry.NewOTelTracerFromProvider(tp, "test")
}

func TestOTelTracer_StartAppliesAttributes(t *testing.T) {
	t.Parallel()

	sr, tracer := newRecorder(t)

	_, span := tracer.Start(t.Context(), "restore",
		ports.WithAttribute("project", "App"),
		ports.WithAttribute("frameworks", []string{"net45", "netcoreapp1.0"}),
	)
	span.SetAttribute("graphs", 4)
	span.SetAttribute("locked", true)
	span.SetAttribute("elapsed", time.Second)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "restore", spans[0].Name())
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("project", "App"),
		attribute.StringSlice("frameworks", []string{"net45", "netcoreapp1.0"}),
		attribute.Int("graphs", 4),
		attribute.Bool("locked", true),
		attribute.String("elapsed", "1s"),
	}, spans[0].Attributes())
}

func TestOTelSpan_RecordError(t *testing.T) {
	t.Parallel()

	sr, tracer := newRecorder(t)

	_, span := tracer.Start(t.Context(), "install")
	span.RecordError(nil)
	span.RecordError(errors.New("feed unreachable"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "feed unreachable", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestOTelTracer_NestedSpansShareTrace(t *testing.T) {
	t.Parallel()

	sr, tracer := newRecorder(t)

	ctx, parent := tracer.Start(t.Context(), "restore")
	_, child := tracer.Start(ctx, "walk")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestDurationLogger(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return assert.Regexp(t, `^span install took \S+ \(boom\)$`, msg)
	}))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewDurationLogger(log)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracerFromProvider(tp, "test").Start(t.Context(), "install")
	span.RecordError(errors.New("boom"))
	span.End()
}
