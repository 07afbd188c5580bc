package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/restore/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		msg    string
		golden string
	}{
		{name: "info", level: slog.LevelInfo, msg: "resolving packages", golden: "handler_info"},
		{name: "warn", level: slog.LevelWarn, msg: "lock file has changed, relocking", golden: "handler_warn"},
		{name: "error", level: slog.LevelError, msg: "restore failed", golden: "handler_error"},
		{name: "debug", level: slog.LevelDebug, msg: "walking net45", golden: "handler_debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			lg.Log(t.Context(), tt.level, tt.msg)

			goldie.New(t).Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestPrettyHandler_FiltersBelowLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil).WithAttrs([]slog.Attr{slog.String("package", "A")})
	slog.New(handler).Info("installing", "version", "1.0.0")

	goldie.New(t).Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_Groups(t *testing.T) {
	t.Run("group value", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")

		buf := &bytes.Buffer{}
		slog.New(logger.NewPrettyHandler(buf, nil)).Info("walked",
			slog.Group("target", slog.String("framework", "net45"), slog.String("rid", "win")))

		goldie.New(t).Assert(t, "handler_group", buf.Bytes())
	})

	t.Run("nested handler groups", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")

		buf := &bytes.Buffer{}
		var handler slog.Handler = logger.NewPrettyHandler(buf, nil)
		handler = handler.WithGroup("graph").WithAttrs(nil).WithGroup("target").WithGroup("")
		slog.New(handler).Info("walked", "framework", "net45")

		assert.Equal(t, "walked graph.target.framework=net45\n", buf.String())
	})

	t.Run("inline group", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")

		buf := &bytes.Buffer{}
		handler := logger.NewPrettyHandler(buf, nil).
			WithGroup("graph").
			WithAttrs([]slog.Attr{slog.String("framework", "net45")})
		slog.New(handler).Info("walked", slog.Group("", slog.Int("count", 3)))

		assert.Equal(t, "walked graph.framework=net45 graph.count=3\n", buf.String())
	})
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	levels := &slog.LevelVar{}
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: levels})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelInfo))

	levels.Set(slog.LevelDebug)
	assert.True(t, handler.Enabled(t.Context(), slog.LevelDebug))
}
