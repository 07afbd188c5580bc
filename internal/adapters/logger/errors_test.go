package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/restore/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "standard error",
			err:  errors.New("disk full"),
			want: []logger.ErrorEntry{{Message: "disk full"}},
		},
		{
			name: "wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("no such file"), "failed to read manifest"), "failed to install package"),
			want: []logger.ErrorEntry{
				{Message: "failed to install package", Metadata: map[string]any{}},
				{Message: "failed to read manifest", Metadata: map[string]any{}},
				{Message: "no such file"},
			},
		},
		{
			name: "metadata accumulates on one level",
			err:  zerr.With(zerr.With(zerr.New("unable to resolve dependency"), "name", "A"), "range", ">= 1.0.0"),
			want: []logger.ErrorEntry{
				{Message: "unable to resolve dependency", Metadata: map[string]any{"name": "A", "range": ">= 1.0.0"}},
			},
		},
		{
			name: "metadata on a standard error moves to that error",
			err:  zerr.Wrap(zerr.With(errors.New("permission denied"), "path", "/p"), "failed to install package"),
			want: []logger.ErrorEntry{
				{Message: "failed to install package", Metadata: map[string]any{}},
				{Message: "permission denied", Metadata: map[string]any{"path": "/p"}},
			},
		},
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "restore failed"}},
			want:    "Error: restore failed",
		},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{
				{Message: "conflict", Metadata: map[string]any{"version": "2.0.0", "name": "A"}},
			},
			want: "Error: conflict\n       name: A\n       version: 2.0.0",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2", Metadata: map[string]any{"k": 1}}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2\n      k: 1",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
