package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/cmd/restore/commands"
	"go.trai.ch/restore/internal/app"
	"go.trai.ch/restore/internal/build"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type mockApp struct {
	restoreFunc  func(ctx context.Context, opts app.RestoreOptions) (*app.Summary, error)
	lockFileFunc func(path string) (*domain.LockFile, string, error)
	cleanFunc    func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Restore(ctx context.Context, opts app.RestoreOptions) (*app.Summary, error) {
	if m.restoreFunc != nil {
		return m.restoreFunc(ctx, opts)
	}
	return &app.Summary{Success: true}, nil
}

func (m *mockApp) LockFile(path string) (*domain.LockFile, string, error) {
	if m.lockFileFunc != nil {
		return m.lockFileFunc(path)
	}
	return &domain.LockFile{}, path, nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

// recordingLogger records the format switches applied by the CLI.
type recordingLogger struct {
	*mocks.MockLogger
	json    bool
	verbose bool
}

func (l *recordingLogger) SetJSON(enable bool)    { l.json = enable }
func (l *recordingLogger) SetVerbose(enable bool) { l.verbose = enable }

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()

	cli := commands.New(a, mocks.NewMockLogger(gomock.NewController(t)))
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)

	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Restore(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RestoreOptions
		mock := &mockApp{
			restoreFunc: func(_ context.Context, opts app.RestoreOptions) (*app.Summary, error) {
				captured = opts
				return &app.Summary{Project: "App", Success: true}, nil
			},
		}

		_, err := execute(t, mock,
			"restore", "src/App",
			"--packages", "/pkgs",
			"--source", "/feed1,/feed2",
			"--runtime", "win7-x64",
			"--runtime", "osx.10.10-x64",
			"--profile", "net46.app",
			"-j", "4",
			"--lock-file", "/locks/app.lock.json",
			"--lock",
			"--force",
		)
		require.NoError(t, err)

		assert.Equal(t, app.RestoreOptions{
			Path:         "src/App",
			PackagesPath: "/pkgs",
			Sources:      []string{"/feed1", "/feed2"},
			Runtimes:     []string{"win7-x64", "osx.10.10-x64"},
			Profiles:     []string{"net46.app"},
			Parallel:     4,
			LockFilePath: "/locks/app.lock.json",
			Lock:         true,
			Force:        true,
		}, captured)
	})

	t.Run("prints the summary", func(t *testing.T) {
		mock := &mockApp{
			restoreFunc: func(_ context.Context, _ app.RestoreOptions) (*app.Summary, error) {
				return &app.Summary{
					Project:   "App",
					Success:   true,
					Graphs:    2,
					Installed: []domain.LibraryIdentity{{Name: "A"}},
					Warnings:  1,
					LockFile:  "/src/App/project.lock.json",
					Elapsed:   1500 * time.Millisecond,
				}, nil
			},
		}

		out, err := execute(t, mock, "restore")
		require.NoError(t, err)
		assert.Contains(t, out, "Restored App")
		assert.Contains(t, out, "1.5s")
		assert.Contains(t, out, "/src/App/project.lock.json")
		assert.Contains(t, out, "warnings")
	})

	t.Run("prints up to date", func(t *testing.T) {
		mock := &mockApp{
			restoreFunc: func(_ context.Context, _ app.RestoreOptions) (*app.Summary, error) {
				return &app.Summary{Project: "App", NoOp: true, Success: true}, nil
			},
		}

		out, err := execute(t, mock, "restore")
		require.NoError(t, err)
		assert.Contains(t, out, "App is up to date")
	})

	t.Run("returns the failure after the summary", func(t *testing.T) {
		mock := &mockApp{
			restoreFunc: func(_ context.Context, _ app.RestoreOptions) (*app.Summary, error) {
				return &app.Summary{Project: "App", Errors: 2}, domain.ErrRestoreFailed
			},
		}

		out, err := execute(t, mock, "restore")
		require.ErrorIs(t, err, domain.ErrRestoreFailed)
		assert.Contains(t, out, "Restore of App failed with 2 errors")
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "restore", "a", "b")
		require.Error(t, err)
	})
}

func TestCommands_LockFileShow(t *testing.T) {
	lf := &domain.LockFile{
		Locked:  true,
		Version: domain.LockFileFormatVersion,
		Targets: []*domain.LockFileTarget{{
			Framework: domain.MustParseFramework("net45"),
			Libraries: []*domain.LockFileTargetLibrary{{
				Name:    "A",
				Version: domain.MustParseVersion("1.0.0"),
				Type:    domain.LibraryTypePackage,
			}},
		}},
		Libraries: []*domain.LockFileLibrary{{
			Name:    "A",
			Version: domain.MustParseVersion("1.0.0"),
			Type:    domain.LibraryTypePackage,
		}},
	}
	mock := &mockApp{
		lockFileFunc: func(path string) (*domain.LockFile, string, error) {
			assert.Equal(t, "src", path)
			return lf, "/src/project.lock.json", nil
		},
	}

	t.Run("summary", func(t *testing.T) {
		out, err := execute(t, mock, "lockfile", "show", "src")
		require.NoError(t, err)
		assert.Contains(t, out, "/src/project.lock.json")
		assert.Contains(t, out, "locked")
		assert.Contains(t, out, "net45")
		assert.Contains(t, out, "A 1.0.0")
		assert.Contains(t, out, "libraries: 1")
	})

	t.Run("raw", func(t *testing.T) {
		out, err := execute(t, mock, "lockfile", "show", "src", "--raw")
		require.NoError(t, err)
		assert.Contains(t, out, `"locked": true`)
		assert.Contains(t, out, `"A/1.0.0"`)
	})

	t.Run("error", func(t *testing.T) {
		failing := &mockApp{
			lockFileFunc: func(string) (*domain.LockFile, string, error) {
				return nil, "", errors.New("no lock file")
			},
		}
		_, err := execute(t, failing, "lockfile", "show")
		require.ErrorContains(t, err, "no lock file")
	})
}

func TestCommands_Clean(t *testing.T) {
	var captured app.CleanOptions
	mock := &mockApp{
		cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "clean", "src", "--packages")
	require.NoError(t, err)
	assert.Equal(t, app.CleanOptions{Path: "src", Packages: true}, captured)
}

func TestCommands_LoggingFlags(t *testing.T) {
	log := &recordingLogger{MockLogger: mocks.NewMockLogger(gomock.NewController(t))}

	cli := commands.New(&mockApp{}, log)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"clean", "--json", "--verbose"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.json)
	assert.True(t, log.verbose)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
	assert.Contains(t, out, build.Commit)
}
