package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/restore/internal/app"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.trai.ch/restore/internal/engine/restore"
	"go.uber.org/mock/gomock"
)

// restorerFunc adapts a function to the app.Restorer interface.
type restorerFunc func(ctx context.Context, req restore.Request) (*restore.Result, error)

func (f restorerFunc) Run(ctx context.Context, req restore.Request) (*restore.Result, error) {
	return f(ctx, req)
}

type appMocks struct {
	loader    *mocks.MockProjectLoader
	envs      *mocks.MockPackageEnvironmentFactory
	lockFiles *mocks.MockLockFileStore
	cache     *mocks.MockRestoreCacheStore
	hasher    *mocks.MockHasher
	logger    *mocks.MockLogger
	result    *restore.Result
}

func newProvider(t *testing.T) (ComponentProvider, *appMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &appMocks{
		loader:    mocks.NewMockProjectLoader(ctrl),
		envs:      mocks.NewMockPackageEnvironmentFactory(ctrl),
		lockFiles: mocks.NewMockLockFileStore(ctrl),
		cache:     mocks.NewMockRestoreCacheStore(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		result:    &restore.Result{Success: true},
	}

	restorer := restorerFunc(func(_ context.Context, _ restore.Request) (*restore.Result, error) {
		return m.result, nil
	})
	application := app.New(
		m.loader,
		m.envs,
		restorer,
		m.lockFiles,
		m.cache,
		m.hasher,
		mocks.NewMockVerifier(ctrl),
		m.logger,
	)

	return func(_ context.Context) (*app.Components, func(), error) {
		return app.NewComponents(application, m.logger), func() {}, nil
	}, m
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider, _ := newProvider(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "restore version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	provider, m := newProvider(t)
	m.loader.EXPECT().Load("missing").Return(nil, errors.New("load failed"))
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"clean", "missing"}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_RestoreFailed verifies that a failed restore prints its summary, is not logged a
// second time and returns 1.
func TestRun_RestoreFailed(t *testing.T) {
	provider, m := newProvider(t)
	dir := t.TempDir()
	project := &domain.ProjectSpec{
		Name:          "App",
		BaseDirectory: dir,
		Restore:       domain.RestoreSettings{LockFilePath: filepath.Join(dir, domain.LockFileName)},
	}
	m.result = &restore.Result{Success: false}

	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).Times(0)
	m.loader.EXPECT().Load(dir).Return(project, nil)
	m.hasher.EXPECT().ComputeProjectHash(project).Return("hash")
	m.lockFiles.EXPECT().Read(gomock.Any()).Return(nil, nil)
	m.envs.EXPECT().Open(project).Return(&ports.PackageEnvironment{}, nil)
	m.cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"restore", dir, "--force"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout.String(), "Restore of App failed")
}
