// Package app implements the application layer for restore.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/engine/restore"
	"go.trai.ch/zerr"
)

// Restorer runs the restore state machine.
type Restorer interface {
	Run(ctx context.Context, req restore.Request) (*restore.Result, error)
}

// App represents the main application logic.
type App struct {
	loader    ports.ProjectLoader
	envs      ports.PackageEnvironmentFactory
	restorer  Restorer
	lockFiles ports.LockFileStore
	cache     ports.RestoreCacheStore
	hasher    ports.Hasher
	verifier  ports.Verifier
	logger    ports.Logger
	now       func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ProjectLoader,
	envs ports.PackageEnvironmentFactory,
	restorer Restorer,
	lockFiles ports.LockFileStore,
	cache ports.RestoreCacheStore,
	hasher ports.Hasher,
	verifier ports.Verifier,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		envs:      envs,
		restorer:  restorer,
		lockFiles: lockFiles,
		cache:     cache,
		hasher:    hasher,
		verifier:  verifier,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for cache timestamps and elapsed times.
// This is primarily used for testing.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// RestoreOptions configuration for the Restore method. Set fields override the project file.
type RestoreOptions struct {
	// Path is the project file or a directory at or below the project directory.
	Path         string
	PackagesPath string
	Sources      []string
	Runtimes     []string
	Profiles     []string
	Parallel     int
	LockFilePath string
	Lock         bool
	// Force bypasses the no-op check.
	Force bool
}

// Summary is the outcome of a restore as shown to the user.
type Summary struct {
	Project  string
	LockFile string
	// NoOp is set when the previous restore was still valid and nothing ran.
	NoOp      bool
	Success   bool
	Graphs    int
	Installed []domain.LibraryIdentity
	Warnings  int
	Errors    int
	Relocked  bool
	Elapsed   time.Duration
}

// Restore restores the project found at opts.Path. A restore that ran but did not succeed returns
// its summary together with domain.ErrRestoreFailed; its diagnostics have already been logged.
func (a *App) Restore(ctx context.Context, opts RestoreOptions) (*Summary, error) {
	start := a.now()

	project, err := a.loader.Load(pathOrDefault(opts.Path))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}
	opts.apply(project)

	lockPath := project.Restore.LockFilePath
	cachePath := domain.DefaultCachePath(project.BaseDirectory)
	projectHash := a.hasher.ComputeProjectHash(project)
	summary := &Summary{Project: project.Name, LockFile: lockPath}

	if !opts.Force {
		noop, err := a.isNoOp(cachePath, projectHash, lockPath)
		if err != nil {
			return nil, err
		}
		if noop {
			a.logger.Info("nothing to do for " + project.Name + ", the last restore is up to date")
			summary.NoOp = true
			summary.Success = true
			summary.Elapsed = a.now().Sub(start)
			return summary, nil
		}
	}

	previous, err := a.lockFiles.Read(lockPath)
	if err != nil {
		return nil, err
	}

	env, err := a.envs.Open(project)
	if err != nil {
		return nil, err
	}

	a.logger.Info("restoring " + project.Name)
	res, err := a.restorer.Run(ctx, restore.Request{
		Project:  project,
		Packages: env,
		Previous: previous,
		Profiles: opts.Profiles,
	})
	if err != nil {
		return nil, err
	}

	if err := a.persist(project, env, previous, res, projectHash); err != nil {
		return nil, err
	}

	summary.Success = res.Success
	summary.Graphs = len(res.Graphs)
	summary.Installed = res.Installed
	summary.Relocked = res.Relocked
	summary.Warnings, summary.Errors = countDiagnostics(res)
	summary.Elapsed = a.now().Sub(start)

	if !res.Success {
		return summary, domain.ErrRestoreFailed
	}
	return summary, nil
}

// isNoOp reports whether the last restore of the project is still valid: it succeeded for the
// same project hash and its lock file and package hash files are still in place.
func (a *App) isNoOp(cachePath, projectHash, lockPath string) (bool, error) {
	entry, err := a.cache.Get(cachePath)
	if err != nil {
		return false, err
	}
	if entry == nil || !entry.Success || entry.ProjectHash != projectHash || entry.LockFile != lockPath {
		return false, nil
	}

	files := append([]string{lockPath}, entry.ExpectedPackageFiles...)
	exists, err := a.verifier.FilesExist(files)
	if err != nil {
		return false, err
	}
	if !exists {
		a.logger.Debug("files of the last restore are missing, restoring again")
	}
	return exists, nil
}

// persist writes the lock file, the build integration list and the no-op cache.
func (a *App) persist(
	project *domain.ProjectSpec,
	env *ports.PackageEnvironment,
	previous *domain.LockFile,
	res *restore.Result,
	projectHash string,
) error {
	lockPath := project.Restore.LockFilePath
	if res.LockFile != nil && res.LockFile != previous {
		if err := a.lockFiles.Write(lockPath, res.LockFile); err != nil {
			return err
		}
		a.logger.Debug("lock file written to " + lockPath)
	}

	if err := writeMSBuildFiles(domain.DefaultMSBuildFilesPath(project.BaseDirectory), res.MSBuild); err != nil {
		return err
	}

	return a.cache.Put(domain.DefaultCachePath(project.BaseDirectory), domain.RestoreCache{
		Version:              domain.RestoreCacheVersion,
		ProjectHash:          projectHash,
		Success:              res.Success,
		LockFile:             lockPath,
		Timestamp:            a.now().UTC(),
		ExpectedPackageFiles: expectedPackageFiles(env, res.LockFile),
	})
}

// expectedPackageFiles returns the hash files of every installed package of the lock file.
func expectedPackageFiles(env *ports.PackageEnvironment, lf *domain.LockFile) []string {
	if lf == nil {
		return nil
	}
	var out []string
	for _, lib := range lf.Libraries {
		if lib.Type != domain.LibraryTypePackage {
			continue
		}
		if pkg, ok := env.Repository.FindPackage(lib.Name, lib.Version); ok {
			out = append(out, pkg.HashPath)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// writeMSBuildFiles writes the props and targets files to import, one "props:" or "targets:" line
// each. An empty list removes the file.
func writeMSBuildFiles(path string, files restore.MSBuildFiles) error {
	if len(files.Props) == 0 && len(files.Targets) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove build integration list"), "path", path)
		}
		return nil
	}

	var b strings.Builder
	for _, p := range files.Props {
		b.WriteString("props: " + p + "\n")
	}
	for _, t := range files.Targets {
		b.WriteString("targets: " + t + "\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for build integration list"), "path", path)
	}
	//nolint:gosec // Path is derived from the project directory
	if err := os.WriteFile(path, []byte(b.String()), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build integration list"), "path", path)
	}
	return nil
}

func countDiagnostics(res *restore.Result) (warnings, errs int) {
	for _, g := range res.Graphs {
		warnings += len(g.Downgrades)
		errs += len(g.Unresolved) + len(g.Conflicts) + len(g.Cycles)
	}
	for _, c := range res.Compatibility {
		errs += len(c.Issues)
	}
	if res.Relocked {
		warnings++
	}
	return warnings, errs
}

// apply overrides the project's settings with the options that are set.
func (o RestoreOptions) apply(project *domain.ProjectSpec) {
	if o.PackagesPath != "" {
		project.Restore.PackagesPath = absPath(o.PackagesPath)
	}
	if len(o.Sources) > 0 {
		project.Restore.Sources = project.Restore.Sources[:0:0]
		for _, s := range o.Sources {
			project.Restore.Sources = append(project.Restore.Sources, absPath(s))
		}
	}
	for _, rid := range o.Runtimes {
		if !slices.Contains(project.RuntimeIDs, rid) {
			project.RuntimeIDs = append(project.RuntimeIDs, rid)
		}
	}
	if o.Parallel > 0 {
		project.Restore.MaxDegreeOfConcurrency = o.Parallel
	}
	if o.LockFilePath != "" {
		project.Restore.LockFilePath = absPath(o.LockFilePath)
	}
	if o.Lock {
		project.Restore.Lock = true
	}
}

// LockFile reads the lock file at path. A path that is not a JSON file locates the project first
// and reads the project's lock file.
func (a *App) LockFile(path string) (*domain.LockFile, string, error) {
	lockPath := pathOrDefault(path)
	if !strings.EqualFold(filepath.Ext(lockPath), ".json") {
		project, err := a.loader.Load(lockPath)
		if err != nil {
			return nil, "", zerr.Wrap(err, "failed to load project")
		}
		lockPath = project.Restore.LockFilePath
	}

	lf, err := a.lockFiles.Read(lockPath)
	if err != nil {
		return nil, "", err
	}
	if lf == nil {
		return nil, "", zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrLockFileReadFailed.Error()), "path", lockPath)
	}
	return lf, lockPath, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Path string
	// Packages also removes the packages folder.
	Packages bool
}

// Clean removes the restore outputs of the project found at opts.Path.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.loader.Load(pathOrDefault(opts.Path))
	if err != nil {
		return zerr.Wrap(err, "failed to load project")
	}

	var errs error

	// Helper to remove a path and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(domain.DefaultCachePath(project.BaseDirectory), "restore cache")
	remove(domain.DefaultMSBuildFilesPath(project.BaseDirectory), "build integration list")

	if opts.Packages {
		remove(project.Restore.PackagesPath, "packages folder")
	}

	return errs
}

func pathOrDefault(path string) string {
	if path == "" {
		return "."
	}
	return path
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
