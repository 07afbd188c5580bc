// Package restore implements the restore state machine: walking the dependency graphs of every
// framework and runtime of a project, installing what they need and building the lock file.
package restore

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/engine/assets"
	"go.trai.ch/restore/internal/engine/lockfile"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Request is the input of one restore.
type Request struct {
	Project  *domain.ProjectSpec
	Packages *ports.PackageEnvironment
	// Previous is the lock file found for the project, if any.
	Previous *domain.LockFile
	// Profiles are compatibility profile names requested in addition to the project's own.
	Profiles []string
}

// MSBuildFiles are the build integration files a single-framework project imports.
type MSBuildFiles struct {
	Props   []string
	Targets []string
}

// Result is the outcome of a restore. A failed restore still carries whatever lock file and
// graphs could be computed.
type Result struct {
	Success  bool
	State    State
	LockFile *domain.LockFile
	// Graphs holds every graph walked, including compatibility profile graphs.
	Graphs        []*domain.RestoreTargetGraph
	Compatibility []ports.CompatibilityResult
	MSBuild       MSBuildFiles
	Installed     []domain.LibraryIdentity
	// Relocked is set when a locked lock file no longer matched the project and was rebuilt.
	Relocked bool
	Elapsed  time.Duration
}

// Orchestrator runs restores.
type Orchestrator struct {
	matcher ports.AssetMatcher
	compat  ports.CompatibilityChecker
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates an orchestrator.
func New(
	matcher ports.AssetMatcher,
	compat ports.CompatibilityChecker,
	logger ports.Logger,
	tracer ports.Tracer,
) (*Orchestrator, error) {
	switch {
	case matcher == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "asset matcher")
	case compat == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "compatibility checker")
	case logger == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	case tracer == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "tracer")
	}
	return &Orchestrator{matcher: matcher, compat: compat, logger: logger, tracer: tracer}, nil
}

// run holds the state of one restore. Caches live exactly as long as the restore.
type run struct {
	*Orchestrator
	req     Request
	project *domain.ProjectSpec
	env     *ports.PackageEnvironment

	// useLocked replays the previous lock file instead of resolving.
	useLocked bool
	relock    bool

	state  State
	// failed is set from walk goroutines as well as from the state machine.
	failed atomic.Bool

	installMu sync.Mutex
	installed map[string]domain.LibraryIdentity

	runtimeGraphs sync.Map
	runtimeGroup  singleflight.Group
}

// Run restores req.Project. It returns an error only for misuse, install failures and
// cancellation. Resolution failures, including a pair the walker could not walk, are reported
// through Result.Success next to whatever graphs and lock file could be computed.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "restore", ports.WithAttribute("project", req.Project.Name))
	defer span.End()

	start := time.Now()
	r := &run{
		Orchestrator: o,
		req:          req,
		project:      req.Project,
		env:          req.Packages,
		state:        StateInitialized,
		installed:    make(map[string]domain.LibraryIdentity),
	}
	r.checkLockFile()

	res, err := r.execute(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	res.Elapsed = time.Since(start)
	span.SetAttribute("success", res.Success)
	span.SetAttribute("graphs", len(res.Graphs))
	return res, nil
}

func validateRequest(req Request) error {
	if req.Project == nil {
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "project")
	}
	if len(req.Project.Frameworks) == 0 {
		return zerr.With(domain.ErrNoTargetFrameworks, "project", req.Project.Name)
	}
	env := req.Packages
	switch {
	case env == nil:
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "package environment")
	case env.Repository == nil:
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "local repository")
	case env.Reader == nil:
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "package reader")
	case env.Installer == nil:
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "installer")
	case env.Walker == nil:
		return zerr.With(domain.ErrNilCollaborator, "collaborator", "walker")
	}
	return nil
}

// checkLockFile decides whether the previous lock file is replayed. A locked file that no longer
// matches the project is unlocked for this restore and locked again when written.
func (r *run) checkLockFile() {
	prev := r.req.Previous
	if prev == nil || !prev.Locked {
		return
	}
	if prev.IsValidForProject(r.project) {
		r.useLocked = true
		return
	}
	r.relock = true
	r.logger.Warn("lock file has changed, relocking")
}

func (r *run) enter(s State) {
	r.state = s
	r.logger.Debug("restore state: " + string(s))
}

func (r *run) fail() {
	r.failed.Store(true)
}

func (r *run) succeeded() bool {
	return !r.failed.Load()
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	res := &Result{Relocked: r.relock}

	graphs, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	res.Graphs = append(res.Graphs, graphs.lockFile...)
	res.Graphs = append(res.Graphs, graphs.profiles...)
	res.Installed = r.installedIdentities()

	r.validateGraphs(res.Graphs)

	r.enter(StateBuildingLockFile)
	built, err := r.buildLockFile(ctx, graphs.lockFile)
	if err != nil {
		return nil, err
	}
	res.LockFile = built.LockFile

	if !anyUnresolved(res.Graphs) {
		r.enter(StateCheckingCompatibility)
		checked, err := r.compatibilityLockFile(ctx, built, res.Graphs, len(graphs.profiles) > 0)
		if err != nil {
			return nil, err
		}
		res.Compatibility = r.checkCompatibility(ctx, res.Graphs, checked)
	}

	res.MSBuild = r.msbuildFiles(graphs.lockFile, built)

	success := r.succeeded()
	if success {
		r.enter(StateDone)
	} else {
		r.enter(StateFailed)
	}
	res.Success = success
	res.State = r.state
	return res, nil
}

// graphSet separates graphs written into the lock file from graphs that only validate profiles.
type graphSet struct {
	lockFile []*domain.RestoreTargetGraph
	profiles []*domain.RestoreTargetGraph
}

// resolve walks and installs the framework wave, the runtime wave and the profile wave. A wave
// with unresolved dependencies ends resolution.
func (r *run) resolve(ctx context.Context) (graphSet, error) {
	var set graphSet

	r.enter(StateWalkingFrameworkGraphs)
	frameworkGraphs, err := r.walkFrameworks(ctx)
	if err != nil {
		return set, err
	}
	set.lockFile = append(set.lockFile, frameworkGraphs...)
	if !r.resolutionSucceeded(frameworkGraphs) {
		return set, nil
	}

	r.enter(StateInstallingFrameworkPackages)
	if err := r.install(ctx, frameworkGraphs); err != nil {
		return set, err
	}

	if len(r.project.RuntimeIDs) > 0 {
		r.enter(StateWalkingRuntimeGraphs)
		runtimeGraphs, err := r.walkRuntimes(ctx, frameworkGraphs)
		if err != nil {
			return set, err
		}
		set.lockFile = append(set.lockFile, runtimeGraphs...)
		if !r.resolutionSucceeded(runtimeGraphs) {
			return set, nil
		}

		r.enter(StateInstallingRuntimePackages)
		if err := r.install(ctx, runtimeGraphs); err != nil {
			return set, err
		}
	}

	profileGraphs, err := r.walkProfiles(ctx, frameworkGraphs, set.lockFile)
	if err != nil {
		return set, err
	}
	set.profiles = profileGraphs
	if !r.resolutionSucceeded(profileGraphs) {
		return set, nil
	}
	if err := r.install(ctx, profileGraphs); err != nil {
		return set, err
	}
	return set, nil
}

// resolutionSucceeded logs every unresolved dependency of graphs and reports whether the next
// wave may run. A pair that failed to walk also stops it.
func (r *run) resolutionSucceeded(graphs []*domain.RestoreTargetGraph) bool {
	ok := r.succeeded()
	for _, g := range graphs {
		for _, unresolved := range g.Unresolved {
			ok = false
			r.logger.Error(zerr.With(zerr.With(domain.ErrUnresolvedDependency,
				"dependency", unresolved.String()),
				"graph", g.Name()))
		}
	}
	if !ok {
		r.fail()
	}
	return ok
}

func anyUnresolved(graphs []*domain.RestoreTargetGraph) bool {
	for _, g := range graphs {
		if len(g.Unresolved) > 0 {
			return true
		}
	}
	return false
}

// validateGraphs logs conflicts and cycles as errors and downgrades as warnings.
func (r *run) validateGraphs(graphs []*domain.RestoreTargetGraph) {
	for _, g := range graphs {
		for _, c := range g.Conflicts {
			r.fail()
			r.logger.Error(zerr.With(zerr.With(zerr.With(domain.ErrVersionConflict,
				"selected", c.Selected.Path()),
				"conflicting", c.Conflicting.Path()),
				"graph", g.Name()))
		}
		for _, c := range g.Cycles {
			r.fail()
			r.logger.Error(zerr.With(zerr.With(domain.ErrCycleDetected, "path", c.Path()), "graph", g.Name()))
		}
		for _, d := range g.Downgrades {
			r.logger.Warn("detected package downgrade: " + d.DowngradedFrom.Path() +
				" was downgraded to " + d.DowngradedTo.Path() + " in " + g.Name())
		}
	}
}

func (r *run) buildLockFile(ctx context.Context, graphs []*domain.RestoreTargetGraph) (*lockfile.Result, error) {
	ctx, span := r.tracer.Start(ctx, "build_lock_file")
	defer span.End()

	builder, err := r.newBuilder()
	if err != nil {
		return nil, err
	}

	built, err := builder.Build(ctx, lockfile.Request{
		Project:  r.project,
		Graphs:   graphs,
		Previous: r.req.Previous,
		Locked:   r.relock || r.project.Restore.Lock,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if r.useLocked {
		// A valid locked file is kept exactly as it is.
		built.LockFile = r.req.Previous
	}
	return built, nil
}

// compatibilityLockFile returns the lock file the compatibility check reads. Profile graphs are not
// written to the lock file, so when there are any their targets come from a build over every graph.
func (r *run) compatibilityLockFile(
	ctx context.Context,
	built *lockfile.Result,
	graphs []*domain.RestoreTargetGraph,
	hasProfiles bool,
) (*lockfile.Result, error) {
	if !hasProfiles {
		return built, nil
	}

	builder, err := r.newBuilder()
	if err != nil {
		return nil, err
	}
	return builder.Build(ctx, lockfile.Request{
		Project:  r.project,
		Graphs:   graphs,
		Previous: built.LockFile,
	})
}

func (r *run) newBuilder() (*lockfile.Builder, error) {
	selector, err := assets.NewSelector(r.matcher)
	if err != nil {
		return nil, err
	}
	return lockfile.NewBuilder(r.env.Repository, r.env.Reader, selector, r.logger)
}

func (r *run) checkCompatibility(ctx context.Context, graphs []*domain.RestoreTargetGraph, built *lockfile.Result) []ports.CompatibilityResult {
	_, span := r.tracer.Start(ctx, "check_compatibility")
	defer span.End()

	out := make([]ports.CompatibilityResult, 0, len(graphs))
	for _, g := range graphs {
		res := r.compat.Check(g, built.IncludeFlags[g.Name()], built.LockFile)
		if !res.Success {
			r.fail()
			for _, issue := range res.Issues {
				r.logger.Error(zerr.With(compatError(issue), "graph", g.Name()))
			}
		}
		out = append(out, res)
	}
	return out
}

func compatError(issue ports.CompatibilityIssue) error {
	sentinel := domain.ErrIncompatiblePackage
	if issue.Project {
		sentinel = domain.ErrIncompatibleProject
	}
	err := zerr.With(sentinel, "library", issue.Library.String())
	if issue.Message != "" {
		err = zerr.With(err, "reason", issue.Message)
	}
	return err
}

func (r *run) installedIdentities() []domain.LibraryIdentity {
	r.installMu.Lock()
	defer r.installMu.Unlock()
	out := make([]domain.LibraryIdentity, 0, len(r.installed))
	for _, id := range r.installed {
		out = append(out, id)
	}
	sortIdentities(out)
	return out
}

func frameworkNames(graphs []*domain.RestoreTargetGraph) string {
	names := make([]string, 0, len(graphs))
	for _, g := range graphs {
		names = append(names, g.Name())
	}
	return strings.Join(names, ", ")
}
