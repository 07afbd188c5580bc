package restore

import (
	"context"
	"slices"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// walkFrameworks walks the runtime agnostic graph of every framework concurrently. A framework
// that cannot be walked fails the restore without stopping the others.
func (r *run) walkFrameworks(ctx context.Context) ([]*domain.RestoreTargetGraph, error) {
	ctx, span := r.tracer.Start(ctx, "walk_frameworks", ports.WithAttribute("frameworks", len(r.project.Frameworks)))
	defer span.End()

	graphs := make([]*domain.RestoreTargetGraph, len(r.project.Frameworks))
	var g errgroup.Group
	for i, tf := range r.project.Frameworks {
		g.Go(func() error {
			pair := domain.FrameworkRuntimePair{Framework: tf.Framework}
			graph, err := r.walkPair(ctx, pair, nil)
			if err != nil {
				return r.walkFailed(ctx, pair, err)
			}
			graphs[i] = graph
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	graphs = walked(graphs)
	r.logger.Debug("walked " + frameworkNames(graphs))
	return graphs, nil
}

// walkRuntimes walks one graph per framework and runtime identifier, each with the runtime graph of
// its framework. Compile-only frameworks get no runtime graphs.
func (r *run) walkRuntimes(ctx context.Context, frameworkGraphs []*domain.RestoreTargetGraph) ([]*domain.RestoreTargetGraph, error) {
	ctx, span := r.tracer.Start(ctx, "walk_runtimes", ports.WithAttribute("runtimes", r.project.RuntimeIDs))
	defer span.End()

	type job struct {
		framework *domain.RestoreTargetGraph
		rid       string
	}
	var jobs []job
	for _, fg := range frameworkGraphs {
		if fg.Framework.IsCompileOnly() {
			continue
		}
		for _, rid := range r.project.RuntimeIDs {
			jobs = append(jobs, job{framework: fg, rid: rid})
		}
	}

	graphs := make([]*domain.RestoreTargetGraph, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			pair := domain.FrameworkRuntimePair{Framework: j.framework.Framework, RuntimeID: j.rid}
			runtimeGraph, err := r.runtimeGraph(ctx, j.framework)
			if err != nil {
				return r.walkFailed(ctx, pair, err)
			}
			graph, err := r.walkPair(ctx, pair, runtimeGraph)
			if err != nil {
				return r.walkFailed(ctx, pair, err)
			}
			graphs[i] = graph
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	graphs = walked(graphs)
	r.logger.Debug("walked " + frameworkNames(graphs))
	return graphs, nil
}

// walkProfiles walks the compatibility profiles of the project and of the request. Pairs that
// already have a graph are not walked again.
func (r *run) walkProfiles(ctx context.Context, frameworkGraphs, existing []*domain.RestoreTargetGraph) ([]*domain.RestoreTargetGraph, error) {
	if len(r.project.Supports) == 0 && len(r.req.Profiles) == 0 {
		return nil, nil
	}

	allRuntimes := domain.NewRuntimeGraph()
	for _, fg := range frameworkGraphs {
		rg, err := r.runtimeGraph(ctx, fg)
		if err != nil {
			if err := r.walkFailed(ctx, fg.Pair(), err); err != nil {
				return nil, err
			}
			continue
		}
		allRuntimes = allRuntimes.Merge(rg)
	}

	pairs := r.profilePairs(allRuntimes)
	pairs = slices.DeleteFunc(pairs, func(p domain.FrameworkRuntimePair) bool {
		return slices.ContainsFunc(existing, func(g *domain.RestoreTargetGraph) bool {
			return g.Pair() == p
		})
	})
	if len(pairs) == 0 {
		return nil, nil
	}

	ctx, span := r.tracer.Start(ctx, "walk_profiles", ports.WithAttribute("pairs", len(pairs)))
	defer span.End()

	graphs := make([]*domain.RestoreTargetGraph, len(pairs))
	var g errgroup.Group
	for i, p := range pairs {
		g.Go(func() error {
			graph, err := r.walkPair(ctx, p, allRuntimes)
			if err != nil {
				return r.walkFailed(ctx, p, err)
			}
			graphs[i] = graph
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return walked(graphs), nil
}

// walkFailed logs a pair that could not be walked and fails the restore. Only cancellation is
// returned, so one pair never stops the walks of the others.
func (r *run) walkFailed(ctx context.Context, pair domain.FrameworkRuntimePair, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	r.logger.Error(zerr.With(err, "graph", pair.Name()))
	r.fail()
	return nil
}

// walked drops the slots of pairs that failed to walk.
func walked(graphs []*domain.RestoreTargetGraph) []*domain.RestoreTargetGraph {
	return slices.DeleteFunc(graphs, func(g *domain.RestoreTargetGraph) bool { return g == nil })
}

// profilePairs returns the distinct pairs of every requested profile, in request order. A profile
// without pairs of its own is looked up by name in the runtime graph.
func (r *run) profilePairs(runtimes *domain.RuntimeGraph) []domain.FrameworkRuntimePair {
	profiles := slices.Clone(r.project.Supports)
	for _, name := range r.req.Profiles {
		profiles = append(profiles, domain.CompatibilityProfile{Name: name})
	}

	var pairs []domain.FrameworkRuntimePair
	seen := make(map[domain.FrameworkRuntimePair]bool)
	for _, profile := range profiles {
		if len(profile.RestoreContexts) == 0 {
			known, ok := runtimes.Supports[profile.Name]
			if !ok {
				r.logger.Warn("unknown compatibility profile: " + profile.Name)
				continue
			}
			profile = known
		}
		for _, p := range profile.RestoreContexts {
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// walkPair produces the graph of one pair: replayed from a locked lock file, or walked from the
// project.
func (r *run) walkPair(ctx context.Context, pair domain.FrameworkRuntimePair, runtimeGraph *domain.RuntimeGraph) (*domain.RestoreTargetGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fallback []domain.Framework
	if tf, ok := r.project.GetFramework(pair.Framework); ok {
		fallback = tf.Imports
	}

	var walks []*domain.WalkResult
	if r.useLocked {
		locked, err := r.walkLocked(ctx, pair, runtimeGraph)
		if err != nil {
			return nil, err
		}
		walks = locked
	} else {
		w, err := r.env.Walker.Walk(ctx, ports.WalkRequest{
			Range:        r.project.RootRange(),
			Framework:    pair.Framework,
			RuntimeID:    pair.RuntimeID,
			RuntimeGraph: runtimeGraph,
			Recursive:    true,
		})
		if err != nil {
			return nil, err
		}
		walks = []*domain.WalkResult{w}
	}

	graph := domain.NewRestoreTargetGraph(pair, fallback, runtimeGraph, walks...)
	if !r.useLocked {
		r.checkDependencies(graph)
	}
	return graph, nil
}

// checkDependencies warns about direct dependencies that resolved above their declared minimum.
func (r *run) checkDependencies(graph *domain.RestoreTargetGraph) {
	for _, dep := range r.project.DirectDependencies(graph.Framework) {
		vr := dep.Range.VersionRange
		if !vr.HasMin {
			continue
		}
		item, ok := graph.Lookup(dep.Name())
		if !ok || item.Identity.Version.Compare(vr.Min) <= 0 {
			continue
		}
		r.logger.Warn("dependency specified was " + dep.Name() + " " + vr.ComparisonString() + " but ended up with " +
			item.Identity.Name + " " + item.Identity.Version.String() + " in " + graph.Name())
	}
}

// walkLocked re-resolves every library of the locked target at exactly its recorded version.
func (r *run) walkLocked(ctx context.Context, pair domain.FrameworkRuntimePair, runtimeGraph *domain.RuntimeGraph) ([]*domain.WalkResult, error) {
	prev := r.req.Previous
	target := prev.GetTarget(pair.Framework, pair.RuntimeID)
	if target == nil {
		return nil, nil
	}

	var walks []*domain.WalkResult
	for _, tl := range target.Libraries {
		lib := prev.GetLibrary(tl.Name, tl.Version)
		if lib == nil {
			r.logger.Warn("lock file is missing library " + tl.Name + " " + tl.Version.String())
			continue
		}
		w, err := r.env.Walker.Walk(ctx, ports.WalkRequest{
			Range: domain.LibraryRange{
				Name:           lib.Name,
				VersionRange:   domain.Exactly(lib.Version),
				TypeConstraint: domain.TargetFor(lib.Type),
			},
			Framework:    pair.Framework,
			RuntimeID:    pair.RuntimeID,
			RuntimeGraph: runtimeGraph,
		})
		if err != nil {
			return nil, zerr.With(err, "library", tl.Name+" "+tl.Version.String())
		}
		walks = append(walks, w)
	}
	return walks, nil
}
