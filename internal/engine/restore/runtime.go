package restore

import (
	"context"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/zerr"
)

// runtimeGraph returns the merged runtime description of every package in the framework graph.
// It is computed once per framework; concurrent callers share the first computation.
func (r *run) runtimeGraph(ctx context.Context, frameworkGraph *domain.RestoreTargetGraph) (*domain.RuntimeGraph, error) {
	key := frameworkGraph.Framework.String()
	if cached, ok := r.runtimeGraphs.Load(key); ok {
		return cached.(*domain.RuntimeGraph), nil
	}

	v, err, _ := r.runtimeGroup.Do(key, func() (any, error) {
		if cached, ok := r.runtimeGraphs.Load(key); ok {
			return cached, nil
		}
		graph, err := r.collectRuntimeGraph(ctx, frameworkGraph)
		if err != nil {
			return nil, err
		}
		actual, _ := r.runtimeGraphs.LoadOrStore(key, graph)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RuntimeGraph), nil
}

func (r *run) collectRuntimeGraph(ctx context.Context, frameworkGraph *domain.RestoreTargetGraph) (*domain.RuntimeGraph, error) {
	merged := domain.NewRuntimeGraph()
	for _, item := range frameworkGraph.Flattened {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.Identity.Type != domain.LibraryTypePackage {
			continue
		}
		pkg, ok := r.env.Repository.FindPackage(item.Identity.Name, item.Identity.Version)
		if !ok {
			continue
		}
		rg, err := r.env.Reader.ReadRuntimeGraph(pkg)
		if err != nil {
			return nil, zerr.With(err, "package", item.Identity.String())
		}
		if rg != nil {
			r.logger.Debug("merging runtime graph of " + item.Identity.String())
			merged = merged.Merge(rg)
		}
	}
	return merged, nil
}
