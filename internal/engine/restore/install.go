package restore

import (
	"context"
	"slices"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// install installs the candidates of graphs that no earlier wave installed, with at most the
// project's degree of concurrency, then makes them visible to the local repository.
func (r *run) install(ctx context.Context, graphs []*domain.RestoreTargetGraph) error {
	candidates := r.claimCandidates(graphs)
	if len(candidates) == 0 {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "install_packages", ports.WithAttribute("packages", len(candidates)))
	defer span.End()

	workers := min(r.project.MaxDegreeOfConcurrency(), len(candidates))
	queue := make(chan domain.InstallCandidate, len(candidates))
	for _, c := range candidates {
		queue <- c
	}
	close(queue)

	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for c := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				r.logger.Info("installing " + c.Identity.String())
				if err := r.env.Installer.Install(gctx, c); err != nil {
					return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "package", c.Identity.String())
				}
			}
			return nil
		})
	}
	err := g.Wait()

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Identity.Name)
	}
	r.env.Repository.ClearCacheForIDs(ids)

	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// claimCandidates returns the install candidates of graphs not claimed by an earlier wave and
// claims them.
func (r *run) claimCandidates(graphs []*domain.RestoreTargetGraph) []domain.InstallCandidate {
	r.installMu.Lock()
	defer r.installMu.Unlock()

	var out []domain.InstallCandidate
	for _, g := range graphs {
		for _, c := range g.Install {
			key := c.Identity.Key()
			if _, done := r.installed[key]; done {
				continue
			}
			r.installed[key] = c.Identity
			out = append(out, c)
		}
	}
	return out
}

func sortIdentities(ids []domain.LibraryIdentity) {
	slices.SortFunc(ids, domain.CompareIdentities)
}
