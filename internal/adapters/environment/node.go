package environment

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/adapters/conventions"
	"go.trai.ch/restore/internal/adapters/logger"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/core/ports"
)

// NodeID is the unique identifier for the package environment factory Graft node.
const NodeID graft.ID = "adapter.environment"

func init() {
	graft.Register(graft.Node[ports.PackageEnvironmentFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{conventions.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageEnvironmentFactory, error) {
			matcher, err := graft.Dep[ports.AssetMatcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(matcher, log, packages.DefaultCacheSize)
		},
	})
}
