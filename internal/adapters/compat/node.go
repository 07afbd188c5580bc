package compat

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/adapters/logger"
	"go.trai.ch/restore/internal/core/ports"
)

// NodeID is the unique identifier for the compatibility checker Graft node.
const NodeID graft.ID = "adapter.compat"

func init() {
	graft.Register(graft.Node[ports.CompatibilityChecker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CompatibilityChecker, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log)
		},
	})
}
