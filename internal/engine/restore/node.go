package restore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/adapters/compat"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/restore/internal/adapters/conventions" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/restore/internal/adapters/logger"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/restore/internal/adapters/telemetry"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/restore/internal/core/ports"
)

// NodeID is the unique identifier for the restore orchestrator Graft node.
const NodeID graft.ID = "engine.restore"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			conventions.NodeID,
			compat.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			matcher, err := graft.Dep[ports.AssetMatcher](ctx)
			if err != nil {
				return nil, err
			}

			checker, err := graft.Dep[ports.CompatibilityChecker](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(matcher, checker, log, tracer)
		},
	})
}
