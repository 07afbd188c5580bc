package conventions

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/core/ports"
)

// NodeID is the unique identifier for the convention matcher Graft node.
const NodeID graft.ID = "adapter.conventions"

func init() {
	graft.Register(graft.Node[ports.AssetMatcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.AssetMatcher, error) {
			return NewMatcher(), nil
		},
	})
}
