package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/core/ports"
)

// NodeID is the unique identifier for the restore cache store Graft node.
const NodeID graft.ID = "adapter.restore_cache_store"

func init() {
	graft.Register(graft.Node[ports.RestoreCacheStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RestoreCacheStore, error) {
			return NewStore(), nil
		},
	})
}
