package ports

import (
	"context"

	"go.trai.ch/restore/internal/core/domain"
)

// WalkRequest describes one dependency walk.
type WalkRequest struct {
	Range        domain.LibraryRange
	Framework    domain.Framework
	RuntimeID    string
	RuntimeGraph *domain.RuntimeGraph
	// Recursive resolves the full transitive graph. Without it only the requested
	// library is resolved, at exactly the requested version.
	Recursive bool
}

// Walker discovers the dependency graph of a library.
//
//go:generate mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type Walker interface {
	// Walk resolves req and returns the tree with the walker's conflict, cycle and downgrade analysis.
	Walk(ctx context.Context, req WalkRequest) (*domain.WalkResult, error)
}
