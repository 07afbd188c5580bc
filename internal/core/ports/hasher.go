package ports

import "go.trai.ch/restore/internal/core/domain"

// Hasher computes fingerprints used to skip work that is already done.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeProjectHash fingerprints everything in the project spec that affects a restore.
	ComputeProjectHash(project *domain.ProjectSpec) string
}
