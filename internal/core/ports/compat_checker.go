package ports

import "go.trai.ch/restore/internal/core/domain"

// CompatibilityIssue describes one library that cannot be used by a target.
type CompatibilityIssue struct {
	Library domain.LibraryIdentity
	Project bool
	Message string
}

// CompatibilityResult is the outcome of checking one graph.
type CompatibilityResult struct {
	Graph   string
	Success bool
	Issues  []CompatibilityIssue
}

// CompatibilityChecker verifies that every library of a graph has assets for its target.
//
//go:generate mockgen -source=compat_checker.go -destination=mocks/mock_compat_checker.go -package=mocks
type CompatibilityChecker interface {
	// Check inspects graph against the lock file target built for it.
	Check(graph *domain.RestoreTargetGraph, includeFlags map[string]domain.IncludeFlags, lockFile *domain.LockFile) CompatibilityResult
}
