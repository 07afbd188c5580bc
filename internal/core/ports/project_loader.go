package ports

import "go.trai.ch/restore/internal/core/domain"

// ProjectLoader defines the interface for loading a project definition.
//
//go:generate mockgen -source=project_loader.go -destination=mocks/mock_project_loader.go -package=mocks
type ProjectLoader interface {
	// Load finds the project definition starting at path and walking up, and parses it
	// together with the projects it references.
	Load(path string) (*domain.ProjectSpec, error)
}
