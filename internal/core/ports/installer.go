package ports

import (
	"context"

	"go.trai.ch/restore/internal/core/domain"
)

// Installer copies packages from a source into the packages folder.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install installs the candidate. Installing an already installed package is a no-op.
	Install(ctx context.Context, candidate domain.InstallCandidate) error
}
