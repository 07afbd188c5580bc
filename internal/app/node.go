package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/restore/internal/adapters/cache"       //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/adapters/environment" //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/adapters/fs"          //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/adapters/lockfile"    //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/engine/restore"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			environment.NodeID,
			restore.NodeID,
			lockfile.NodeID,
			cache.NodeID,
			fs.HasherNodeID,
			fs.VerifierNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}

	envs, err := graft.Dep[ports.PackageEnvironmentFactory](ctx)
	if err != nil {
		return nil, err
	}

	orchestrator, err := graft.Dep[*restore.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	lockFiles, err := graft.Dep[ports.LockFileStore](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RestoreCacheStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, envs, orchestrator, lockFiles, store, hasher, verifier, log), nil
}
