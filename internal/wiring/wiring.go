// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/restore/internal/adapters/cache"
	_ "go.trai.ch/restore/internal/adapters/compat"
	_ "go.trai.ch/restore/internal/adapters/config"
	_ "go.trai.ch/restore/internal/adapters/conventions"
	_ "go.trai.ch/restore/internal/adapters/environment"
	_ "go.trai.ch/restore/internal/adapters/fs"
	_ "go.trai.ch/restore/internal/adapters/lockfile"
	_ "go.trai.ch/restore/internal/adapters/logger"
	_ "go.trai.ch/restore/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/restore/internal/app"
	_ "go.trai.ch/restore/internal/engine/restore"
)
