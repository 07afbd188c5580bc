package domain

import "time"

// RestoreCacheVersion is the version written to new restore cache files.
const RestoreCacheVersion = 1

// RestoreCache records the outcome of the last restore of a project.
type RestoreCache struct {
	Version     int       `json:"version,omitzero"`
	ProjectHash string    `json:"projectHash,omitzero"`
	Success     bool      `json:"success"`
	LockFile    string    `json:"lockFile,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
	// ExpectedPackageFiles are the hash files of every package the restore relied on.
	ExpectedPackageFiles []string `json:"expectedPackageFiles,omitempty"`
}
