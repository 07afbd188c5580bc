package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/fs"
)

func TestVerifier_FilesExist(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()

	hash1 := filepath.Join(tmpDir, "a.1.0.0.nupkg.sha512")
	hash2 := filepath.Join(tmpDir, "b.2.0.0.nupkg.sha512")
	require.NoError(t, os.WriteFile(hash1, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(hash2, []byte("y"), 0o600))

	// All files exist
	exists, err := verifier.FilesExist([]string{hash1, hash2})
	require.NoError(t, err)
	assert.True(t, exists)

	// One file missing
	exists, err = verifier.FilesExist([]string{hash1, filepath.Join(tmpDir, "missing.sha512")})
	require.NoError(t, err)
	assert.False(t, exists)

	// Nothing to check
	exists, err = verifier.FilesExist(nil)
	require.NoError(t, err)
	assert.True(t, exists)
}
