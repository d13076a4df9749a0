package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedAndIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, EnsureDir(dir))
}

func TestRemoveTree_RemovesRecursively(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "root")
	require.NoError(t, EnsureDir(filepath.Join(dir, "sub")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "f.txt"), []byte("x"), 0o660))

	require.NoError(t, RemoveTree(dir))
	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestRemoveTree_MissingPathIsNotAnError(t *testing.T) {
	require.NoError(t, RemoveTree(filepath.Join(t.TempDir(), "absent")))
}
