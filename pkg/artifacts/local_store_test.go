package artifacts

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Open_ReadsAPlainRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clarify.png"), []byte("canvas bytes"), 0o644))

	store := NewLocalStore(dir)
	r, err := store.Open(context.Background(), "clarify.png")
	require.NoError(t, err)
	defer r.Close()

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "canvas bytes", string(content))
}

func TestLocalStore_Open_StripsAFileSchemeURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "submissions", "sub-1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "submissions", "sub-1", "clarify.png"), []byte("canvas bytes"), 0o644))

	store := NewLocalStore(dir)
	r, err := store.Open(context.Background(), "file:///submissions/sub-1/clarify.png")
	require.NoError(t, err)
	defer r.Close()

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "canvas bytes", string(content))
}

func TestLocalStore_Open_ReturnsErrNotFoundForAMissingObject(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(context.Background(), "does-not-exist.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Open_CannotEscapeBaseDirViaPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	_, err := store.Open(context.Background(), "../../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}
