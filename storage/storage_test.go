package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir)
	require.NoError(t, err)

	_, ok := s.Get("theme")
	assert.False(t, ok)

	require.NoError(t, s.Set("theme", "dark"))
	require.NoError(t, s.Set("page-theme", "vue"))
	v, ok := s.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	reopened, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "page-theme": "vue"}, reopened.All())

	_, err = os.Stat(filepath.Join(dir, "settings.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreAllIsCopy(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Set("a", "1"))

	all := s.All()
	all["a"] = "2"
	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
}

func TestStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0o644))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestStoreSetFailureKeepsValues(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set("a", "1"))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "settings.json.tmp"), 0o755))
	assert.Error(t, s.Set("a", "2"))
	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
}

func TestStoreSetRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory where the settings file belongs makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "settings.json", "keep"), 0o755))

	s := New(dir)
	require.Error(t, s.Set("theme", "dark"))

	_, err := os.Stat(filepath.Join(dir, "settings.json.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, ok := s.Get("theme")
	assert.False(t, ok)
}
