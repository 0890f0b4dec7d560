package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("api.language", "de")
	require.NoError(t, err)

	val, ok := store.Get("api.language")
	assert.True(t, ok)
	assert.Equal(t, "de", val)
	assert.Equal(t, "de", store.GetString("api.language"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("upload.batch_size", 500))
	require.NoError(t, store.Set("upload.dry_run", true))

	assert.Equal(t, 500, store.GetInt("upload.batch_size"))
	assert.True(t, store.GetBool("upload.dry_run"))

	// Wrong-type and missing keys fall back to zero values.
	assert.Equal(t, 0, store.GetInt("upload.dry_run"))
	assert.Equal(t, "", store.GetString("does.not.exist"))
	assert.False(t, store.GetBool("does.not.exist"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("upload.batch_size", 250))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 250, reloaded.GetInt("upload.batch_size"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[upload]\nbatch_size = 100\nasync_wait_seconds = 5\n\n[api]\nbase_url = \"https://staging.codelime.io/api\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 100, store.GetInt("upload.batch_size"))
	assert.Equal(t, 5, store.GetInt("upload.async_wait_seconds"))
	assert.Equal(t, "https://staging.codelime.io/api", store.GetString("api.base_url"))
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}
