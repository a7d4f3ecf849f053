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

func TestDefaultConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".placemap"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("cache.backend", "sqlite"))
	require.NoError(t, store.Set("browser.settle_ms", 750))
	require.NoError(t, store.Set("browser.rate_per_second", 0.5))
	require.NoError(t, store.Set("browser.headless", false))
	require.NoError(t, store.Set("browser.consent_labels", []string{"I agree", "Ich stimme zu"}))

	assert.Equal(t, "sqlite", store.GetString("cache.backend"))
	assert.Equal(t, 750, store.GetInt("browser.settle_ms"))
	assert.InDelta(t, 0.5, store.GetFloat("browser.rate_per_second"), 1e-9)
	assert.False(t, store.GetBool("browser.headless"))
	assert.Equal(t, []string{"I agree", "Ich stimme zu"}, store.GetStringSlice("browser.consent_labels"))

	// Wrong types fall back to zero values
	assert.Equal(t, "", store.GetString("browser.settle_ms"))
	assert.Equal(t, 0, store.GetInt("cache.backend"))
	assert.Zero(t, store.GetFloat("cache.backend"))
	assert.False(t, store.GetBool("cache.backend"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("cache.path", "/tmp/coords_cache.json"))
	require.NoError(t, store1.Set("browser.redirect_ms", 900))
	require.NoError(t, store1.Set("browser.rate_per_second", 2.5))
	require.NoError(t, store1.Set("browser.headless", true))
	require.NoError(t, store1.Set("browser.consent_labels", []string{"Accept all"}))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/coords_cache.json", store2.GetString("cache.path"))
	assert.Equal(t, 900, store2.GetInt("browser.redirect_ms"))
	assert.InDelta(t, 2.5, store2.GetFloat("browser.rate_per_second"), 1e-9)
	assert.True(t, store2.GetBool("browser.headless"))
	assert.Equal(t, []string{"Accept all"}, store2.GetStringSlice("browser.consent_labels"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("browser.settle_ms", 500))
	require.NoError(t, store.Set("isolation.metric", "great_circle"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[browser]")
	assert.Contains(t, string(data), "[isolation]")
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[cache]
backend = "sqlite"

[browser]
settle_ms = 250
rate_per_second = 1
consent_labels = ["I agree", "Alle akzeptieren"]
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", store.GetString("cache.backend"))
	assert.Equal(t, 250, store.GetInt("browser.settle_ms"))
	assert.InDelta(t, 1.0, store.GetFloat("browser.rate_per_second"), 1e-9)
	assert.Equal(t, []string{"I agree", "Alle akzeptieren"}, store.GetStringSlice("browser.consent_labels"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("output.path", "out.geojson"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "browser.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{
		"cache.backend":     "json",
		"browser.settle_ms": 500,
		"top":               true,
		"top.child":         1,
	}

	nested := nestMap(flat)

	assert.Equal(t, map[string]any{"backend": "json"}, nested["cache"])
	assert.Equal(t, map[string]any{"settle_ms": 500}, nested["browser"])
	assert.Equal(t, true, nested["top"])
	assert.Equal(t, 1, nested["top.child"])
	assert.Equal(t, flat, flattenMap(map[string]any{
		"cache":     nested["cache"],
		"browser":   nested["browser"],
		"top":       true,
		"top.child": 1,
	}, ""))
}
