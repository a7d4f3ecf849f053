package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("cache.backend", "sqlite"))
	require.NoError(t, store.Set("cache.backend", "json"))

	val, ok := store.Get("cache.backend")
	assert.True(t, ok)
	assert.Equal(t, "json", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("browser.settle_ms", int64(750))
	_ = store.Set("browser.rate_per_second", 0.5)
	_ = store.Set("browser.headless", false)
	_ = store.Set("browser.consent_labels", []any{"I agree", 3, "Ich stimme zu"})
	_ = store.Set("output.path", "out.geojson")

	assert.Equal(t, 750, store.GetInt("browser.settle_ms"))
	assert.InDelta(t, 750.0, store.GetFloat("browser.settle_ms"), 1e-9)
	assert.InDelta(t, 0.5, store.GetFloat("browser.rate_per_second"), 1e-9)
	assert.False(t, store.GetBool("browser.headless"))
	assert.Equal(t, []string{"I agree", "Ich stimme zu"}, store.GetStringSlice("browser.consent_labels"))
	assert.Equal(t, "out.geojson", store.GetString("output.path"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", "not a number")

	assert.Equal(t, 0, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("browser.settle_ms", n)
			_ = store.GetInt("browser.settle_ms")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("browser.settle_ms")
	assert.True(t, ok)
}
