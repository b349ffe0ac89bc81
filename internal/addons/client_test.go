package addons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addonsServer(t *testing.T, hits *int, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Contains(t, r.Header.Get("User-Agent"), "KubeJS Recipe Manager")
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const smallPage = `<main><a href="/wiki/addons/kubejs-create">KubeJS Create</a></main>`

func TestFetch_WebThenCache(t *testing.T) {
	var hits int
	srv := addonsServer(t, &hits, smallPage)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	c := NewClient(cachePath, WithURL(srv.URL))

	// First fetch hits the web and populates the cache.
	got, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KubeJS Create", got[0].Name)
	assert.Equal(t, 1, hits)

	// Second fetch is served from the fresh cache.
	got, err = c.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, hits)
}

func TestFetch_RefreshBypassesCache(t *testing.T) {
	var hits int
	srv := addonsServer(t, &hits, smallPage)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	c := NewClient(cachePath, WithURL(srv.URL))

	_, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestFetch_StaleCacheTriggersRefetch(t *testing.T) {
	var hits int
	srv := addonsServer(t, &hits, smallPage)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	cache := NewCache(cachePath)
	old := []Addon{{Name: "Old Addon", URL: "https://kubejs.com/wiki/addons/old"}}
	require.NoError(t, cache.Save(old, time.Now().Add(-8*24*time.Hour)))

	c := NewClient(cachePath, WithURL(srv.URL))
	got, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	require.Len(t, got, 1)
	assert.Equal(t, "KubeJS Create", got[0].Name)
}

func TestFetch_WebFailureServesStaleCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	cache := NewCache(cachePath)
	old := []Addon{{Name: "Old Addon", URL: "https://kubejs.com/wiki/addons/old"}}
	require.NoError(t, cache.Save(old, time.Now().Add(-30*24*time.Hour)))

	c := NewClient(cachePath, WithURL(srv.URL))
	got, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, old, got)
}

func TestFetch_FallbackWhenAllElseFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	c := NewClient(cachePath, WithURL(srv.URL))
	got, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, Fallback(), got)

	// The fallback list is saved so the next run has a cache.
	cached, ts, err := NewCache(cachePath).Load()
	require.NoError(t, err)
	assert.Equal(t, Fallback(), cached)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestFetch_EmptyPageFallsBack(t *testing.T) {
	var hits int
	srv := addonsServer(t, &hits, `<main><p>nothing here</p></main>`)
	cachePath := filepath.Join(t.TempDir(), "addons_db.json")

	c := NewClient(cachePath, WithURL(srv.URL))
	got, err := c.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, Fallback(), got)
}

func TestCache_MissingFile(t *testing.T) {
	addons, ts, err := NewCache(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, addons)
	assert.True(t, ts.IsZero())
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addons_db.json")
	cache := NewCache(path)
	want := Fallback()
	now := time.Now()

	require.NoError(t, cache.Save(want, now))
	got, ts, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.WithinDuration(t, now, ts, time.Second)
}
