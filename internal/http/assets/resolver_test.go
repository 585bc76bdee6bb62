package assets

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json": &fstest.MapFile{
			Data: []byte(`{"js/app.js": "js/app.3f9c1a.js", "css/styles.css": "css/styles.b07d22.css"}`),
		},
	}

	resolver, err := NewAssetResolverFromFS(fsys, "manifest.json")
	require.NoError(t, err)

	assert.Equal(t, "/static/js/app.3f9c1a.js", resolver.Resolve("js/app.js"))
	assert.Equal(t, "/static/css/styles.b07d22.css", resolver.Resolve("css/styles.css"))

	// Names the build never fingerprinted resolve to themselves.
	assert.Equal(t, "/static/img/placeholder.png", resolver.Resolve("img/placeholder.png"))
}

func TestResolve_MissingManifestFallsBack(t *testing.T) {
	resolver, err := NewAssetResolverFromDisk(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)

	assert.Equal(t, "/static/js/app.js", resolver.Resolve("js/app.js"))
}

func TestResolve_MalformedManifestFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	resolver, err := NewAssetResolverFromDisk(path)
	require.NoError(t, err)

	assert.Equal(t, "/static/css/styles.css", resolver.Resolve("css/styles.css"))
}

func TestReloadIfChanged_PicksUpRebuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"js/app.js": "js/app.aaaa.js"}`), 0o644))

	resolver, err := NewAssetResolverFromDisk(path)
	require.NoError(t, err)
	require.Equal(t, "/static/js/app.aaaa.js", resolver.Resolve("js/app.js"))

	// Simulate the frontend build rewriting the manifest with a new hash.
	require.NoError(t, os.WriteFile(path, []byte(`{"js/app.js": "js/app.bbbb.js"}`), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	resolver.ReloadIfChanged()
	assert.Equal(t, "/static/js/app.bbbb.js", resolver.Resolve("js/app.js"))
}

func TestReloadIfChanged_DeletedManifestClears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"js/app.js": "js/app.aaaa.js"}`), 0o644))

	resolver, err := NewAssetResolverFromDisk(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	resolver.ReloadIfChanged()
	assert.Equal(t, "/static/js/app.js", resolver.Resolve("js/app.js"))
}

func TestResolveAsset_NilResolver(t *testing.T) {
	assert.Equal(t, "/static/js/app.js", ResolveAsset(nil, "js/app.js", false))
	assert.Equal(t, "/static/js/app.js", ResolveAsset(nil, "js/app.js", true))
}

func TestAssetExistsOnDisk_RejectsNonStaticPaths(t *testing.T) {
	assert.False(t, AssetExistsOnDisk("js/app.js"))
	assert.False(t, AssetExistsOnDisk("/static/"))
	assert.False(t, AssetExistsOnDisk(""))
}
