// Package assets maps logical asset names (js/app.js, css/styles.css) to the
// fingerprinted filenames the frontend build records in manifest.json, so
// templates can emit cache-busted URLs without knowing the hashes.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultDevReloadInterval = 50 * time.Millisecond

// AssetResolver resolves logical asset names against a build manifest. The
// manifest can live on disk (rebuilt while the server runs) or inside an
// embedded filesystem for release builds.
type AssetResolver struct {
	mu                sync.RWMutex
	manifest          map[string]string
	manifestPath      string
	diskPath          string
	fsys              fs.FS
	lastModTime       time.Time
	lastDevReload     time.Time
	devReloadInterval time.Duration
	logger            *slog.Logger
}

// NewAssetResolverFromDisk reads the manifest from the local filesystem. A
// missing manifest is not an error; every asset then resolves to its logical
// name.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	r := &AssetResolver{
		manifest:     make(map[string]string),
		manifestPath: manifestPath,
		diskPath:     manifestPath,
		logger:       slog.Default(),
	}
	return r, r.Reload()
}

// NewAssetResolverFromFS reads the manifest from an fs.FS, typically the
// embedded frontend bundle.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	r := &AssetResolver{
		manifest:     make(map[string]string),
		manifestPath: manifestPath,
		fsys:         fsys,
		logger:       slog.Default(),
	}
	return r, r.Reload()
}

// Resolve returns the static URL path for a logical asset name, falling back
// to the logical name when the manifest has no entry for it.
func (r *AssetResolver) Resolve(logicalName string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if hashed, ok := r.manifest[logicalName]; ok {
		return "/static/" + hashed
	}
	return "/static/" + logicalName
}

// Reload re-reads the manifest from its source.
func (r *AssetResolver) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// ReloadIfChanged re-reads a disk-backed manifest when its mod time has
// advanced. FS-backed resolvers are immutable and skip this entirely.
func (r *AssetResolver) ReloadIfChanged() {
	if r == nil || r.diskPath == "" {
		return
	}

	info, err := os.Stat(r.diskPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.mu.Lock()
			r.clearLocked()
			r.mu.Unlock()
		}
		return
	}

	r.mu.RLock()
	last := r.lastModTime
	r.mu.RUnlock()
	if !info.ModTime().After(last) {
		return
	}

	if err := r.Reload(); err != nil {
		r.loggerOrDefault().Error("failed to reload asset manifest",
			slog.String("manifest", r.manifestPath),
			slog.Any("error", err),
		)
	}
}

// SetLogger updates the resolver's logger. A nil logger restores slog.Default().
func (r *AssetResolver) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logger == nil {
		logger = slog.Default()
	}
	r.logger = logger
}

// SetDevReloadInterval overrides the minimum interval between dev-mode reload
// attempts.
func (r *AssetResolver) SetDevReloadInterval(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devReloadInterval = interval
}

// loadLocked reads and parses the manifest. Callers must hold r.mu.
func (r *AssetResolver) loadLocked() error {
	if r.manifest == nil {
		r.manifest = make(map[string]string)
	}

	data, err := r.readManifest()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.clearLocked()
			return nil
		}
		return err
	}

	if len(data) == 0 {
		r.manifest = make(map[string]string)
	} else {
		var manifest map[string]string
		if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
			r.loggerOrDefault().Error("failed to parse asset manifest",
				slog.String("manifest", r.manifestPath),
				slog.Any("error", jsonErr),
			)
			r.manifest = make(map[string]string)
		} else {
			r.manifest = manifest
		}
	}

	r.rememberModTimeLocked()
	return nil
}

func (r *AssetResolver) readManifest() ([]byte, error) {
	switch {
	case r.diskPath != "":
		return os.ReadFile(r.diskPath)
	case r.fsys != nil:
		return fs.ReadFile(r.fsys, r.manifestPath)
	default:
		return nil, fs.ErrNotExist
	}
}

func (r *AssetResolver) clearLocked() {
	r.manifest = make(map[string]string)
	r.lastModTime = time.Time{}
}

func (r *AssetResolver) rememberModTimeLocked() {
	if r.diskPath == "" {
		return
	}
	if info, err := os.Stat(r.diskPath); err == nil {
		r.lastModTime = info.ModTime()
	} else {
		r.lastModTime = time.Time{}
	}
}

// ResolveAsset is the template-facing entry point. In dev mode it reloads the
// manifest (throttled) and verifies the resolved file exists on disk so a
// half-finished frontend build never renders dead asset links.
func ResolveAsset(resolver *AssetResolver, logicalName string, devMode bool) string {
	defaultPath := "/static/" + logicalName
	if resolver == nil {
		return defaultPath
	}

	if devMode {
		if err := resolver.reloadForDev(); err != nil {
			resolver.loggerOrDefault().Error("failed to reload asset manifest",
				slog.String("manifest", resolver.manifestPath),
				slog.Any("error", err),
			)
		}
	} else {
		resolver.ReloadIfChanged()
	}

	resolved := resolver.Resolve(logicalName)
	if devMode {
		resolved = resolver.verifyOnDisk(logicalName, resolved, defaultPath)
	}
	return resolved
}

func (r *AssetResolver) verifyOnDisk(logicalName, resolved, defaultPath string) string {
	if AssetExistsOnDisk(resolved) {
		return resolved
	}

	// The build may have just replaced the hashed file; retry once with a
	// fresh manifest before giving up.
	if err := r.Reload(); err != nil {
		r.loggerOrDefault().Error("failed to reload asset manifest after missing asset",
			slog.String("manifest", r.manifestPath),
			slog.Any("error", err),
			slog.String("logical_asset", logicalName),
		)
	}

	resolved = r.Resolve(logicalName)
	if !AssetExistsOnDisk(resolved) {
		r.loggerOrDefault().Warn("resolved asset missing on disk; using logical name",
			slog.String("logical_asset", logicalName),
			slog.String("resolved_asset", resolved),
		)
		return defaultPath
	}
	return resolved
}

// AssetExistsOnDisk reports whether a resolved /static/ path maps to a real
// file under the frontend directories.
func AssetExistsOnDisk(resolvedPath string) bool {
	const prefix = "/static/"
	rel := strings.TrimPrefix(resolvedPath, prefix)
	if rel == resolvedPath || rel == "" {
		return false
	}

	for _, p := range []string{
		filepath.Join("frontend", "static", rel),
		filepath.Join("frontend", "public", rel),
	} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func (r *AssetResolver) reloadForDev() error {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	interval := r.devReloadInterval
	r.mu.RUnlock()
	if interval <= 0 {
		interval = defaultDevReloadInterval
	}

	now := time.Now()

	r.mu.Lock()
	last := r.lastDevReload
	if !last.IsZero() && now.Sub(last) < interval {
		r.mu.Unlock()
		return nil
	}
	r.lastDevReload = now
	r.mu.Unlock()

	if err := r.Reload(); err != nil {
		r.mu.Lock()
		if r.lastDevReload.Equal(now) {
			r.lastDevReload = time.Time{}
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *AssetResolver) loggerOrDefault() *slog.Logger {
	if r != nil && r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
