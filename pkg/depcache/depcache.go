// Package depcache tracks, per output, the content hash of every input
// that contributed to it (document body, layout chain, includes, config
// keys read) so an unchanged build can skip re-rendering it. Always
// content-hash addressed, never mtime-based: copies, VFS checkouts, and
// git operations routinely produce fresh mtimes for byte-identical
// content (spec.md §4.12), grounded on the teacher's buildcache package.
package depcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

const (
	cacheVersion = 1
	cacheDir     = ".jekyllgo-cache"
	cacheFile    = "depcache.json"
)

// Cache is the persisted, content-hash-addressed incremental build state.
type Cache struct {
	mu sync.RWMutex

	Version int                            `json:"version"`
	Outputs map[string]*model.OutputRecord `json:"outputs"`

	path string
}

// HashContent returns the hex SHA-256 digest of content, the addressing
// scheme for every tracked input.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// New returns an empty Cache rooted at <cacheRoot>/.jekyllgo-cache.
func New(cacheRoot string) *Cache {
	return &Cache{
		Version: cacheVersion,
		Outputs: make(map[string]*model.OutputRecord),
		path:    filepath.Join(cacheRoot, cacheDir, cacheFile),
	}
}

// Load reads a persisted Cache, returning a fresh empty one (never an
// error) if the file is absent, unreadable, or from an older version —
// per spec.md's incremental build being conservative: a corrupt or
// stale cache triggers a full rebuild rather than a partial, wrong one.
func Load(cacheRoot string) *Cache {
	c := New(cacheRoot)
	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	var loaded Cache
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.Version != cacheVersion {
		return c
	}
	c.Outputs = loaded.Outputs
	if c.Outputs == nil {
		c.Outputs = make(map[string]*model.OutputRecord)
	}
	return c
}

// Save persists the cache to disk, creating its directory if needed.
func (c *Cache) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: c.path}, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: c.path}, err)
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Record stores the input hashes and config keys that produced
// outputRelPath, replacing any prior record for it. inputs maps every
// contributing source path (the document, its layout chain, any includes
// it pulled in) to that file's current content hash.
func (c *Cache) Record(outputRelPath string, inputs map[string]string, configKeys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Outputs[outputRelPath] = &model.OutputRecord{Inputs: inputs, ConfigKeys: configKeys}
}

// UpToDate reports whether outputRelPath's recorded input set is
// identical (same paths, same hashes) to currentInputs. A missing
// record, an added input, a removed input, or any changed hash makes the
// output stale — the cache is conservative rather than clever: unknown
// equals dirty.
func (c *Cache) UpToDate(outputRelPath string, currentInputs map[string]string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.Outputs[outputRelPath]
	if !ok || len(rec.Inputs) != len(currentInputs) {
		return false
	}
	for path, hash := range rec.Inputs {
		if currentInputs[path] != hash {
			return false
		}
	}
	return true
}

// ConfigKeysChanged reports whether outputRelPath has no record or any of
// its recorded config keys is absent from currentConfig. Only key names are
// recorded, not their values, so a key whose value changed (e.g. a
// permalink template edit) is not detected.
func (c *Cache) ConfigKeysChanged(outputRelPath string, currentConfig map[string]string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.Outputs[outputRelPath]
	if !ok {
		return true
	}
	for _, key := range rec.ConfigKeys {
		if _, tracked := currentConfig[key]; !tracked {
			return true
		}
	}
	return false
}

// trackedInputPaths returns rec's input paths in sorted order, useful for
// deterministic diagnostics and tests.
func (c *Cache) trackedInputPaths(outputRelPath string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.Outputs[outputRelPath]
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(rec.Inputs))
	for p := range rec.Inputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
