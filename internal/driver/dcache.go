package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"movecheck/internal/diag"
	"movecheck/internal/project"
	"movecheck/internal/source"
	"movecheck/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностики файлов на диске, ключ - хеш содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedLabel is a label with its span reduced to byte offsets; the file is
// implied by the cache key.
type CachedLabel struct {
	Start uint32
	End   uint32
	Msg   string
}

// CachedDiagnostic is the on-disk form of diag.Diagnostic.
type CachedDiagnostic struct {
	Severity  uint8
	Code      uint16
	Message   string
	Primary   CachedLabel
	Secondary []CachedLabel
}

// DiskPayload is what one cache entry holds.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey ties an entry to the file bytes, the stage and the checker build.
func cacheKey(file *source.File, stage DiagnoseStage) project.Digest {
	return project.Combine(project.Digest(file.Hash), []byte(stage), []byte(version.Version), []byte(version.GitCommit))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "diags", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Store saves the diagnostics of one file.
func (c *DiskCache) Store(key project.Digest, items []diag.Diagnostic) error {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion, Diagnostics: make([]CachedDiagnostic, len(items))}
	for i, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  CachedLabel{Start: d.Primary.Span.Start, End: d.Primary.Span.End, Msg: d.Primary.Msg},
		}
		for _, l := range d.Secondary {
			cd.Secondary = append(cd.Secondary, CachedLabel{Start: l.Span.Start, End: l.Span.End, Msg: l.Msg})
		}
		payload.Diagnostics[i] = cd
	}
	return c.Put(key, payload)
}

// Load restores cached diagnostics onto file. Unreadable or stale entries
// count as misses.
func (c *DiskCache) Load(key project.Digest, file source.FileID) ([]diag.Diagnostic, bool) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	items := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  diag.Label{Span: source.Span{File: file, Start: cd.Primary.Start, End: cd.Primary.End}, Msg: cd.Primary.Msg},
		}
		for _, l := range cd.Secondary {
			d.Secondary = append(d.Secondary, diag.Label{Span: source.Span{File: file, Start: l.Start, End: l.End}, Msg: l.Msg})
		}
		items[i] = d
	}
	return items, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
