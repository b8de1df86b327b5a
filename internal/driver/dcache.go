package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchemaVersion invalidates entries whenever the emitted layout
// changes. Bump it together with any emitter or assembler format change.
const cacheSchemaVersion uint16 = 1

// Digest keys the disk cache. It is the SHA-256 of the normalized source
// bytes; the schema version travels inside the payload instead.
type Digest [sha256.Size]byte

// SourceDigest computes the cache key for one input file.
func SourceDigest(src []byte) Digest {
	return sha256.Sum256(src)
}

// DiskPayload is the on-disk record. Emission is deterministic, so caching
// the final module text is sound: same bytes in, same bytes out.
type DiskPayload struct {
	Schema uint16 `msgpack:"schema"`
	Module string `msgpack:"module"`
}

// DiskCache stores emitted modules under the user cache directory.
// The zero-value nil cache is valid and never hits.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache resolves XDG_CACHE_HOME (falling back to ~/.cache) and
// roots the cache at <cache>/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt roots the cache at an explicit directory (tests).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Put writes a payload atomically: encode into a temp file, then rename.
func (c *DiskCache) Put(key Digest, module string) error {
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
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(DiskPayload{Schema: cacheSchemaVersion, Module: module}); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads a module by key. A missing entry or a schema mismatch is a
// miss, not an error.
func (c *DiskCache) Get(key Digest) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return "", false, err
	}
	if payload.Schema != cacheSchemaVersion {
		return "", false, nil
	}
	return payload.Module, true, nil
}

// DropAll discards every entry, for use after a schema bump or on demand.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
