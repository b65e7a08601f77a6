package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"llvmads/internal/typedump"
)

// Digest is the SHA-256 of an input file's content.
type Digest [32]byte

// HashContent keys a cache entry; the dump schema is mixed in so a layout
// change never reads stale entries.
func HashContent(content []byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(typedump.SchemaVersion >> 8), byte(typedump.SchemaVersion)})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DiskCache stores loaded modules as msgpack dumps keyed by input digest,
// so re-translating an unchanged .ll file skips the IR parser.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes the cache under $XDG_CACHE_HOME/<app>.
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

// OpenDiskCacheAt initializes the cache in dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Put writes a bundle under key.
func (c *DiskCache) Put(key Digest, b *typedump.Bundle) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return WriteAtomic(p, func(f *os.File) error {
		return typedump.EncodeMsgpack(f, b)
	})
}

// Get reads the bundle stored under key. A missing entry is not an error.
func (c *DiskCache) Get(key Digest) (*typedump.Bundle, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	b, err := typedump.DecodeMsgpack(f)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", filepath.Base(f.Name()), err)
	}
	return b, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "mods"))
}
