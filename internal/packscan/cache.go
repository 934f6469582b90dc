package packscan

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"shaderopt/internal/option"
)

// Bump when cachePayload changes shape.
const cacheSchemaVersion uint16 = 1

// Cache stores per-file scan results on disk, keyed by the sha256 of the file
// content. Because annotations are derived from content alone, a hash hit can
// skip classification entirely; the lines are rehydrated from the content the
// caller already read. A nil *Cache is valid and does nothing.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16

	Booleans    map[uint32]option.BooleanOption
	Strings     map[uint32]option.StringOption
	Diagnostics map[uint32]string
	References  map[string]uint32
}

// OpenCache initializes a cache at the standard user cache location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [sha256.Size]byte) string {
	// "scans" subdirectory for easy inspection and cleanup.
	return filepath.Join(c.dir, "scans", hex.EncodeToString(key[:])+".mp")
}

// Store serializes the annotations of src under the hash of content. Write
// failures are swallowed: a cache that cannot be written only costs speed.
func (c *Cache) Store(content []byte, src *option.AnnotatedSource) {
	if c == nil {
		return
	}
	payload, err := toPayload(src)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(sha256.Sum256(content))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return
	}
	if err := f.Close(); err != nil {
		return
	}
	// Atomic replace.
	_ = os.Rename(f.Name(), p)
}

// Lookup rehydrates an AnnotatedSource for content if a cached entry exists.
// lines must be the split form of content.
func (c *Cache) Lookup(content []byte, lines []string) (*option.AnnotatedSource, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	raw, err := os.ReadFile(c.pathFor(sha256.Sum256(content)))
	c.mu.RUnlock()
	if err != nil {
		// Missing, corrupt, or unreadable entries are all just misses.
		return nil, false
	}

	var payload cachePayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false
	}

	return fromPayload(lines, payload), true
}

func toPayload(src *option.AnnotatedSource) (cachePayload, error) {
	payload := cachePayload{
		Schema:      cacheSchemaVersion,
		Booleans:    make(map[uint32]option.BooleanOption, len(src.BooleanOptions())),
		Strings:     make(map[uint32]option.StringOption, len(src.StringOptions())),
		Diagnostics: make(map[uint32]string, len(src.Diagnostics())),
		References:  make(map[string]uint32, len(src.DefineReferences())),
	}

	for index, opt := range src.BooleanOptions() {
		key, err := safecast.Conv[uint32](index)
		if err != nil {
			return cachePayload{}, err
		}
		payload.Booleans[key] = opt
	}
	for index, opt := range src.StringOptions() {
		key, err := safecast.Conv[uint32](index)
		if err != nil {
			return cachePayload{}, err
		}
		payload.Strings[key] = opt
	}
	for index, msg := range src.Diagnostics() {
		key, err := safecast.Conv[uint32](index)
		if err != nil {
			return cachePayload{}, err
		}
		payload.Diagnostics[key] = msg
	}
	for name, index := range src.DefineReferences() {
		key, err := safecast.Conv[uint32](index)
		if err != nil {
			return cachePayload{}, err
		}
		payload.References[name] = key
	}

	return payload, nil
}

func fromPayload(lines []string, payload cachePayload) *option.AnnotatedSource {
	booleans := make(map[int]option.BooleanOption, len(payload.Booleans))
	strs := make(map[int]option.StringOption, len(payload.Strings))
	diagnostics := make(map[int]string, len(payload.Diagnostics))
	references := make(map[string]int, len(payload.References))

	for key, opt := range payload.Booleans {
		booleans[int(key)] = opt
	}
	for key, opt := range payload.Strings {
		strs[int(key)] = opt
	}
	for key, msg := range payload.Diagnostics {
		diagnostics[int(key)] = msg
	}
	for name, key := range payload.References {
		references[name] = int(key)
	}

	return option.Restore(lines, booleans, strs, diagnostics, references)
}
