// Package cache stores lint results keyed by file content so that
// unchanged files are not re-checked between runs. Entries persist
// across processes as an s2-compressed msgpack file.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
)

// DefaultDir is the directory where the cache file lives, relative to
// the project root.
const DefaultDir = ".jarl"

// DefaultFile is the default cache filename.
const DefaultFile = "cache.bin"

// DefaultMaxSize is the default entry limit.
const DefaultMaxSize = 4096

// formatVersion is bumped whenever the on-disk layout changes. A file
// with a different version is silently discarded on load.
const formatVersion = 1

// DefaultPath returns the cache file path under the given root.
func DefaultPath(root string) string {
	return filepath.Join(root, DefaultDir, DefaultFile)
}

// Options configures a Cache.
type Options struct {
	// MaxSize limits the number of entries. Zero means DefaultMaxSize.
	MaxSize int
}

// entry is a single cached result. The key is the hex sha256 of the
// file content, so a file keeps its entry across renames and loses it
// on any edit.
type entry struct {
	key   string
	diags []diagnostic.Diagnostic
}

// Stats reports cache activity for the current process.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache is a thread-safe LRU of lint results keyed by content hash.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	hits    int
	misses  int
}

// New creates a Cache with the given options.
func New(opts Options) *Cache {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Key returns the cache key for the given file content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached diagnostics for a file with the given content.
// The path is not part of the key; identical content shares one entry.
func (c *Cache) Get(path string, content []byte) ([]diagnostic.Diagnostic, bool) {
	key := Key(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*entry).diags, true
}

// Put stores the diagnostics for a file with the given content,
// evicting the least recently used entry when the cache is full.
func (c *Cache) Put(path string, content []byte, diags []diagnostic.Diagnostic) {
	key := Key(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, diags)
}

func (c *Cache) put(key string, diags []diagnostic.Diagnostic) {
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry).diags = diags
		return
	}
	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
	c.items[key] = c.order.PushFront(&entry{key: key, diags: diags})
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counters for the current process.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.order.Len()}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// fileEntry and fileData describe the on-disk layout.
type fileEntry struct {
	Key         string                  `msgpack:"key"`
	Diagnostics []diagnostic.Diagnostic `msgpack:"diagnostics"`
}

type fileData struct {
	Version int         `msgpack:"version"`
	Entries []fileEntry `msgpack:"entries"`
}

// Save writes the cache to path as s2-compressed msgpack, creating
// parent directories as needed. Entries are written oldest first so a
// later Load rebuilds the same recency order.
func (c *Cache) Save(path string) error {
	c.mu.Lock()
	data := fileData{Version: formatVersion}
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		e := elem.Value.(*entry)
		data.Entries = append(data.Entries, fileEntry{Key: e.key, Diagnostics: e.diags})
	}
	c.mu.Unlock()

	raw, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, s2.Encode(nil, raw), 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Load reads a cache file written by Save. A missing file is not an
// error, and a corrupt or outdated file is discarded rather than
// failing the run.
func (c *Cache) Load(path string) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	raw, err := s2.Decode(nil, compressed)
	if err != nil {
		return nil
	}

	var data fileData
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil
	}
	if data.Version != formatVersion {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fe := range data.Entries {
		c.put(fe.Key, fe.Diagnostics)
	}
	return nil
}
