package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"frameflow/internal/filesystem"
	"frameflow/internal/logging"
	"frameflow/internal/metrics"
)

// DefaultCacheTTL is how long a cached probe result stays valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Cache persists probe results in a Badger database. Keys include the file
// size and modification time, so an edited file misses.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCache opens (or creates) the cache in dir. An empty dir keeps the
// cache in memory.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	opts := badger.DefaultOptions(dir).
		WithInMemory(dir == "").
		WithLogger(badgerLogger{}).
		WithMemTableSize(8 << 20).
		WithValueLogFileSize(32 << 20).
		WithBlockCacheSize(16 << 20)

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create probe cache directory: %w", err)
		}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open probe cache: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// CacheKey identifies one version of a file.
func CacheKey(path string, info os.FileInfo) []byte {
	return []byte("probe:" + path + "\x00" +
		strconv.FormatInt(info.Size(), 10) + "\x00" +
		strconv.FormatInt(info.ModTime().UnixNano(), 10))
}

// Get returns the cached Metadata for key.
func (c *Cache) Get(key []byte) (*Metadata, bool, error) {
	var meta Metadata
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &meta, true, nil
}

// Put stores meta under key until the cache TTL expires.
func (c *Cache) Put(key []byte, meta *Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(c.ttl))
	})
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Source is anything that can probe a decoded path, normally a *Prober.
type Source interface {
	ProbeDecoded(ctx context.Context, path string) (*Metadata, error)
}

// CachedProber consults a Cache before running ffprobe. Failed probes are
// not cached.
type CachedProber struct {
	source Source
	cache  *Cache
	retry  filesystem.RetryConfig
}

func NewCachedProber(source Source, cache *Cache, retry filesystem.RetryConfig) *CachedProber {
	return &CachedProber{source: source, cache: cache, retry: retry}
}

// Probe returns cached metadata for path when the file is unchanged and
// otherwise probes it and records the result. A frameflow:// identifier is
// decoded here exactly once.
func (c *CachedProber) Probe(ctx context.Context, path string) (*Metadata, error) {
	clean := CleanPath(path)

	info, err := filesystem.StatWithRetry(clean, c.retry)
	if err != nil || info.IsDir() {
		// Let ffprobe produce the error message
		return c.source.ProbeDecoded(ctx, clean)
	}
	key := CacheKey(clean, info)

	meta, ok, err := c.cache.Get(key)
	switch {
	case err != nil:
		metrics.ProbeCacheTotal.WithLabelValues("error").Inc()
		logging.Warn("Probe cache read failed for %s: %v", clean, err)
	case ok:
		metrics.ProbeCacheTotal.WithLabelValues("hit").Inc()
		return meta, nil
	default:
		metrics.ProbeCacheTotal.WithLabelValues("miss").Inc()
	}

	meta, err = c.source.ProbeDecoded(ctx, clean)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(key, meta); err != nil {
		metrics.ProbeCacheTotal.WithLabelValues("error").Inc()
		logging.Warn("Probe cache write failed for %s: %v", clean, err)
	}
	return meta, nil
}

// badgerLogger routes Badger's internal logging through the application
// logger. Badger is chatty at info level, so info goes to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug("badger: "+format, args...)
}
