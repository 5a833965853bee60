package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/filecache/internal/logging"
)

const (
	// DefaultDirectory 是未指定目录时使用的相对路径。
	DefaultDirectory = "./.cache"
	// DefaultTTL 为 15 天，即 1,296,000,000 毫秒。
	DefaultTTL = 15 * 24 * time.Hour
)

// Options 控制 Cache 的目录、默认 TTL 以及可选的编码与观测组件，零值字段使用默认值。
type Options struct {
	Directory  string
	DefaultTTL time.Duration
	Hash       HashAlgorithm
	Compress   bool

	// Store 非空时替代基于 Directory 的磁盘存储。
	Store   Store
	Logger  *logrus.Logger
	Metrics *Metrics
	Clock   func() time.Time
}

// Entry 是缓存的最小单元，同时也是持久层记录的结构。
type Entry[V any] struct {
	Data    V     `json:"data"`
	Expires int64 `json:"expires"`
}

// Cache 组合内存快路径与按 key 摘要寻址的持久层。
//
// mu 只保护内存 map，任何磁盘 I/O 都在锁外进行；同一 key 的并发写入在磁盘上以
// 最后完成者为准，而内存总是反映最近一次发起的 Set/Delete。
type Cache[V any] struct {
	id      string
	store   Store
	codec   *recordCodec
	hash    HashAlgorithm
	ttl     time.Duration
	expiry  expiryPolicy
	metrics *Metrics
	log     *logrus.Entry

	mu     sync.RWMutex
	memory map[string]Entry[V]
}

// New 构建绑定到目录的 Cache，目录不存在时递归创建。
func New[V any](ctx context.Context, opts Options) (*Cache[V], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := ParseHashAlgorithm(string(opts.Hash))
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		dir := opts.Directory
		if dir == "" {
			dir = DefaultDirectory
		}
		if store, err = NewStore(dir); err != nil {
			return nil, err
		}
	}

	codec, err := newRecordCodec(opts.Compress)
	if err != nil {
		return nil, err
	}

	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	id := uuid.NewString()
	c := &Cache[V]{
		id:      id,
		store:   store,
		codec:   codec,
		hash:    hash,
		ttl:     ttl,
		expiry:  newExpiryPolicy(opts.Clock),
		metrics: opts.Metrics,
		log:     logger.WithFields(logging.CacheFields(id, store.Root())),
		memory:  make(map[string]Entry[V]),
	}
	c.log.WithFields(logrus.Fields{
		"action":      "cache_open",
		"default_ttl": ttl.String(),
		"hash":        string(hash),
		"compress":    opts.Compress,
	}).Debug("cache ready")
	return c, nil
}

// Directory 返回持久层根目录。
func (c *Cache[V]) Directory() string {
	return c.store.Root()
}

// Path 返回 key 对应记录的位置，不保证记录存在。
func (c *Cache[V]) Path(key string) string {
	return filepath.Join(c.store.Root(), c.hash.RecordName(key))
}

// DefaultTTL 返回 Set 使用的 TTL。
func (c *Cache[V]) DefaultTTL() time.Duration {
	return c.ttl
}

// Get 先查内存再读磁盘。记录缺失、读失败或无法解码都视为未命中，不会返回错误；
// 命中但已过期的条目会从两层中删除后返回未命中。
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	result := c.lookup(ctx, key)
	if !result.found() {
		c.metrics.miss(result.status)
		if result.status != lookupMissing {
			c.log.WithFields(logrus.Fields{
				"action": "cache_read",
				"reason": result.status.String(),
			}).WithError(result.err).Debug("durable record unusable, treated as miss")
		}
		return zero, false
	}

	if c.expiry.Expired(result.entry.Expires) {
		c.metrics.expired()
		if err := c.Delete(ctx, key); err != nil {
			c.log.WithFields(logrus.Fields{
				"action": "cache_expire",
				"record": c.hash.RecordName(key),
			}).WithError(err).Warn("failed to purge expired record")
		}
		return zero, false
	}

	c.metrics.hit(result.status)
	return result.entry.Data, true
}

// Set 以默认 TTL 写入。
func (c *Cache[V]) Set(ctx context.Context, key string, data V) error {
	return c.SetWithTTL(ctx, key, data, c.ttl)
}

// SetWithTTL 立即更新内存，再把同一条记录覆盖写入磁盘。磁盘写入失败时返回错误，
// 但内存中的条目仍然有效，直到下一次成功写入或进程重启两层才会重新一致。
func (c *Cache[V]) SetWithTTL(ctx context.Context, key string, data V, ttl time.Duration) error {
	entry := Entry[V]{Data: data, Expires: c.expiry.ExpiresAt(ttl)}

	c.mu.Lock()
	c.memory[key] = entry
	c.mu.Unlock()

	payload, err := encodeRecord(c.codec, entry)
	if err == nil {
		err = c.store.Write(ctx, c.hash.RecordName(key), payload)
	}
	if err != nil {
		c.metrics.failure("write")
		return fmt.Errorf("persist cache entry: %w", err)
	}
	return nil
}

// Delete 立即从内存移除 key，再删除磁盘记录；记录不存在不视为错误。
func (c *Cache[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()

	if err := c.store.Remove(ctx, c.hash.RecordName(key)); err != nil {
		c.metrics.failure("delete")
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// Close 释放编解码器资源，之后不应再使用该 Cache。
func (c *Cache[V]) Close() {
	c.codec.close()
}

func (c *Cache[V]) lookup(ctx context.Context, key string) lookupResult[V] {
	c.mu.RLock()
	entry, ok := c.memory[key]
	c.mu.RUnlock()
	if ok {
		return lookupResult[V]{status: lookupMemory, entry: entry}
	}

	payload, err := c.store.Read(ctx, c.hash.RecordName(key))
	if err != nil {
		return readFailure[V](err)
	}
	entry, err = decodeRecord[V](c.codec, payload)
	if err != nil {
		return lookupResult[V]{status: lookupCorrupt, err: err}
	}
	return lookupResult[V]{status: lookupDisk, entry: entry}
}

// DeleteCache 递归删除整个缓存目录，目录不存在时不报错。它不会触碰任何存活
// Cache 的内存层，调用方需自行停止使用目录已被清空的实例。
func DeleteCache(directory string) error {
	if directory == "" {
		directory = DefaultDirectory
	}
	if err := os.RemoveAll(directory); err != nil {
		return fmt.Errorf("delete cache directory: %w", err)
	}
	return nil
}
