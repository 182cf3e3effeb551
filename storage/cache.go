package storage

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

// DocumentCache sits between the store and the filesystem so repeated
// reads of the same guild's documents do not hit disk.
type DocumentCache interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

type documentCache struct {
	bigCache *bigcache.BigCache
}

// NewDocumentCache creates a bigcache-backed DocumentCache. Entries are
// short-lived; every successful save invalidates the matching key anyway.
func NewDocumentCache(ctx context.Context, ttl time.Duration) (DocumentCache, error) {
	bc, err := bigcache.New(ctx, bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &documentCache{bigCache: bc}, nil
}

func (c *documentCache) Set(key string, value []byte) error {
	return c.bigCache.Set(key, value)
}

func (c *documentCache) Get(key string) ([]byte, error) {
	return c.bigCache.Get(key)
}

func (c *documentCache) Delete(key string) error {
	err := c.bigCache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

// cacheMiss reports whether a Get error means the entry was absent rather
// than a real failure.
func cacheMiss(err error) bool {
	return errors.Is(err, bigcache.ErrEntryNotFound)
}
