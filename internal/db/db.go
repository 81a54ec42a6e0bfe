package db

import (
	"context"
	"time"
)

// Store is the key-value facade behind the catalog cache.
type Store interface {
	Pinger
	BlobStore
	IndexStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BlobStore holds serialized values under expiring keys.
type BlobStore interface {
	// GetCached reads key through the client-side cache. A local copy is
	// served for at most localTTL; server-side invalidation evicts it sooner.
	GetCached(ctx context.Context, key string, localTTL time.Duration) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del removes keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int, error)
	// DeleteMatching removes every key matching a glob pattern.
	DeleteMatching(ctx context.Context, pattern string) (int, error)
}

// IndexStore keeps small hashes that describe what a BlobStore holds.
type IndexStore interface {
	// HSetWithTTL writes fields and, if the hash has no expiry yet, sets ttl.
	HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
}
