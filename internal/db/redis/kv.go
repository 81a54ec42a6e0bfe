package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/chartref/internal/db"
)

const scanPage = 200

// GetCached reads a value through the client-side cache.
func (s *Store) GetCached(ctx context.Context, key string, localTTL time.Duration) ([]byte, error) {
	data, err := s.client.DoCache(ctx, s.b().Get().Key(key).Cache(), localTTL).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes keys.
func (s *Store) Del(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Do(ctx, s.b().Del().Key(keys...).Build()).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpDel, Err: err}
	}
	return int(n), nil
}

// DeleteMatching walks the keyspace with SCAN and unlinks each page of
// matches. Keys written during the walk may survive.
func (s *Store) DeleteMatching(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		page, err := s.client.Do(ctx, s.b().Scan().Cursor(cursor).Match(pattern).Count(scanPage).Build()).AsScanEntry()
		if err != nil {
			return removed, &db.Error{Op: db.OpScan, Err: err}
		}
		if len(page.Elements) > 0 {
			n, err := s.client.Do(ctx, s.b().Unlink().Key(page.Elements...).Build()).AsInt64()
			if err != nil {
				return removed, &db.Error{Op: db.OpUnlink, Err: err}
			}
			removed += int(n)
		}
		if cursor = page.Cursor; cursor == 0 {
			return removed, nil
		}
	}
}
