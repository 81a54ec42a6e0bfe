package redis

import (
	"context"
	"time"

	"github.com/kailas-cloud/chartref/internal/db"
)

// HSetWithTTL writes fields and sets ttl with EXPIRE NX in one round trip,
// so the first writer of a hash fixes its lifetime.
func (s *Store) HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if len(fields) == 0 {
		return nil
	}
	hset := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		hset = hset.FieldValue(k, v)
	}
	expire := s.b().Expire().Key(key).Seconds(int64(ttl / time.Second)).Nx().Build()

	res := s.client.DoMulti(ctx, hset.Build(), expire)
	if err := res[0].Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	if err := res[1].Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.client.Do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGet, Err: err}
	}
	return m, nil
}

// HDel removes fields from a hash.
func (s *Store) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.Do(ctx, s.b().Hdel().Key(key).Field(fields...).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHDel, Err: err}
	}
	return nil
}
