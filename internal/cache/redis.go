package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// Redis key layout. Entries live under cache:entry:<store>:<url>; the set
// cache:stores tracks which store names exist so activation can enumerate
// and garbage-collect them.
const (
	redisEntryPrefix = "cache:entry:"
	redisStoreSet    = "cache:stores"
)

// RedisStoreProvider is a redis-backed StoreProvider. Entries are
// CBOR-encoded; all mutations are whole-entry SET/DEL operations, so
// concurrent writers to the same URL are last-write-wins, matching the
// store contract.
type RedisStoreProvider struct {
	client *redis.Client
}

// NewRedisStoreProvider creates a StoreProvider backed by the given redis
// client.
func NewRedisStoreProvider(client *redis.Client) *RedisStoreProvider {
	return &RedisStoreProvider{client: client}
}

// Open returns the named store. The name is registered lazily on first
// write rather than here, so opening a store has no redis side effects.
func (p *RedisStoreProvider) Open(name string) Store {
	return &redisStore{client: p.client, name: name}
}

// Names returns the registered store names, sorted for determinism.
func (p *RedisStoreProvider) Names(ctx context.Context) ([]string, error) {
	names, err := p.client.SMembers(ctx, redisStoreSet).Result()
	if err != nil {
		return nil, fmt.Errorf("listing cache stores: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Drop removes a store and all of its entries.
func (p *RedisStoreProvider) Drop(ctx context.Context, name string) error {
	removed, err := p.client.SRem(ctx, redisStoreSet, name).Result()
	if err != nil {
		return fmt.Errorf("unregistering cache store %s: %w", name, err)
	}
	if removed == 0 {
		return ErrStoreNotFound
	}

	pattern := redisEntryPrefix + name + ":*"
	iter := p.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := p.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("deleting cache entry %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cache store %s: %w", name, err)
	}
	return nil
}

// redisStore is one named redis-backed store.
type redisStore struct {
	client *redis.Client
	name   string
}

func (s *redisStore) Name() string { return s.name }

func (s *redisStore) key(url string) string {
	return redisEntryPrefix + s.name + ":" + url
}

func (s *redisStore) Get(ctx context.Context, url string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", url, err)
	}

	var e Entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", url, err)
	}
	return &e, nil
}

func (s *redisStore) Put(ctx context.Context, e *Entry) error {
	data, err := cbor.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", e.URL, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(e.URL), data, 0)
	pipe.SAdd(ctx, redisStoreSet, s.name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", e.URL, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, url string) error {
	if err := s.client.Del(ctx, s.key(url)).Err(); err != nil {
		return fmt.Errorf("deleting cache entry %s: %w", url, err)
	}
	return nil
}
