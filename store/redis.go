package store

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

// Default connection settings used by DialRedis.
const (
	DefaultRedisURL     = "redis://localhost:6379"
	DefaultRedisTimeout = 5 * time.Second
)

// RedisOptions configures the Redis connection. Zero fields take the
// defaults above.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection string.
	URL string

	// TLS overrides the TLS settings derived from the URL.
	TLS *tls.Config

	// DialTimeout bounds connection establishment and the initial PING.
	DialTimeout time.Duration

	// IOTimeout bounds each read and each write.
	IOTimeout time.Duration
}

// clientOptions resolves o into go-redis options.
func (o RedisOptions) clientOptions() (*redis.Options, error) {
	url := cmp.Or(o.URL, DefaultRedisURL)
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if o.TLS != nil {
		ro.TLSConfig = o.TLS
	}
	ro.DialTimeout = cmp.Or(o.DialTimeout, DefaultRedisTimeout)
	ro.ReadTimeout = cmp.Or(o.IOTimeout, DefaultRedisTimeout)
	ro.WriteTimeout = ro.ReadTimeout
	return ro, nil
}

// DialRedis opens a Redis client and returns it once it answers a PING.
func DialRedis(opts RedisOptions) (*redis.Client, error) {
	ro, err := opts.clientOptions()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(ro)

	ctx, cancel := context.WithTimeout(context.Background(), ro.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, multierr.Append(
			fmt.Errorf("failed to connect to Redis at %s: %w", ro.Addr, err),
			client.Close())
	}
	return client, nil
}

// Redis is a Repository backed by a single Redis hash per entity kind.
//
// Key layout: "<namespace>:<entity>" holds field id -> encoded value.
// HSET gives upsert semantics and DEL clears the whole kind atomically.
type Redis[M any] struct {
	client redis.UniversalClient
	key    string
	entity string
	codec  Codec[M]
}

// NewRedis creates a repository on an existing client. The caller owns the
// client and is responsible for closing it.
func NewRedis[M any](client redis.UniversalClient, namespace, entity string, codec Codec[M]) *Redis[M] {
	if codec == nil {
		codec = JSONCodec[M]{}
	}
	return &Redis[M]{
		client: client,
		key:    redisKey(namespace, entity),
		entity: entity,
		codec:  codec,
	}
}

func redisKey(namespace, entity string) string {
	if namespace == "" {
		return entity
	}
	return namespace + ":" + entity
}

// Save implements Repository.
func (r *Redis[M]) Save(ctx context.Context, id string, m M) error {
	if id == "" {
		return ErrInvalidKey
	}

	data, err := r.codec.Marshal(m)
	if err != nil {
		return err
	}

	if err := r.client.HSet(ctx, r.key, id, data).Err(); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", r.entity, id, err)
	}
	return nil
}

// Load implements Repository.
func (r *Redis[M]) Load(ctx context.Context, id string) (M, error) {
	var zero M

	data, err := r.client.HGet(ctx, r.key, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, &NotFoundError{Entity: r.entity, ID: id}
		}
		return zero, fmt.Errorf("failed to load %s %s: %w", r.entity, id, err)
	}

	return r.codec.Unmarshal(data)
}

// LoadAll implements Repository.
func (r *Redis[M]) LoadAll(ctx context.Context) ([]M, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s entries: %w", r.entity, err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]M, 0, len(ids))
	for _, id := range ids {
		m, err := r.codec.Unmarshal([]byte(entries[id]))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s %s: %w", r.entity, id, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Delete implements Repository.
func (r *Redis[M]) Delete(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, r.key, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.entity, id, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: r.entity, ID: id}
	}
	return nil
}

// DeleteAll implements Repository.
func (r *Redis[M]) DeleteAll(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s entries: %w", r.entity, err)
	}
	return nil
}
