package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/multierr"
)

// EtcdOptions configures the etcd connection.
type EtcdOptions struct {
	// Endpoints is the list of etcd endpoints
	// Format: ["host1:2379", "host2:2379", "host3:2379"]
	Endpoints []string

	// DialTimeout bounds connection establishment. Default: 5s
	DialTimeout time.Duration

	// TLS enables mutual TLS when non-nil
	TLS *tls.Config
}

// DialEtcd creates an etcd client and verifies connectivity with a read
// bounded by the dial timeout. Any failure of that read, including a
// timeout, closes the client and is returned.
func DialEtcd(opts EtcdOptions) (*clientv3.Client, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
		TLS:         opts.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil {
		err = fmt.Errorf("etcd health check failed: %w", err)
		if closeErr := cli.Close(); closeErr != nil && !errors.Is(closeErr, context.Canceled) {
			err = multierr.Append(err, fmt.Errorf("failed to close etcd client: %w", closeErr))
		}
		return nil, err
	}

	return cli, nil
}

// Etcd is a Repository that stores one key per entity:
// "/<namespace>/<entity>/<id>".
type Etcd[M any] struct {
	client *clientv3.Client
	prefix string
	entity string
	codec  Codec[M]
}

// NewEtcd creates a repository on an existing client. The caller owns the
// client and is responsible for closing it.
func NewEtcd[M any](client *clientv3.Client, namespace, entity string, codec Codec[M]) *Etcd[M] {
	if codec == nil {
		codec = JSONCodec[M]{}
	}
	return &Etcd[M]{
		client: client,
		prefix: etcdPrefix(namespace, entity),
		entity: entity,
		codec:  codec,
	}
}

func etcdPrefix(namespace, entity string) string {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return "/" + entity + "/"
	}
	return "/" + namespace + "/" + entity + "/"
}

func (r *Etcd[M]) key(id string) string {
	return r.prefix + id
}

// Save implements Repository.
func (r *Etcd[M]) Save(ctx context.Context, id string, m M) error {
	if id == "" {
		return ErrInvalidKey
	}

	data, err := r.codec.Marshal(m)
	if err != nil {
		return err
	}

	if _, err := r.client.Put(ctx, r.key(id), string(data)); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", r.entity, id, err)
	}
	return nil
}

// Load implements Repository.
func (r *Etcd[M]) Load(ctx context.Context, id string) (M, error) {
	var zero M

	resp, err := r.client.Get(ctx, r.key(id))
	if err != nil {
		return zero, fmt.Errorf("failed to load %s %s: %w", r.entity, id, err)
	}
	if len(resp.Kvs) == 0 {
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}

	return r.codec.Unmarshal(resp.Kvs[0].Value)
}

// LoadAll implements Repository. etcd returns prefix ranges in key order,
// so results are ordered by id.
func (r *Etcd[M]) LoadAll(ctx context.Context) ([]M, error) {
	resp, err := r.client.Get(ctx, r.prefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s entries: %w", r.entity, err)
	}

	out := make([]M, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		m, err := r.codec.Unmarshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", string(kv.Key), err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Delete implements Repository.
func (r *Etcd[M]) Delete(ctx context.Context, id string) error {
	resp, err := r.client.Delete(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.entity, id, err)
	}
	if resp.Deleted == 0 {
		return &NotFoundError{Entity: r.entity, ID: id}
	}
	return nil
}

// DeleteAll implements Repository.
func (r *Etcd[M]) DeleteAll(ctx context.Context) error {
	if _, err := r.client.Delete(ctx, r.prefix, clientv3.WithPrefix()); err != nil {
		return fmt.Errorf("failed to delete %s entries: %w", r.entity, err)
	}
	return nil
}
