package taskdef

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/health"
	"github.com/zero-day-ai/taskdef/store"
	"github.com/zero-day-ai/taskdef/task"
)

// backend is an opened storage backend with one repository per entity.
type backend struct {
	tasks       store.Repository[task.Model]
	dataSources store.Repository[datasource.Model]
	closers     []namedCloser
	checks      []health.Check
}

func codecFor[M any](encoding string) (store.Codec[M], error) {
	switch encoding {
	case config.EncodingJSON:
		return store.JSONCodec[M]{}, nil
	case config.EncodingProto:
		return store.ProtoCodec[M]{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

func openBackend(s *config.StorageConfig, logger *slog.Logger) (*backend, error) {
	const op = "taskdef.openBackend"

	taskCodec, err := codecFor[task.Model](s.GetEncoding())
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}
	dsCodec, err := codecFor[datasource.Model](s.GetEncoding())
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}
	tlsCfg, err := s.TLS.ClientConfig()
	if err != nil {
		return nil, NewConfigurationError(op, err)
	}
	ns := s.GetNamespace()

	switch s.GetType() {
	case config.StorageMemory:
		return &backend{
			tasks:       store.NewMemory(task.EntityName, taskCodec),
			dataSources: store.NewMemory(datasource.EntityName, dsCodec),
		}, nil

	case config.StorageRedis:
		client, err := store.DialRedis(store.RedisOptions{
			URL:         s.RedisURL,
			TLS:         tlsCfg,
			DialTimeout: s.GetTimeout(),
		})
		if err != nil {
			return nil, NewStorageError(op, err).WithContext(map[string]any{"type": config.StorageRedis})
		}
		return &backend{
			tasks:       store.NewRedis(client, ns, task.EntityName, taskCodec),
			dataSources: store.NewRedis(client, ns, datasource.EntityName, dsCodec),
			closers:     []namedCloser{{name: "redis client", Closer: client}},
			checks: []health.Check{func(ctx context.Context) health.Status {
				return health.Ping(ctx, "redis", func(ctx context.Context) error {
					return client.Ping(ctx).Err()
				})
			}},
		}, nil

	case config.StorageEtcd:
		client, err := store.DialEtcd(store.EtcdOptions{
			Endpoints:   s.EtcdEndpoints,
			DialTimeout: s.GetTimeout(),
			TLS:         tlsCfg,
		})
		if err != nil {
			return nil, NewStorageError(op, err).WithContext(map[string]any{"type": config.StorageEtcd})
		}
		return &backend{
			tasks:       store.NewEtcd(client, ns, task.EntityName, taskCodec),
			dataSources: store.NewEtcd(client, ns, datasource.EntityName, dsCodec),
			closers:     []namedCloser{{name: "etcd client", Closer: client}},
			checks: []health.Check{func(ctx context.Context) health.Status {
				return health.Ping(ctx, "etcd", func(ctx context.Context) error {
					_, err := client.Get(ctx, "health")
					return err
				})
			}},
		}, nil

	case config.StorageMySQL:
		db, err := store.OpenMySQL(s.MySQLDSN)
		if err != nil {
			return nil, NewStorageError(op, err).WithContext(map[string]any{"type": config.StorageMySQL})
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.GetTimeout())
		defer cancel()
		tasks, err := store.NewSQL(ctx, db, ns+"_tasks", task.EntityName, taskCodec)
		if err != nil {
			CloseWithLog(db, logger, "mysql database")
			return nil, NewStorageError(op, err)
		}
		dataSources, err := store.NewSQL(ctx, db, ns+"_data_sources", datasource.EntityName, dsCodec)
		if err != nil {
			CloseWithLog(db, logger, "mysql database")
			return nil, NewStorageError(op, err)
		}
		return &backend{
			tasks:       tasks,
			dataSources: dataSources,
			closers:     []namedCloser{{name: "mysql database", Closer: db}},
			checks: []health.Check{func(ctx context.Context) health.Status {
				return health.Ping(ctx, "mysql", db.PingContext)
			}},
		}, nil

	default:
		return nil, NewConfigurationError(op, fmt.Errorf("%w: %q", ErrUnsupportedStorage, s.GetType()))
	}
}
