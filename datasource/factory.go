package datasource

import (
	"context"

	"github.com/zero-day-ai/taskdef/config"
)

// Factory builds fresh data sources from their configs.
type Factory interface {
	Create(ctx context.Context, cfg *config.DataSourceConfig) (DataSource, error)
}

// DefaultFactory builds data sources through the storage-type registry,
// giving each one a new id.
type DefaultFactory struct{}

// Create implements Factory.
func (DefaultFactory) Create(ctx context.Context, cfg *config.DataSourceConfig) (DataSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FromModel(Model{
		ID:          NewID(cfg.Name),
		ConfigName:  cfg.Name,
		Scope:       cfg.Scope,
		StorageType: cfg.StorageType,
		Properties:  cfg.CloneProperties(),
	})
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, cfg *config.DataSourceConfig) (DataSource, error)

// Create implements Factory.
func (f FactoryFunc) Create(ctx context.Context, cfg *config.DataSourceConfig) (DataSource, error) {
	return f(ctx, cfg)
}
