package datasource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/store"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFactory sets the factory used by Create. Default: DefaultFactory.
func WithFactory(f Factory) ManagerOption {
	return func(m *Manager) {
		m.factory = f
	}
}

// WithLogger sets the manager's logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager creates, persists and retrieves data sources.
type Manager struct {
	repo    store.Repository[Model]
	factory Factory
	logger  *slog.Logger
}

// NewManager creates a manager persisting to repo.
func NewManager(repo store.Repository[Model], opts ...ManagerOption) *Manager {
	m := &Manager{repo: repo}
	for _, opt := range opts {
		opt(m)
	}
	if m.factory == nil {
		m.factory = DefaultFactory{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Factory returns the factory used by Create.
func (m *Manager) Factory() Factory {
	return m.factory
}

// Create builds a data source from cfg through the factory and persists it.
func (m *Manager) Create(ctx context.Context, cfg *config.DataSourceConfig) (DataSource, error) {
	ds, err := m.factory.Create(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source %q: %w", cfg.Name, err)
	}
	if err := m.Set(ctx, ds); err != nil {
		return nil, err
	}
	m.logger.Debug("data source created",
		"data_source_id", ds.ID(),
		"config_name", ds.ConfigName(),
		"storage_type", ds.StorageType())
	return ds, nil
}

// Set stores ds, replacing any data source with the same id.
func (m *Manager) Set(ctx context.Context, ds DataSource) error {
	if err := m.repo.Save(ctx, ds.ID(), ToModel(ds)); err != nil {
		return fmt.Errorf("failed to save data source %s: %w", ds.ID(), err)
	}
	return nil
}

// Get returns the data source stored under id, or a *store.NotFoundError.
func (m *Manager) Get(ctx context.Context, id string) (DataSource, error) {
	model, err := m.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(model)
}

// GetAll returns every stored data source ordered by id.
func (m *Manager) GetAll(ctx context.Context) ([]DataSource, error) {
	models, err := m.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DataSource, 0, len(models))
	for _, model := range models {
		ds, err := FromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// Delete removes the data source stored under id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.repo.Delete(ctx, id)
}

// DeleteAll removes every stored data source.
func (m *Manager) DeleteAll(ctx context.Context) error {
	if err := m.repo.DeleteAll(ctx); err != nil {
		return err
	}
	m.logger.Debug("all data sources deleted")
	return nil
}
