package taskdef

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/health"
	"github.com/zero-day-ai/taskdef/task"
)

// Framework owns the configuration, the storage backend and the managers
// built on it.
type Framework struct {
	config      *config.Config
	dataSources *datasource.Manager
	tasks       *task.Manager
	logger      *slog.Logger

	mu      sync.Mutex
	closers []namedCloser
	checks  []health.Check
	closed  bool
}

type namedCloser struct {
	name string
	io.Closer
}

// New loads the configuration, opens the storage backend and builds the
// data-source and task managers.
func New(opts ...Option) (*Framework, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(o.functions); err != nil {
		return nil, NewValidationError("taskdef.New", err)
	}

	f := &Framework{config: cfg, logger: o.logger}

	taskRepo, dataSourceRepo := o.taskRepo, o.dataSourceRepo
	if taskRepo == nil || dataSourceRepo == nil {
		b, err := openBackend(&cfg.Storage, o.logger)
		if err != nil {
			return nil, err
		}
		taskRepo, dataSourceRepo = b.tasks, b.dataSources
		f.closers = b.closers
		f.checks = b.checks
	}

	dsOpts := []datasource.ManagerOption{datasource.WithLogger(o.logger)}
	if o.factory != nil {
		dsOpts = append(dsOpts, datasource.WithFactory(o.factory))
	}
	f.dataSources = datasource.NewManager(dataSourceRepo, dsOpts...)

	taskOpts := []task.ManagerOption{task.WithManagerLogger(o.logger)}
	if o.tracer != nil {
		taskOpts = append(taskOpts, task.WithTracer(o.tracer))
	}
	if o.meter != nil {
		taskOpts = append(taskOpts, task.WithMeter(o.meter))
	}
	f.tasks, err = task.NewManager(taskRepo, f.dataSources, taskOpts...)
	if err != nil {
		f.closeQuietly()
		return nil, &Error{Op: "taskdef.New", Kind: KindConfiguration, Err: err}
	}

	o.logger.Info("taskdef framework ready",
		"storage", cfg.Storage.GetType(),
		"encoding", cfg.Storage.GetEncoding(),
		"tasks", len(cfg.Tasks.All()),
		"data_sources", len(cfg.DataSources.All()))
	return f, nil
}

func loadConfig(o *options) (*config.Config, error) {
	switch {
	case o.config != nil:
		return o.config, nil
	case o.configPath != "":
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return nil, NewConfigurationError("taskdef.New", err).
				WithContext(map[string]any{"path": o.configPath})
		}
		return cfg, nil
	default:
		return config.New(), nil
	}
}

// Config returns the loaded configuration.
func (f *Framework) Config() *config.Config {
	return f.config
}

// Tasks returns the task manager.
func (f *Framework) Tasks() *task.Manager {
	return f.tasks
}

// DataSources returns the data-source manager.
func (f *Framework) DataSources() *datasource.Manager {
	return f.dataSources
}

// CreateTasks creates every configured task in declaration order. Each
// data-source config is built once, so a data source shared by several
// tasks is the same entity in all of them.
func (f *Framework) CreateTasks(ctx context.Context) ([]*task.Task, error) {
	taskCfgs := f.config.Tasks.All()
	prebuilt := make(map[*config.DataSourceConfig]datasource.DataSource)
	for _, tc := range taskCfgs {
		for _, dsCfg := range tc.DataSources() {
			if _, ok := prebuilt[dsCfg]; ok {
				continue
			}
			ds, err := f.dataSources.Create(ctx, dsCfg)
			if err != nil {
				return nil, err
			}
			prebuilt[dsCfg] = ds
		}
	}

	out := make([]*task.Task, 0, len(taskCfgs))
	for _, tc := range taskCfgs {
		t, err := f.tasks.Create(ctx, tc, prebuilt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Health probes the storage backend. Injected repositories and the memory
// backend have no checks and report healthy.
func (f *Framework) Health(ctx context.Context) health.Status {
	statuses := make([]health.Status, 0, len(f.checks))
	for _, check := range f.checks {
		statuses = append(statuses, check(ctx))
	}
	status := health.Combine(statuses...)
	if !status.IsHealthy() {
		f.logger.Warn("storage backend not healthy",
			"status", status.Status,
			"message", status.Message)
	}
	return status
}

// Close releases the storage backend clients. It is safe to call more
// than once.
func (f *Framework) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	var errs error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to close %s: %w", c.name, err))
		}
	}
	return errs
}

func (f *Framework) closeQuietly() {
	for _, c := range f.closers {
		CloseWithLog(c.Closer, f.logger, c.name)
	}
}
