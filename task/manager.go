package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/store"
)

const instrumentationName = "github.com/zero-day-ai/taskdef/task"

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger of the manager and of every task it
// returns. Default: slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTracer sets the tracer for manager spans. Default: the global tracer
// provider.
func WithTracer(tracer trace.Tracer) ManagerOption {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithMeter sets the meter for manager counters. Default: the global meter
// provider.
func WithMeter(meter metric.Meter) ManagerOption {
	return func(m *Manager) {
		m.meter = meter
	}
}

// Manager creates, persists and retrieves tasks. Data sources referenced by
// a task are persisted through the data-source manager.
type Manager struct {
	repo        store.Repository[Model]
	dataSources *datasource.Manager
	logger      *slog.Logger
	tracer      trace.Tracer
	meter       metric.Meter

	created metric.Int64Counter
	saved   metric.Int64Counter
}

// NewManager creates a manager persisting tasks to repo and their data
// sources to dataSources.
func NewManager(repo store.Repository[Model], dataSources *datasource.Manager, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		repo:        repo,
		dataSources: dataSources,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(instrumentationName)
	}
	if m.meter == nil {
		m.meter = otel.Meter(instrumentationName)
	}

	var err error
	m.created, err = m.meter.Int64Counter(
		"taskdef.tasks.created",
		metric.WithDescription("Number of tasks created from configs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tasks.created counter: %w", err)
	}
	m.saved, err = m.meter.Int64Counter(
		"taskdef.tasks.saved",
		metric.WithDescription("Number of task upserts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tasks.saved counter: %w", err)
	}
	return m, nil
}

// Create builds a task from cfg, persists it with its data sources and
// returns it. Config entries found in prebuilt are used as is; the others
// are built by the data-source factory. Declaration order is preserved.
func (m *Manager) Create(ctx context.Context, cfg *config.TaskConfig, prebuilt map[*config.DataSourceConfig]datasource.DataSource) (*Task, error) {
	ctx, span := m.tracer.Start(ctx, "task.create",
		trace.WithAttributes(attribute.String("task.config_name", cfg.Name)))
	defer span.End()

	inputs, err := m.resolve(ctx, cfg.Inputs, prebuilt)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("failed to create task %q: %w", cfg.Name, err))
	}
	outputs, err := m.resolve(ctx, cfg.Outputs, prebuilt)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("failed to create task %q: %w", cfg.Name, err))
	}

	t := New(cfg.Name, inputs, cfg.Function, outputs, WithLogger(m.logger))
	if err := m.Set(ctx, t); err != nil {
		return nil, recordError(span, err)
	}

	span.SetAttributes(attribute.String("task.id", string(t.ID())))
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("config_name", t.ConfigName())))
	m.logger.Info("task created",
		"task_id", string(t.ID()),
		"config_name", t.ConfigName(),
		"inputs", t.Input().Len(),
		"outputs", t.Output().Len())
	return t, nil
}

func (m *Manager) resolve(ctx context.Context, cfgs []*config.DataSourceConfig, prebuilt map[*config.DataSourceConfig]datasource.DataSource) ([]datasource.DataSource, error) {
	out := make([]datasource.DataSource, 0, len(cfgs))
	for _, cfg := range cfgs {
		if ds, ok := prebuilt[cfg]; ok && ds != nil {
			out = append(out, ds)
			continue
		}
		ds, err := m.dataSources.Factory().Create(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build data source %q: %w", cfg.Name, err)
		}
		out = append(out, ds)
	}
	return out, nil
}

// Set stores t and its data sources, replacing anything with the same ids.
// Data sources are saved first. If the task itself cannot be saved, the
// data sources this call added are deleted again; ones that were already
// stored keep their new state.
func (m *Manager) Set(ctx context.Context, t *Task) error {
	ctx, span := m.tracer.Start(ctx, "task.set",
		trace.WithAttributes(attribute.String("task.id", string(t.ID()))))
	defer span.End()

	var added []string
	for _, ds := range t.DataSources() {
		_, err := m.dataSources.Get(ctx, ds.ID())
		isNew := errors.Is(err, store.ErrNotFound)
		if err := m.dataSources.Set(ctx, ds); err != nil {
			m.rollback(ctx, t.ID(), added)
			return recordError(span, err)
		}
		if isNew {
			added = append(added, ds.ID())
		}
	}
	if err := m.repo.Save(ctx, string(t.ID()), ToModel(t)); err != nil {
		m.rollback(ctx, t.ID(), added)
		return recordError(span, fmt.Errorf("failed to save task %s: %w", t.ID(), err))
	}
	m.saved.Add(ctx, 1)
	m.logger.Debug("task saved", "task_id", string(t.ID()))
	return nil
}

// rollback deletes the data sources a failed Set added.
func (m *Manager) rollback(ctx context.Context, taskID ID, ids []string) {
	for _, id := range ids {
		if err := m.dataSources.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("failed to remove data source after task save failure",
				"task_id", string(taskID),
				"data_source_id", id,
				"error", err)
		}
	}
}

// Get returns the task stored under id, or a *store.NotFoundError.
func (m *Manager) Get(ctx context.Context, id ID) (*Task, error) {
	ctx, span := m.tracer.Start(ctx, "task.get",
		trace.WithAttributes(attribute.String("task.id", string(id))))
	defer span.End()

	model, err := m.repo.Load(ctx, string(id))
	if err != nil {
		return nil, recordError(span, err)
	}
	t, err := m.fromModel(ctx, model)
	if err != nil {
		return nil, recordError(span, err)
	}
	return t, nil
}

// GetAll returns a snapshot of every stored task ordered by id. Tasks
// referencing a data source that no longer exists are left out and logged;
// Get on such a task still fails.
func (m *Manager) GetAll(ctx context.Context) ([]*Task, error) {
	ctx, span := m.tracer.Start(ctx, "task.get_all")
	defer span.End()

	tasks, err := m.loadAll(ctx)
	if err != nil {
		return nil, recordError(span, err)
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// loadAll skips tasks whose data sources are no longer stored.
func (m *Manager) loadAll(ctx context.Context) ([]*Task, error) {
	models, err := m.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]*Task, 0, len(models))
	for _, model := range models {
		t, err := m.fromModel(ctx, model)
		if errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("skipping task with missing data source",
				"task_id", model.ID,
				"error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Delete removes the task stored under id. Its data sources are kept.
func (m *Manager) Delete(ctx context.Context, id ID) error {
	ctx, span := m.tracer.Start(ctx, "task.delete",
		trace.WithAttributes(attribute.String("task.id", string(id))))
	defer span.End()

	if err := m.repo.Delete(ctx, string(id)); err != nil {
		return recordError(span, err)
	}
	m.logger.Debug("task deleted", "task_id", string(id))
	return nil
}

// DeleteAll removes every stored task.
func (m *Manager) DeleteAll(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "task.delete_all")
	defer span.End()

	if err := m.repo.DeleteAll(ctx); err != nil {
		return recordError(span, fmt.Errorf("failed to delete tasks: %w", err))
	}
	m.logger.Debug("all tasks deleted")
	return nil
}

// Find returns the stored tasks matching a CEL filter over the variable
// task, ordered by id. See Filter for the available fields.
func (m *Manager) Find(ctx context.Context, expr string) ([]*Task, error) {
	ctx, span := m.tracer.Start(ctx, "task.find",
		trace.WithAttributes(attribute.String("task.filter", expr)))
	defer span.End()

	filter, err := NewFilter(expr)
	if err != nil {
		return nil, recordError(span, err)
	}
	tasks, err := m.loadAll(ctx)
	if err != nil {
		return nil, recordError(span, err)
	}
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		ok, err := filter.Match(t)
		if err != nil {
			return nil, recordError(span, err)
		}
		if ok {
			out = append(out, t)
		}
	}
	span.SetAttributes(attribute.Int("task.count", len(out)))
	return out, nil
}

func (m *Manager) fromModel(ctx context.Context, model Model) (*Task, error) {
	inputs, err := m.loadDataSources(ctx, model.ID, model.InputIDs)
	if err != nil {
		return nil, err
	}
	outputs, err := m.loadDataSources(ctx, model.ID, model.OutputIDs)
	if err != nil {
		return nil, err
	}
	return New(model.ConfigName, inputs, model.Function, outputs,
		WithID(ID(model.ID)), WithLogger(m.logger)), nil
}

func (m *Manager) loadDataSources(ctx context.Context, taskID string, ids []string) ([]datasource.DataSource, error) {
	out := make([]datasource.DataSource, 0, len(ids))
	for _, id := range ids {
		ds, err := m.dataSources.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load data source of task %s: %w", taskID, err)
		}
		out = append(out, ds)
	}
	return out, nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
