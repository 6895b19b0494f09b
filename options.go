package taskdef

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/function"
	"github.com/zero-day-ai/taskdef/store"
	"github.com/zero-day-ai/taskdef/task"
)

// Option configures a Framework.
type Option func(*options)

type options struct {
	configPath string
	config     *config.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	factory    datasource.Factory
	functions  *function.Registry

	taskRepo       store.Repository[task.Model]
	dataSourceRepo store.Repository[datasource.Model]
}

// WithConfigFile loads the configuration from a YAML file, or from
// taskdef.yaml inside a directory.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithConfig uses an in-memory configuration. It takes precedence over
// WithConfigFile.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets the logger shared by the managers.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer for manager spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithMeter sets the OpenTelemetry meter for manager counters.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithFactory sets the factory that builds data sources from configs.
func WithFactory(factory datasource.Factory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// WithFunctions checks at construction that every task function is
// registered in reg.
func WithFunctions(reg *function.Registry) Option {
	return func(o *options) {
		o.functions = reg
	}
}

// WithRepositories uses the given repositories instead of opening the
// configured storage backend.
func WithRepositories(tasks store.Repository[task.Model], dataSources store.Repository[datasource.Model]) Option {
	return func(o *options) {
		o.taskRepo = tasks
		o.dataSourceRepo = dataSources
	}
}
