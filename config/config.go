package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/zero-day-ai/taskdef/function"
	"github.com/zero-day-ai/taskdef/naming"
)

// ErrInvalidConfig indicates the provided configuration is invalid or incomplete.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root of a taskdef configuration.
type Config struct {
	DataSources *DataSourceRegistry
	Tasks       *TaskRegistry
	Storage     StorageConfig
}

// New returns an empty configuration with the default storage settings.
func New() *Config {
	return &Config{
		DataSources: &DataSourceRegistry{byName: make(map[string]*DataSourceConfig)},
		Tasks:       &TaskRegistry{byName: make(map[string]*TaskConfig)},
	}
}

// Validate checks that every task config is complete. When functions is
// non-nil each task function must be registered in it. All problems are
// reported together; each matches ErrInvalidConfig.
func (c *Config) Validate(functions *function.Registry) error {
	var errs error
	for _, tc := range c.Tasks.All() {
		if tc.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: task with empty name", ErrInvalidConfig))
		}
		if tc.Function == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: task %q has no function", ErrInvalidConfig, tc.Name))
		} else if functions != nil {
			if _, ok := functions.Lookup(tc.Function); !ok {
				errs = multierr.Append(errs, fmt.Errorf("%w: task %q uses unregistered function %q", ErrInvalidConfig, tc.Name, tc.Function))
			}
		}
		for _, ds := range tc.DataSources() {
			if ds == nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: task %q has a nil data source", ErrInvalidConfig, tc.Name))
				continue
			}
			if ds.Name == "" {
				errs = multierr.Append(errs, fmt.Errorf("%w: task %q has a data source with empty name", ErrInvalidConfig, tc.Name))
			}
		}
	}
	return errs
}

// DataSourceRegistry holds data-source configs by normalized name, in
// creation order.
type DataSourceRegistry struct {
	names  []string
	byName map[string]*DataSourceConfig
}

// Create builds and registers a data-source config. Creating a name that is
// already registered replaces the previous entry.
func (r *DataSourceRegistry) Create(name, storageType string, opts ...DataSourceOption) *DataSourceConfig {
	c := NewDataSourceConfig(name, storageType, opts...)
	if _, exists := r.byName[c.Name]; !exists {
		r.names = append(r.names, c.Name)
	}
	r.byName[c.Name] = c
	return c
}

// Get returns the config registered under name.
func (r *DataSourceRegistry) Get(name string) (*DataSourceConfig, bool) {
	c, ok := r.byName[naming.Normalize(name)]
	return c, ok
}

// All returns the registered configs in creation order.
func (r *DataSourceRegistry) All() []*DataSourceConfig {
	out := make([]*DataSourceConfig, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}

// TaskRegistry holds task configs by normalized name, in creation order.
type TaskRegistry struct {
	names  []string
	byName map[string]*TaskConfig
}

// Create builds and registers a task config. Creating a name that is
// already registered replaces the previous entry.
func (r *TaskRegistry) Create(name string, inputs []*DataSourceConfig, function string, outputs ...*DataSourceConfig) *TaskConfig {
	c := NewTaskConfig(name, inputs, function, outputs...)
	if _, exists := r.byName[c.Name]; !exists {
		r.names = append(r.names, c.Name)
	}
	r.byName[c.Name] = c
	return c
}

// Get returns the config registered under name.
func (r *TaskRegistry) Get(name string) (*TaskConfig, bool) {
	c, ok := r.byName[naming.Normalize(name)]
	return c, ok
}

// All returns the registered configs in creation order.
func (r *TaskRegistry) All() []*TaskConfig {
	out := make([]*TaskConfig, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}
