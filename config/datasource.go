package config

import (
	"maps"

	"github.com/zero-day-ai/taskdef/naming"
)

// StorageInMemory is the storage type of data sources held in process memory.
const StorageInMemory = "in_memory"

// DataSourceConfig describes one data source a task reads or writes.
type DataSourceConfig struct {
	// Name is the normalized config name. It is the key under which the
	// built data source appears in a task's inputs or outputs.
	Name string

	// StorageType selects the data-source implementation (e.g. "in_memory").
	StorageType string

	// Scope is the sharing level of the data source.
	Scope Scope

	// Properties holds implementation-specific settings such as
	// "default_data".
	Properties map[string]any
}

// DataSourceOption configures a DataSourceConfig.
type DataSourceOption func(*DataSourceConfig)

// WithScope sets the scope of the data source.
func WithScope(scope Scope) DataSourceOption {
	return func(c *DataSourceConfig) {
		c.Scope = scope
	}
}

// WithProperty sets one implementation-specific property.
func WithProperty(key string, value any) DataSourceOption {
	return func(c *DataSourceConfig) {
		if c.Properties == nil {
			c.Properties = make(map[string]any)
		}
		c.Properties[key] = value
	}
}

// NewDataSourceConfig creates a data-source config. An empty storage type
// defaults to StorageInMemory.
func NewDataSourceConfig(name, storageType string, opts ...DataSourceOption) *DataSourceConfig {
	if storageType == "" {
		storageType = StorageInMemory
	}
	c := &DataSourceConfig{
		Name:        naming.Normalize(name),
		StorageType: storageType,
		Scope:       ScopePipeline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Property returns a property value and whether it was set.
func (c *DataSourceConfig) Property(key string) (any, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// CloneProperties returns a shallow copy of the properties map.
func (c *DataSourceConfig) CloneProperties() map[string]any {
	if c.Properties == nil {
		return nil
	}
	return maps.Clone(c.Properties)
}
