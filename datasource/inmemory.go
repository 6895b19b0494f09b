package datasource

import (
	"context"
	"maps"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/naming"
)

// PropertyDefaultData is the property holding an in-memory data source's
// data.
const PropertyDefaultData = "default_data"

// InMemory keeps its data in the "default_data" property. It is not safe
// for concurrent writes.
type InMemory struct {
	id         string
	configName string
	scope      config.Scope
	properties map[string]any
}

// NewInMemory creates an in-memory data source. The config name is
// normalized and an empty id is replaced by one generated from the given
// name.
func NewInMemory(configName string, scope config.Scope, id string, properties map[string]any) *InMemory {
	if id == "" {
		id = NewID(configName)
	}
	if properties == nil {
		properties = make(map[string]any)
	} else {
		properties = maps.Clone(properties)
	}
	return &InMemory{
		id:         id,
		configName: naming.Normalize(configName),
		scope:      scope,
		properties: properties,
	}
}

// ID implements DataSource.
func (d *InMemory) ID() string { return d.id }

// ConfigName implements DataSource.
func (d *InMemory) ConfigName() string { return d.configName }

// Scope implements DataSource.
func (d *InMemory) Scope() config.Scope { return d.scope }

// StorageType implements DataSource.
func (d *InMemory) StorageType() string { return config.StorageInMemory }

// Properties implements DataSource.
func (d *InMemory) Properties() map[string]any { return d.properties }

// Read implements DataSource.
func (d *InMemory) Read(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.properties[PropertyDefaultData], nil
}

// Write implements DataSource.
func (d *InMemory) Write(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.properties[PropertyDefaultData] = data
	return nil
}
