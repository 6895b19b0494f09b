package datasource

import (
	"fmt"
	"sync"

	"github.com/zero-day-ai/taskdef/config"
)

// EntityName identifies data sources in repositories and not-found errors.
const EntityName = "data_source"

// Model is the persisted form of a data source.
type Model struct {
	ID          string       `json:"id"`
	ConfigName  string       `json:"config_name"`
	Scope       config.Scope `json:"scope"`
	StorageType string       `json:"storage_type"`
	Properties  Properties   `json:"properties,omitempty"`
}

// Constructor rebuilds a data source of one storage type from its model.
type Constructor func(m Model) (DataSource, error)

var (
	constructorsMu sync.RWMutex
	constructors   = map[string]Constructor{
		config.StorageInMemory: func(m Model) (DataSource, error) {
			return NewInMemory(m.ConfigName, m.Scope, m.ID, m.Properties), nil
		},
	}
)

// RegisterStorageType makes a storage type available to FromModel and
// DefaultFactory. Registering an existing type replaces its constructor.
func RegisterStorageType(storageType string, c Constructor) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	constructors[storageType] = c
}

func constructorFor(storageType string) (Constructor, bool) {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()
	c, ok := constructors[storageType]
	return c, ok
}

// ToModel converts a data source to its persisted form.
func ToModel(ds DataSource) Model {
	return Model{
		ID:          ds.ID(),
		ConfigName:  ds.ConfigName(),
		Scope:       ds.Scope(),
		StorageType: ds.StorageType(),
		Properties:  ds.Properties(),
	}
}

// FromModel rebuilds a data source using the constructor registered for
// the model's storage type.
func FromModel(m Model) (DataSource, error) {
	c, ok := constructorFor(m.StorageType)
	if !ok {
		return nil, fmt.Errorf("unknown storage type %q for data source %s", m.StorageType, m.ID)
	}
	return c(m)
}
