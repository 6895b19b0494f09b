package datasource

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/zero-day-ai/taskdef/config"
)

const (
	idPrefix    = "DATASOURCE"
	idSeparator = "_"
)

// DataSource is a named reference a task uses as an input or output.
type DataSource interface {
	// ID is the unique id of this data source instance.
	ID() string

	// ConfigName is the normalized name of the config it was built from.
	// Tasks index their inputs and outputs by this name.
	ConfigName() string

	// Scope is the sharing level of the data source.
	Scope() config.Scope

	// StorageType identifies the implementation, e.g. "in_memory".
	StorageType() string

	// Properties returns the implementation-specific settings.
	Properties() map[string]any

	// Read returns the current data.
	Read(ctx context.Context) (any, error)

	// Write replaces the current data.
	Write(ctx context.Context, data any) error
}

// NewID generates a data-source id of the form DATASOURCE_<name>_<uuid>.
func NewID(name string) string {
	return strings.Join([]string{idPrefix, name, uuid.New().String()}, idSeparator)
}
