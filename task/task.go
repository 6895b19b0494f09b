package task

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/naming"
)

const (
	idPrefix    = "TASK"
	idSeparator = "_"
)

// ErrReferenceNotFound is matched by every *ReferenceNotFoundError.
var ErrReferenceNotFound = errors.New("task: reference not found")

// ID uniquely identifies a task.
type ID string

// NewID generates a task id of the form TASK_<name>_<uuid>.
func NewID(name string) ID {
	return ID(strings.Join([]string{idPrefix, name, uuid.New().String()}, idSeparator))
}

// ReferenceNotFoundError reports a name that is neither an input nor an
// output of a task.
type ReferenceNotFoundError struct {
	TaskID ID
	Name   string
}

// Error implements the error interface.
func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s is not a data source of task %s", e.Name, e.TaskID)
}

// Is reports whether target is ErrReferenceNotFound.
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// Task is an immutable task definition.
type Task struct {
	id         ID
	configName string
	input      *References
	output     *References
	function   string
	logger     *slog.Logger
}

// Option configures a Task at construction.
type Option func(*Task)

// WithID sets the task id instead of generating one.
func WithID(id ID) Option {
	return func(t *Task) {
		t.id = id
	}
}

// WithLogger sets the logger used to report failed lookups.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Task) {
		t.logger = logger
	}
}

// New creates a task. The config name is the normalized name; when no id is
// given one is generated from the raw name. A nil outputs list yields no
// outputs.
func New(name string, inputs []datasource.DataSource, function string, outputs []datasource.DataSource, opts ...Option) *Task {
	t := &Task{
		configName: naming.Normalize(name),
		input:      newReferences(inputs),
		output:     newReferences(outputs),
		function:   function,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.id == "" {
		t.id = NewID(name)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// ID returns the task id.
func (t *Task) ID() ID { return t.id }

// ConfigName returns the normalized config name.
func (t *Task) ConfigName() string { return t.configName }

// Input returns the inputs in declaration order.
func (t *Task) Input() *References { return t.input }

// Output returns the outputs in declaration order.
func (t *Task) Output() *References { return t.output }

// Function returns the name of the task's function.
func (t *Task) Function() string { return t.function }

// GetReference returns the input or output whose config name matches name
// after normalization. Inputs are searched first. A miss is logged and
// reported as a *ReferenceNotFoundError.
func (t *Task) GetReference(name string) (datasource.DataSource, error) {
	key := naming.Normalize(name)
	if ds, ok := t.input.Get(key); ok {
		return ds, nil
	}
	if ds, ok := t.output.Get(key); ok {
		return ds, nil
	}
	t.logger.Error("data source lookup failed",
		"task_id", string(t.id),
		"name", name,
		"error", fmt.Sprintf("%s is not a data source of task %s", name, t.id))
	return nil, &ReferenceNotFoundError{TaskID: t.id, Name: name}
}

// DataSources returns the inputs followed by the outputs.
func (t *Task) DataSources() []datasource.DataSource {
	out := make([]datasource.DataSource, 0, t.input.Len()+t.output.Len())
	out = append(out, t.input.Values()...)
	return append(out, t.output.Values()...)
}
