package task

import (
	"bytes"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/taskdef/config"
	"github.com/zero-day-ai/taskdef/datasource"
)

func inMemory(name string) datasource.DataSource {
	return datasource.NewInMemory(name, config.ScopePipeline, "", nil)
}

func TestNewGeneratesID(t *testing.T) {
	task := New("My Task", nil, "fn", nil)

	pattern := regexp.MustCompile(`^TASK_My Task_[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	assert.Regexp(t, pattern, string(task.ID()))
	assert.Equal(t, "my_task", task.ConfigName())
	assert.Equal(t, "fn", task.Function())
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for range 100 {
		id := New("t", nil, "fn", nil).ID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestWithID(t *testing.T) {
	task := New("name", nil, "fn", nil, WithID("explicit"))
	assert.Equal(t, ID("explicit"), task.ID())
}

func TestNewNilOutputs(t *testing.T) {
	task := New("name", []datasource.DataSource{inMemory("in")}, "fn", nil)

	assert.Equal(t, 1, task.Input().Len())
	assert.Equal(t, 0, task.Output().Len())
	assert.Empty(t, task.Output().Values())
}

func TestGetReference(t *testing.T) {
	in1 := inMemory("input_1")
	in2 := inMemory("input_2")
	out := inMemory("output")
	task := New("name", []datasource.DataSource{in1, in2}, "fn", []datasource.DataSource{out})

	tests := []struct {
		name   string
		lookup string
		want   datasource.DataSource
	}{
		{name: "exact input", lookup: "input_1", want: in1},
		{name: "normalized input", lookup: "  Input 2 ", want: in2},
		{name: "output", lookup: "OUTPUT", want: out},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := task.GetReference(tt.lookup)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestGetReferenceInputWinsOverOutput(t *testing.T) {
	in := inMemory("shared")
	out := inMemory("shared")
	task := New("name", []datasource.DataSource{in}, "fn", []datasource.DataSource{out})

	got, err := task.GetReference("shared")
	require.NoError(t, err)
	assert.Same(t, in, got)
}

func TestGetReferenceNotFound(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	task := New("name", []datasource.DataSource{inMemory("input_1")}, "fn", nil,
		WithID("task-1"), WithLogger(logger))

	got, err := task.GetReference("missing")

	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceNotFound))

	var refErr *ReferenceNotFoundError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, ID("task-1"), refErr.TaskID)
	assert.Equal(t, "missing", refErr.Name)
	assert.Equal(t, "missing is not a data source of task task-1", err.Error())

	logged := buf.String()
	assert.Contains(t, logged, "level=ERROR")
	assert.Contains(t, logged, "task_id=task-1")
	assert.Contains(t, logged, "name=missing")
}

func TestGetReferenceRawConfigName(t *testing.T) {
	raw := datasource.NewInMemory("Raw Data", config.ScopePipeline, "", nil)
	task := New("name", []datasource.DataSource{raw}, "fn", nil)

	assert.Equal(t, []string{"raw_data"}, task.Input().Names())
	for _, lookup := range []string{"Raw Data", "raw_data", "RAW DATA"} {
		got, err := task.GetReference(lookup)
		require.NoError(t, err, lookup)
		assert.Same(t, raw, got)
	}
}

// rawName reports a config name that was never normalized.
type rawName struct {
	*datasource.InMemory
	name string
}

func (r rawName) ConfigName() string { return r.name }

func TestGetReferenceUnnormalizedDataSource(t *testing.T) {
	ds := rawName{InMemory: datasource.NewInMemory("x", config.ScopePipeline, "", nil), name: "Mixed Name"}
	task := New("name", nil, "fn", []datasource.DataSource{ds})

	assert.Equal(t, []string{"mixed_name"}, task.Output().Names())
	got, err := task.GetReference("mixed name")
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestDuplicateNamesKeepFirstPositionLastValue(t *testing.T) {
	first := inMemory("dup")
	other := inMemory("other")
	last := inMemory("dup")
	task := New("name", []datasource.DataSource{first, other, last}, "fn", nil)

	assert.Equal(t, []string{"dup", "other"}, task.Input().Names())
	got, err := task.GetReference("dup")
	require.NoError(t, err)
	assert.Same(t, last, got)
}

func TestDataSources(t *testing.T) {
	a, b, c := inMemory("a"), inMemory("b"), inMemory("c")
	task := New("name", []datasource.DataSource{a, b}, "fn", []datasource.DataSource{c})

	assert.Equal(t, []datasource.DataSource{a, b, c}, task.DataSources())
}

func TestToModel(t *testing.T) {
	a, b, c := inMemory("a"), inMemory("b"), inMemory("c")
	task := New("Name", []datasource.DataSource{a, b}, "fn", []datasource.DataSource{c}, WithID("id-1"))

	assert.Equal(t, Model{
		ID:         "id-1",
		ConfigName: "name",
		InputIDs:   []string{a.ID(), b.ID()},
		OutputIDs:  []string{c.ID()},
		Function:   "fn",
	}, ToModel(task))
}
