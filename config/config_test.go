package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/taskdef/function"
)

func TestDataSourceRegistry(t *testing.T) {
	cfg := New()

	a := cfg.DataSources.Create("Embedded 1", "")
	b := cfg.DataSources.Create("a_embedded_3", StorageInMemory, WithScope(ScopeScenario), WithProperty("default_data", 3))

	assert.Equal(t, "embedded_1", a.Name)
	assert.Equal(t, StorageInMemory, a.StorageType)
	assert.Equal(t, ScopePipeline, a.Scope)
	assert.Equal(t, ScopeScenario, b.Scope)

	v, ok := b.Property("default_data")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	got, ok := cfg.DataSources.Get(" EMBEDDED 1 ")
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.Equal(t, []*DataSourceConfig{a, b}, cfg.DataSources.All())
}

func TestDataSourceRegistryReplace(t *testing.T) {
	cfg := New()
	first := cfg.DataSources.Create("x", StorageInMemory)
	cfg.DataSources.Create("y", StorageInMemory)
	second := cfg.DataSources.Create("x", StorageInMemory, WithScope(ScopeBusinessCycle))

	all := cfg.DataSources.All()
	require.Len(t, all, 2)
	assert.Same(t, second, all[0])
	assert.NotSame(t, first, all[0])
}

func TestCloneProperties(t *testing.T) {
	c := NewDataSourceConfig("x", "", WithProperty("k", "v"))
	clone := c.CloneProperties()
	clone["k"] = "changed"
	assert.Equal(t, "v", c.Properties["k"])

	assert.Nil(t, NewDataSourceConfig("y", "").CloneProperties())
}

func TestTaskRegistry(t *testing.T) {
	cfg := New()
	in := cfg.DataSources.Create("input_1", StorageInMemory)
	out := cfg.DataSources.Create("output", StorageInMemory)

	tc := cfg.Tasks.Create("Foo", []*DataSourceConfig{in}, "print", out)

	assert.Equal(t, "foo", tc.Name)
	assert.Equal(t, []*DataSourceConfig{in}, tc.Inputs)
	assert.Equal(t, []*DataSourceConfig{out}, tc.Outputs)
	assert.Equal(t, []*DataSourceConfig{in, out}, tc.DataSources())

	got, ok := cfg.Tasks.Get("FOO")
	require.True(t, ok)
	assert.Same(t, tc, got)
}

func TestNewTaskConfigWithoutOutputs(t *testing.T) {
	tc := NewTaskConfig("t", nil, "print")
	assert.NotNil(t, tc.Inputs)
	assert.Empty(t, tc.Inputs)
	assert.NotNil(t, tc.Outputs)
	assert.Empty(t, tc.Outputs)
}

func TestNewTaskConfigCopiesInputs(t *testing.T) {
	a := NewDataSourceConfig("a", "")
	b := NewDataSourceConfig("b", "")
	inputs := []*DataSourceConfig{a}

	tc := NewTaskConfig("t", inputs, "print")
	inputs[0] = b

	assert.Same(t, a, tc.Inputs[0])
}

func TestValidate(t *testing.T) {
	functions := function.NewRegistry()
	functions.Register("print", func(context.Context, ...any) ([]any, error) { return nil, nil })

	t.Run("valid", func(t *testing.T) {
		cfg := New()
		in := cfg.DataSources.Create("in", "")
		cfg.Tasks.Create("ok", []*DataSourceConfig{in}, "print")

		assert.NoError(t, cfg.Validate(functions))
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := New()
		cfg.Tasks.Create("no_function", nil, "")
		cfg.Tasks.Create("unknown", nil, "missing")
		cfg.Tasks.Create("nil_input", []*DataSourceConfig{nil}, "print")

		err := cfg.Validate(functions)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Contains(t, err.Error(), `task "no_function" has no function`)
		assert.Contains(t, err.Error(), `unregistered function "missing"`)
		assert.Contains(t, err.Error(), `task "nil_input" has a nil data source`)
	})

	t.Run("nil registry skips function lookup", func(t *testing.T) {
		cfg := New()
		cfg.Tasks.Create("unknown", nil, "missing")
		assert.NoError(t, cfg.Validate(nil))
	})
}
