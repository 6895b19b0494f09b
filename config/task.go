package config

import "github.com/zero-day-ai/taskdef/naming"

// TaskConfig describes a task: its ordered inputs and outputs and the name
// of the function it runs.
type TaskConfig struct {
	// Name is the normalized config name of the task.
	Name string

	// Inputs lists the input data sources in declaration order.
	Inputs []*DataSourceConfig

	// Function is the name of a function registered in a function.Registry.
	Function string

	// Outputs lists the output data sources in declaration order.
	Outputs []*DataSourceConfig
}

// NewTaskConfig creates a task config. Nil inputs are kept as an empty list.
func NewTaskConfig(name string, inputs []*DataSourceConfig, function string, outputs ...*DataSourceConfig) *TaskConfig {
	return &TaskConfig{
		Name:     naming.Normalize(name),
		Inputs:   append([]*DataSourceConfig{}, inputs...),
		Function: function,
		Outputs:  append([]*DataSourceConfig{}, outputs...),
	}
}

// DataSources returns inputs followed by outputs.
func (c *TaskConfig) DataSources() []*DataSourceConfig {
	out := make([]*DataSourceConfig, 0, len(c.Inputs)+len(c.Outputs))
	out = append(out, c.Inputs...)
	return append(out, c.Outputs...)
}
