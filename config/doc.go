// Package config holds the declarative descriptions from which tasks and
// their data sources are built.
//
// Configs can be created programmatically through the registries of a
// Config:
//
//	cfg := config.New()
//	in := cfg.DataSources.Create("input_1", config.StorageInMemory)
//	out := cfg.DataSources.Create("output", config.StorageInMemory, config.WithScope(config.ScopeScenario))
//	cfg.Tasks.Create("foo", []*config.DataSourceConfig{in}, "print", out)
//
// or loaded from a taskdef.yaml file:
//
//	storage:
//	  type: redis
//	  redis_url: redis://localhost:6379
//	data_sources:
//	  - name: input_1
//	    storage_type: in_memory
//	  - name: output
//	    scope: scenario
//	tasks:
//	  - name: foo
//	    inputs: [input_1]
//	    function: print
//	    outputs: [output]
//
// All config names are normalized with naming.Normalize. A task config
// refers to its data-source configs by pointer; pointer identity is what
// task.Manager uses to match pre-built data sources to config entries.
package config
