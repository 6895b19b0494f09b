package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the file Load looks for when given a directory.
const DefaultFileName = "taskdef.yaml"

// file is the on-disk shape of a configuration.
type file struct {
	Storage     StorageConfig    `yaml:"storage,omitempty"`
	DataSources []dataSourceFile `yaml:"data_sources,omitempty"`
	Tasks       []taskFile       `yaml:"tasks,omitempty"`
}

type dataSourceFile struct {
	Name        string         `yaml:"name"`
	StorageType string         `yaml:"storage_type,omitempty"`
	Scope       string         `yaml:"scope,omitempty"`
	Properties  map[string]any `yaml:"properties,omitempty"`
}

type taskFile struct {
	Name     string   `yaml:"name"`
	Inputs   []string `yaml:"inputs,omitempty"`
	Function string   `yaml:"function"`
	Outputs  []string `yaml:"outputs,omitempty"`
}

// Load reads and parses a configuration file from the given path.
// If the path is a directory, it looks for taskdef.yaml or taskdef.yml in
// that directory. Environment overrides are applied to the storage section.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{DefaultFileName, "taskdef.yml"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no taskdef.yaml or taskdef.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	cfg.Storage.ApplyEnv()

	return cfg, nil
}

// Parse builds a Config from YAML. Task inputs and outputs must name data
// sources declared in the same document.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	cfg := New()
	cfg.Storage = f.Storage

	for _, ds := range f.DataSources {
		if ds.Name == "" {
			return nil, fmt.Errorf("%w: data source with empty name", ErrInvalidConfig)
		}
		scope, err := ParseScope(ds.Scope)
		if err != nil {
			return nil, fmt.Errorf("data source %q: %w", ds.Name, err)
		}
		opts := []DataSourceOption{WithScope(scope)}
		for k, v := range ds.Properties {
			opts = append(opts, WithProperty(k, v))
		}
		cfg.DataSources.Create(ds.Name, ds.StorageType, opts...)
	}

	for _, t := range f.Tasks {
		inputs, err := resolve(cfg.DataSources, t.Name, t.Inputs)
		if err != nil {
			return nil, err
		}
		outputs, err := resolve(cfg.DataSources, t.Name, t.Outputs)
		if err != nil {
			return nil, err
		}
		cfg.Tasks.Create(t.Name, inputs, t.Function, outputs...)
	}

	if err := cfg.Validate(nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolve(reg *DataSourceRegistry, task string, names []string) ([]*DataSourceConfig, error) {
	out := make([]*DataSourceConfig, 0, len(names))
	for _, name := range names {
		ds, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: task %q references unknown data source %q", ErrInvalidConfig, task, name)
		}
		out = append(out, ds)
	}
	return out, nil
}
