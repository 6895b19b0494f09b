package config

import (
	"fmt"

	"github.com/zero-day-ai/taskdef/naming"
)

// Scope is the sharing level of a data source.
type Scope int

const (
	// ScopePipeline data sources are private to one pipeline. This is the default.
	ScopePipeline Scope = iota

	// ScopeScenario data sources are shared by the pipelines of a scenario.
	ScopeScenario

	// ScopeBusinessCycle data sources are shared across scenarios of a cycle.
	ScopeBusinessCycle
)

var scopeNames = map[Scope]string{
	ScopePipeline:      "pipeline",
	ScopeScenario:      "scenario",
	ScopeBusinessCycle: "business_cycle",
}

// String returns the lower-case name of the scope.
func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// ParseScope converts a scope name into a Scope. Matching is
// case-insensitive and an empty string yields ScopePipeline.
func ParseScope(s string) (Scope, error) {
	n := naming.Normalize(s)
	if n == "" {
		return ScopePipeline, nil
	}
	for scope, name := range scopeNames {
		if name == n {
			return scope, nil
		}
	}
	return ScopePipeline, fmt.Errorf("%w: unknown scope %q", ErrInvalidConfig, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	if _, ok := scopeNames[s]; !ok {
		return nil, fmt.Errorf("%w: unknown scope %d", ErrInvalidConfig, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	scope, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = scope
	return nil
}
