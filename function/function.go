// Package function names the executable units referenced by tasks.
//
// A task stores only the name of its function so that task definitions can
// be persisted and compared. The callable itself lives in a Registry:
//
//	function.Register("double", func(ctx context.Context, in ...any) ([]any, error) {
//	    return []any{in[0].(int) * 2}, nil
//	})
//
//	fn, ok := function.Lookup("double")
//
// taskdef never invokes registered functions; executors built on top of it
// do.
package function

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Func is the signature of a task function: it receives the values read
// from the task inputs, in declaration order, and returns one value per
// output.
type Func func(ctx context.Context, inputs ...any) ([]any, error)

// Registry maps function names to callables. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// defaultRegistry backs the package-level Register and Lookup functions.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds fn under name, replacing any function already registered
// with that name. It panics on an empty name or nil fn.
func (r *Registry) Register(name string, fn Func) {
	if name == "" {
		panic("function: empty name")
	}
	if fn == nil {
		panic(fmt.Sprintf("function: nil func for %q", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds fn to the default registry.
func Register(name string, fn Func) {
	defaultRegistry.Register(name, fn)
}

// Lookup finds a function in the default registry.
func Lookup(name string) (Func, bool) {
	return defaultRegistry.Lookup(name)
}
