package task

import (
	"iter"

	"github.com/zero-day-ai/taskdef/datasource"
	"github.com/zero-day-ai/taskdef/naming"
)

// References is a read-only mapping from normalized data-source config name
// to data source that iterates in declaration order. The zero value and nil are
// empty.
type References struct {
	names  []string
	byName map[string]datasource.DataSource
}

// newReferences indexes list by normalized config name. A name that appears twice
// keeps its first position and takes the last value.
func newReferences(list []datasource.DataSource) *References {
	r := &References{byName: make(map[string]datasource.DataSource, len(list))}
	for _, ds := range list {
		name := naming.Normalize(ds.ConfigName())
		if _, exists := r.byName[name]; !exists {
			r.names = append(r.names, name)
		}
		r.byName[name] = ds
	}
	return r
}

// Len returns the number of distinct names.
func (r *References) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Get returns the data source stored under the exact name.
func (r *References) Get(name string) (datasource.DataSource, bool) {
	if r == nil {
		return nil, false
	}
	ds, ok := r.byName[name]
	return ds, ok
}

// Names returns the normalized config names in declaration order.
func (r *References) Names() []string {
	if r == nil {
		return []string{}
	}
	return append([]string{}, r.names...)
}

// Values returns the data sources in declaration order.
func (r *References) Values() []datasource.DataSource {
	out := make([]datasource.DataSource, 0, r.Len())
	for _, ds := range r.All() {
		out = append(out, ds)
	}
	return out
}

// IDs returns the data-source ids in declaration order.
func (r *References) IDs() []string {
	out := make([]string, 0, r.Len())
	for _, ds := range r.All() {
		out = append(out, ds.ID())
	}
	return out
}

// All iterates over name and data source pairs in declaration order.
func (r *References) All() iter.Seq2[string, datasource.DataSource] {
	return func(yield func(string, datasource.DataSource) bool) {
		if r == nil {
			return
		}
		for _, name := range r.names {
			if !yield(name, r.byName[name]) {
				return
			}
		}
	}
}
