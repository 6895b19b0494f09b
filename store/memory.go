package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Repository.
type Memory[M any] struct {
	entity string
	codec  Codec[M]

	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory creates an empty in-memory repository for the given entity kind.
// A nil codec defaults to JSONCodec.
func NewMemory[M any](entity string, codec Codec[M]) *Memory[M] {
	if codec == nil {
		codec = JSONCodec[M]{}
	}
	return &Memory[M]{
		entity: entity,
		codec:  codec,
		items:  make(map[string][]byte),
	}
}

// Save implements Repository.
func (r *Memory[M]) Save(ctx context.Context, id string, m M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidKey
	}

	data, err := r.codec.Marshal(m)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[id] = data
	return nil
}

// Load implements Repository.
func (r *Memory[M]) Load(ctx context.Context, id string) (M, error) {
	var zero M
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	r.mu.RLock()
	data, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}
	return r.codec.Unmarshal(data)
}

// LoadAll implements Repository.
func (r *Memory[M]) LoadAll(ctx context.Context) ([]M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	encoded := make([][]byte, len(ids))
	for i, id := range ids {
		encoded[i] = r.items[id]
	}
	r.mu.RUnlock()

	out := make([]M, 0, len(encoded))
	for _, data := range encoded {
		m, err := r.codec.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Delete implements Repository.
func (r *Memory[M]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return &NotFoundError{Entity: r.entity, ID: id}
	}
	delete(r.items, id)
	return nil
}

// DeleteAll implements Repository.
func (r *Memory[M]) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string][]byte)
	return nil
}

// Len returns the number of stored values.
func (r *Memory[M]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
