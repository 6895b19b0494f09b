package store

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by repositories.
var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("store: entity not found")

	// ErrInvalidKey is returned when an id is empty.
	ErrInvalidKey = errors.New("store: invalid key")
)

// NotFoundError reports that no entity of kind Entity is stored under ID.
type NotFoundError struct {
	// Entity is the entity kind, e.g. "task" or "data_source".
	Entity string

	// ID is the id that was looked up.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Entity, e.ID)
}

// Is reports whether target is ErrNotFound or an equal *NotFoundError.
// A *NotFoundError target with empty fields acts as a wildcard.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return (t.Entity == "" || t.Entity == e.Entity) && (t.ID == "" || t.ID == e.ID)
}

// Repository stores values of type M keyed by string ids.
//
// Implementations must be safe for concurrent use.
type Repository[M any] interface {
	// Save stores m under id, replacing any value already stored there.
	// Returns ErrInvalidKey if id is empty.
	Save(ctx context.Context, id string, m M) error

	// Load returns the value stored under id.
	// Returns a *NotFoundError if the id does not exist.
	Load(ctx context.Context, id string) (M, error)

	// LoadAll returns every stored value ordered by id.
	// The returned slice is empty, not nil, for an empty repository.
	LoadAll(ctx context.Context) ([]M, error)

	// Delete removes the value stored under id.
	// Returns a *NotFoundError if the id does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every stored value.
	DeleteAll(ctx context.Context) error
}
