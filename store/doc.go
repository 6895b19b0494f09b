// Package store provides keyed persistence for taskdef entities.
//
// Every backend implements Repository, a small upsert-oriented contract:
//
//	repo := store.NewMemory[task.Model]("task", store.JSONCodec[task.Model]{})
//
//	// Save inserts or replaces the value stored under id
//	err := repo.Save(ctx, "TASK_foo_1234", model)
//
//	// Load returns a *NotFoundError when the id is absent
//	m, err := repo.Load(ctx, "TASK_foo_1234")
//	if errors.Is(err, store.ErrNotFound) {
//	    // handle missing entity
//	}
//
// # Backends
//
//   - Memory: in-process map guarded by a mutex (default)
//   - Redis: one hash per entity kind, see NewRedis
//   - Etcd: one key per entity under a namespace prefix, see NewEtcd
//   - SQL: one MySQL table per entity kind, see NewSQL
//
// # Snapshots
//
// Values are encoded with a Codec on Save and decoded on every read, so a
// value returned by Load or LoadAll never aliases stored state. Mutating the
// repository afterwards does not change results that were already returned.
package store
