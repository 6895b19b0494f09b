// Package datasource provides the data sources that tasks read from and
// write to.
//
// A data source is built from a config.DataSourceConfig by a Factory. The
// storage type of the config selects the implementation; "in_memory" is
// built in and other types can be added with RegisterStorageType.
//
//	ds, err := datasource.DefaultFactory{}.Create(ctx, cfg)
//
// Data sources are persisted as Models through a Manager, which offers the
// same create/get/set/delete-all contract as task.Manager:
//
//	m := datasource.NewManager(store.NewMemory[datasource.Model](datasource.EntityName, nil))
//	ds, err := m.Create(ctx, cfg)
//	same, err := m.Get(ctx, ds.ID())
package datasource
