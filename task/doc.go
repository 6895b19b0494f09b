// Package task defines tasks and the manager that persists them.
//
// A Task pairs ordered input and output data sources with the name of the
// function that turns one into the other. Tasks are definitions only:
// nothing in this package runs a task's function.
//
// # Creating tasks
//
// Tasks are usually created from a config.TaskConfig through a Manager,
// which builds the data sources, persists everything and returns the task:
//
//	tasks, _ := task.NewManager(repo, dataSources)
//	t, err := tasks.Create(ctx, taskCfg, nil)
//
// Data sources that already exist can be supplied per config entry; any
// entry missing from the map is built by the data-source factory:
//
//	t, err := tasks.Create(ctx, taskCfg, map[*config.DataSourceConfig]datasource.DataSource{
//	    inputCfg: existingInput,
//	})
//
// # Looking up references
//
// Inputs and outputs keep their declaration order and are indexed by the
// config name of each data source. GetReference normalizes the requested
// name before looking in the inputs, then the outputs:
//
//	ds, err := t.GetReference("Input 1") // finds "input_1"
//	if errors.Is(err, task.ErrReferenceNotFound) {
//	    // neither an input nor an output of t
//	}
//
// # Storage
//
// Manager.Set is an upsert keyed by task id. Get reports a missing id with
// a *store.NotFoundError whose Entity is EntityName.
package task
