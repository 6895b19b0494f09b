// Package taskdef wires task definitions to their storage.
//
// A task pairs ordered input and output data sources with the name of a
// function. Tasks are declared in configuration, created through a
// task.Manager and persisted in a repository chosen by the storage section
// of the configuration. This package is the composition root: it loads the
// configuration, opens the storage backend and builds the managers.
//
// # Getting Started
//
//	fw, err := taskdef.New(taskdef.WithConfigFile("taskdef.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer fw.Close()
//
//	tasks, err := fw.CreateTasks(ctx)
//
// # Configuration
//
// A configuration file declares data sources, tasks and storage:
//
//	data_sources:
//	  - name: raw
//	    storage_type: in_memory
//	  - name: cleaned
//	tasks:
//	  - name: clean
//	    inputs: [raw]
//	    function: normalize
//	    outputs: [cleaned]
//	storage:
//	  type: redis
//	  redis_url: redis://localhost:6379
//
// The storage type is one of memory (default), redis, etcd or mysql, and the
// encoding one of json (default) or proto. TASKDEF_STORAGE_TYPE,
// TASKDEF_REDIS_URL, TASKDEF_ETCD_ENDPOINTS and TASKDEF_MYSQL_DSN override
// the file.
//
// # Subpackages
//
//   - config: declarative data-source, task and storage configs
//   - datasource: data sources and their manager
//   - task: tasks, reference lookup and the task manager
//   - store: keyed repositories over memory, Redis, etcd and MySQL
//   - function: registry of named task functions
//   - naming: name normalization
package taskdef
