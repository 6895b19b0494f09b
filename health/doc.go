// Package health reports the state of the storage backends behind a
// taskdef framework.
//
// A Check probes one dependency and returns a Status. Combine folds several
// statuses into one: any unhealthy check makes the result unhealthy, any
// degraded check makes it degraded.
//
//	status := health.Combine(
//	    health.Ping(ctx, "redis", func(ctx context.Context) error {
//	        return client.Ping(ctx).Err()
//	    }),
//	    health.Ping(ctx, "mysql", db.PingContext),
//	)
//	if status.IsUnhealthy() {
//	    log.Println(status.Message)
//	}
package health
