/*
Package observability turns lifecycle events into logs and Prometheus metrics.

	metrics := observability.NewMetrics()
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	compiler := flowc.New(flowc.WithLifecycleHooks(hooks))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
