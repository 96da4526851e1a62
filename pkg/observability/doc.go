/*
Package observability binds the bot's lifecycle hooks to Prometheus metrics and structured logs.

	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	bot := minibot.New(minibot.WithLifecycleHooks(hooks))
*/
package observability
