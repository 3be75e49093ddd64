// Package httpserver runs an http.Handler with graceful shutdown and health
// endpoints.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests and runs the shutdown hooks in registration
// order within one deadline. cmd/accessd registers the audit writer's close
// function as a hook so buffered audit records are flushed after the last
// request finished.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithShutdownHook("audit", closeAudit),
//	)
//	return srv.Run(ctx, router)
//
// LivenessHandler and ReadinessHandler serve JSON health responses; readiness
// runs named dependency checks such as pg.Healthcheck.
package httpserver
