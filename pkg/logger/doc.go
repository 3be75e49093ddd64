// Package logger builds *slog.Logger values for payrollguard services and
// provides attribute helpers that keep key names consistent across packages.
//
// New creates a logger from functional options. WithEnvironment selects the
// per-environment format and level; WithContextExtractors registers callbacks
// that copy request-scoped values (request id, client IP) from the context
// into every record:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Parse(cfg.AppEnv), "accessd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "role assigned",
//	    logger.UserID(userID),
//	    logger.Role(role),
//	    logger.Component("usersync"),
//	)
//
// Error, UserID, Role and the other helpers return an empty slog.Attr for nil
// or empty input, which slog drops, so call sites need no nil checks.
package logger
