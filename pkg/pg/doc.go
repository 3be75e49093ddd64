// Package pg connects to PostgreSQL with pgx/v5 and applies the service's
// goose migrations.
//
// Connect opens a *pgxpool.Pool and retries with exponential backoff until
// the database answers. Migrate runs the embedded migrations through goose
// over the same pool. Healthcheck returns a check for readiness endpoints.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// The pool satisfies the narrow database interfaces used by
// usersync.PostgresRepository and audit.PostgresWriter.
package pg
