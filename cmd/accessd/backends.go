package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/payrollguard/internal/db/migrations"
	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/httpserver"
	"github.com/dmitrymomot/payrollguard/pkg/identity"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/mongo"
	"github.com/dmitrymomot/payrollguard/pkg/opensearch"
	"github.com/dmitrymomot/payrollguard/pkg/pg"
	"github.com/dmitrymomot/payrollguard/pkg/redis"
	"github.com/dmitrymomot/payrollguard/pkg/usersync"
)

type closer struct {
	name string
	fn   httpserver.ShutdownHook
}

// backends holds the storage selected by configuration.
type backends struct {
	store       identity.MetadataStore
	repo        usersync.Repository
	auditWriter audit.Writer
	auditReader audit.Reader
	checks      []httpserver.Check
	closers     []closer

	pgAudit *audit.PostgresWriter
}

func (b *backends) onClose(name string, fn func(context.Context) error) {
	b.closers = append(b.closers, closer{name: name, fn: fn})
}

// close releases everything opened so far, newest first.
func (b *backends) close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openBackends(ctx context.Context, cfg appConfig, log *slog.Logger) (_ *backends, err error) {
	b := &backends{}
	defer func() {
		if err != nil {
			_ = b.close(context.WithoutCancel(ctx))
		}
	}()

	if err := b.openPostgres(ctx, cfg, log); err != nil {
		return nil, err
	}
	if err := b.openIdentity(ctx, cfg); err != nil {
		return nil, err
	}
	if err := b.openAudit(ctx, cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// openPostgres connects when PG_CONN_URL is set; the durable access records
// then live in Postgres instead of memory.
func (b *backends) openPostgres(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	if cfg.Postgres.ConnectionString == "" {
		b.repo = usersync.NewMemoryRepository()
		return nil
	}

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	b.onClose("postgres", func(context.Context) error {
		pool.Close()
		return nil
	})
	b.checks = append(b.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})

	if cfg.Postgres.MigrateOnStart {
		if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log.With(logger.Component("migrations"))); err != nil {
			return err
		}
	}

	b.repo = usersync.NewPostgresRepository(pool)
	if cfg.auditBackend(backendPostgres) {
		b.pgAudit = audit.NewPostgresWriter(pool)
	}
	return nil
}

func (b *backends) openIdentity(ctx context.Context, cfg appConfig) error {
	switch cfg.IdentityBackend {
	case backendClerk:
		client, err := identity.NewClerkClient(cfg.ClerkSecretKey,
			identity.WithBaseURL(cfg.ClerkAPIURL),
			identity.WithTimeout(cfg.SyncAttemptTimeout),
		)
		if err != nil {
			return err
		}
		b.store = client
	case backendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		b.onClose("redis", func(context.Context) error { return client.Close() })
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		b.store = identity.NewRedisStore(client, cfg.Redis.KeyPrefix)
	default:
		b.store = identity.NewMemoryStore()
	}
	return nil
}

// openAudit builds one writer per AUDIT_BACKEND entry, in the listed order.
// Several entries fan out through a MultiWriter; the first readable backend
// serves the denial listing.
func (b *backends) openAudit(ctx context.Context, cfg appConfig) error {
	var writers []audit.Writer
	for _, name := range cfg.AuditBackends {
		var w audit.Writer
		switch name {
		case backendPostgres:
			w = b.pgAudit
			b.readFrom(b.pgAudit)
		case backendMongo:
			client, err := mongo.New(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			b.onClose("mongo", client.Disconnect)
			b.checks = append(b.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})
			w = audit.NewMongoWriter(mongo.AuditCollection(client, cfg.Mongo))
		case backendOpenSearch:
			client, err := opensearch.New(ctx, cfg.OpenSearch)
			if err != nil {
				return err
			}
			b.checks = append(b.checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(client)})
			w = audit.NewOpenSearchWriter(client, cfg.OpenSearch.AuditIndex)
		default:
			mem := audit.NewMemoryWriter()
			w = mem
			b.readFrom(mem)
		}
		writers = append(writers, w)
	}

	switch len(writers) {
	case 0:
		mem := audit.NewMemoryWriter()
		b.auditWriter, b.auditReader = mem, mem
	case 1:
		b.auditWriter = writers[0]
	default:
		b.auditWriter = audit.NewMultiWriter(writers...)
	}
	return nil
}

func (b *backends) readFrom(r audit.Reader) {
	if b.auditReader == nil {
		b.auditReader = r
	}
}
