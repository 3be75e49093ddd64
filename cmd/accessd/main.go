// Command accessd serves the payroll access administration API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	accessapi "github.com/dmitrymomot/payrollguard/modules/access"
	"github.com/dmitrymomot/payrollguard/pkg/access"
	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/clientip"
	"github.com/dmitrymomot/payrollguard/pkg/environment"
	"github.com/dmitrymomot/payrollguard/pkg/httpserver"
	"github.com/dmitrymomot/payrollguard/pkg/jwt"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/requestid"
	"github.com/dmitrymomot/payrollguard/pkg/usersync"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(environment.Parse(cfg.AppEnv), cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("accessd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}

	auditWriter, closeAudit := audit.NewAsyncWriter(b.auditWriter, audit.AsyncOptions{
		BufferSize: cfg.AuditBufferSize,
		Fallback:   log.With(logger.Component("audit")),
	})
	auditOpts := []audit.Option{audit.WithFallback(log.With(logger.Component("audit")))}
	if cfg.AuditLogAccess {
		auditOpts = append(auditOpts, audit.WithAccessLogging())
	}
	auditLog := audit.NewLogger(auditWriter, auditOpts...)

	handler, err := newRouter(cfg, b, auditLog, log)
	if err != nil {
		return errors.Join(err, closeAudit(context.WithoutCancel(ctx)), b.close(context.WithoutCancel(ctx)))
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook("audit", closeAudit),
		httpserver.WithShutdownHook("backends", b.close),
	)
	return srv.Run(ctx, handler)
}

func newRouter(cfg appConfig, b *backends, auditLog *audit.Logger, log *slog.Logger) (http.Handler, error) {
	verifier, err := newVerifier(cfg)
	if err != nil {
		return nil, err
	}
	provider, err := access.NewProvider(access.WithCacheSize(cfg.AccessCacheSize))
	if err != nil {
		return nil, err
	}

	syncer := usersync.New(b.store, b.repo,
		usersync.WithLogger(log.With(logger.Component("usersync"))),
		usersync.WithMaxRetries(cfg.SyncMaxRetries),
		usersync.WithAttemptTimeout(cfg.SyncAttemptTimeout),
	)
	api := accessapi.NewService(syncer,
		accessapi.WithAuditReader(b.auditReader),
		accessapi.WithAuditLogger(auditLog),
		accessapi.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.NewMiddleware(clientip.NewResolver(cfg.ClientIPHeaders...)),
	)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.HealthTimeout, b.checks...))

	r.Group(func(r chi.Router) {
		r.Use(
			jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
				Verifier: verifier,
				Extractors: []jwt.TokenExtractorFunc{
					jwt.BearerTokenExtractor,
					jwt.CookieTokenExtractor(cfg.SessionCookie),
				},
				Logger: log,
			}),
			access.Middleware(provider,
				access.WithLogger(log),
				access.WithClaimsNamespace(cfg.ClaimsNamespace),
			),
			audit.Middleware,
		)
		r.Mount("/api", api.Handle())
	})

	return r, nil
}

// newVerifier prefers the provider's RS256 public key; the shared secret is
// for development and tests.
func newVerifier(cfg appConfig) (*jwt.Service, error) {
	var opts []jwt.Option
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	opts = append(opts, jwt.WithLeeway(cfg.JWTLeeway))

	if cfg.JWTPublicKey != "" {
		return jwt.NewRSAVerifier([]byte(cfg.JWTPublicKey), opts...)
	}
	return jwt.NewFromString(cfg.JWTSecret, opts...)
}
