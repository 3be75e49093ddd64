package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/config"
	"github.com/dmitrymomot/payrollguard/pkg/httpserver"
	"github.com/dmitrymomot/payrollguard/pkg/mongo"
	"github.com/dmitrymomot/payrollguard/pkg/opensearch"
	"github.com/dmitrymomot/payrollguard/pkg/pg"
	"github.com/dmitrymomot/payrollguard/pkg/redis"
)

const (
	backendMemory     = "memory"
	backendClerk      = "clerk"
	backendRedis      = "redis"
	backendPostgres   = "postgres"
	backendMongo      = "mongo"
	backendOpenSearch = "opensearch"
)

var errInvalidConfig = errors.New("accessd: invalid configuration")

type appConfig struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"accessd"`

	JWTSecret       string        `env:"SESSION_JWT_SECRET"`
	JWTPublicKey    string        `env:"SESSION_JWT_PUBLIC_KEY"`
	JWTIssuer       string        `env:"SESSION_JWT_ISSUER"`
	JWTLeeway       time.Duration `env:"SESSION_JWT_LEEWAY" envDefault:"30s"`
	SessionCookie   string        `env:"SESSION_COOKIE" envDefault:"__session"`
	ClaimsNamespace string        `env:"CLAIMS_NAMESPACE"`
	AccessCacheSize int           `env:"ACCESS_CACHE_SIZE" envDefault:"1024"`

	IdentityBackend    string        `env:"IDENTITY_BACKEND" envDefault:"memory"`
	ClerkSecretKey     string        `env:"CLERK_SECRET_KEY"`
	ClerkAPIURL        string        `env:"CLERK_API_URL"` // empty uses the SDK default
	SyncMaxRetries     uint64        `env:"SYNC_MAX_RETRIES" envDefault:"3"`
	SyncAttemptTimeout time.Duration `env:"SYNC_ATTEMPT_TIMEOUT" envDefault:"5s"`

	AuditBackends   []string `env:"AUDIT_BACKEND" envSeparator:"," envDefault:"memory"` // every listed backend receives each batch
	AuditBufferSize int      `env:"AUDIT_BUFFER_SIZE" envDefault:"1000"`
	AuditLogAccess  bool     `env:"AUDIT_LOG_ACCESS" envDefault:"false"`

	ClientIPHeaders []string      `env:"CLIENT_IP_HEADERS" envSeparator:","`
	HealthTimeout   time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"3s"`

	HTTP       httpserver.Config
	Postgres   pg.Config
	Redis      redis.Config
	Mongo      mongo.Config
	OpenSearch opensearch.Config
}

func loadConfig(opts ...config.Option) (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg, opts...); err != nil {
		return cfg, err
	}
	cfg.AuditBackends = normalizeList(cfg.AuditBackends)
	return cfg, cfg.validate()
}

// normalizeList lowercases and trims names, dropping blanks and repeats.
func normalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func (c appConfig) auditBackend(name string) bool {
	return slices.Contains(c.AuditBackends, name)
}

func (c appConfig) validate() error {
	var errs []error
	if c.JWTSecret == "" && c.JWTPublicKey == "" {
		errs = append(errs, errors.New("one of SESSION_JWT_SECRET or SESSION_JWT_PUBLIC_KEY is required"))
	}

	switch c.IdentityBackend {
	case backendMemory, backendRedis:
	case backendClerk:
		if c.ClerkSecretKey == "" {
			errs = append(errs, errors.New("CLERK_SECRET_KEY is required for the clerk identity backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_BACKEND %q", c.IdentityBackend))
	}

	if len(c.AuditBackends) == 0 {
		errs = append(errs, errors.New("AUDIT_BACKEND must name at least one backend"))
	}
	for _, name := range c.AuditBackends {
		switch name {
		case backendMemory:
		case backendPostgres:
			if c.Postgres.ConnectionString == "" {
				errs = append(errs, errors.New("PG_CONN_URL is required for the postgres audit backend"))
			}
		case backendMongo:
			if c.Mongo.ConnectionURL == "" {
				errs = append(errs, errors.New("MONGODB_URL is required for the mongo audit backend"))
			}
		case backendOpenSearch:
			if len(c.OpenSearch.Addresses) == 0 {
				errs = append(errs, errors.New("OPENSEARCH_ADDRESSES is required for the opensearch audit backend"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown AUDIT_BACKEND %q", name))
		}
	}

	if c.AuditBufferSize <= 0 {
		errs = append(errs, errors.New("AUDIT_BUFFER_SIZE must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{errInvalidConfig}, errs...)...)
	}
	return nil
}
