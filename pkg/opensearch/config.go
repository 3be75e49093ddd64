package opensearch

type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES" envSeparator:","`                // Addresses of the cluster nodes.
	Username     string   `env:"OPENSEARCH_USERNAME"`                                  // Username for basic auth.
	Password     string   `env:"OPENSEARCH_PASSWORD"`                                  // Password for basic auth.
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`                // MaxRetries per request inside the client.
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`          // DisableRetry turns client retries off.
	Compress     bool     `env:"OPENSEARCH_COMPRESS" envDefault:"true"`                // Compress gzips bulk request bodies.
	AuditIndex   string   `env:"OPENSEARCH_AUDIT_INDEX" envDefault:"access-audit-log"` // AuditIndex receives audit records.
}
