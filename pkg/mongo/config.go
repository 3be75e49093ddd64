package mongo

import "time"

type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL"`                                            // ConnectionURL is the MongoDB connection string.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"payrollguard"`             // Database holds the audit collection.
	AuditCollection string        `env:"MONGODB_AUDIT_COLLECTION" envDefault:"access_audit_log"` // AuditCollection receives audit records.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`               // ConnectTimeout bounds each connection attempt.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"50"`                  // MaxPoolSize is the maximum number of pooled connections.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`                   // MinPoolSize is the minimum number of pooled connections.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`           // MaxConnIdleTime is how long an idle connection is kept.
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`                 // RetryWrites lets the driver retry writes once.
	RetryAttempts   uint64        `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`                  // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`                 // RetryInterval is the first backoff delay; later delays double.
}
