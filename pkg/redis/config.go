package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`  // ConnectionURL in the form "redis://:password@host:6379/0".
	RetryAttempts  uint64        `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`              // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`             // RetryInterval is the first backoff delay; later delays double.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`           // ConnectTimeout bounds all connection attempts together.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"identity:metadata:"` // KeyPrefix namespaces identity metadata keys.
}
