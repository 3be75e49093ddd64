package opensearch

import (
	"context"
	"errors"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
)

// retryStatuses are retried by the client in addition to network errors.
var retryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// New builds a client for the audit cluster and pings it once.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ErrNoAddresses
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:           cfg.Addresses,
		Username:            cfg.Username,
		Password:            cfg.Password,
		MaxRetries:          cfg.MaxRetries,
		DisableRetry:        cfg.DisableRetry,
		RetryOnStatus:       retryStatuses,
		CompressRequestBody: cfg.Compress,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
