package opensearch

import "errors"

var (
	ErrNoAddresses       = errors.New("opensearch: no cluster addresses configured")
	ErrConnectionFailed  = errors.New("opensearch: failed to create client")
	ErrHealthcheckFailed = errors.New("opensearch: healthcheck failed")
)
