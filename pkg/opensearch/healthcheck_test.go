package opensearch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/payrollguard/pkg/opensearch"
)

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Perform(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int) transportFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, opensearch.Healthcheck(respond(http.StatusOK))(context.Background()))
	assert.ErrorIs(t, opensearch.Healthcheck(respond(http.StatusServiceUnavailable))(context.Background()), opensearch.ErrHealthcheckFailed)

	failing := transportFunc(func(*http.Request) (*http.Response, error) { return nil, errors.New("dial tcp: refused") })
	assert.ErrorIs(t, opensearch.Healthcheck(failing)(context.Background()), opensearch.ErrHealthcheckFailed)
}

func TestNew_RequiresAddresses(t *testing.T) {
	t.Parallel()

	_, err := opensearch.New(context.Background(), opensearch.Config{})
	assert.ErrorIs(t, err, opensearch.ErrNoAddresses)
}
