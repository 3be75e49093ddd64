package audit_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
)

type fakeTransport struct {
	status int
	body   string
	req    *http.Request
	sent   []byte
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	f.req = req
	if req.Body != nil {
		f.sent, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestOpenSearchWriter_StoreBatch(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{status: http.StatusOK, body: `{"errors":false,"items":[]}`}
	w := audit.NewOpenSearchWriter(tr, "")

	rec := testRecord(1)
	rec.Resource = "payrolls"
	require.NoError(t, w.StoreBatch(context.Background(), []audit.Record{rec, testRecord(2)}))

	require.NotNil(t, tr.req)
	assert.Equal(t, http.MethodPost, tr.req.Method)
	assert.Equal(t, "/"+audit.DefaultOpenSearchIndex+"/_bulk", tr.req.URL.Path)

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(tr.sent))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, rec.ID, action["create"]["_id"])
	assert.Equal(t, audit.DefaultOpenSearchIndex, action["create"]["_index"])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "payrolls", doc["resource"])
	assert.Equal(t, "user_1", doc["userId"])
}

func TestOpenSearchWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"http error", http.StatusServiceUnavailable, `{"error":"unavailable"}`, true},
		{"garbled body", http.StatusOK, `not json`, true},
		{"item rejected", http.StatusOK, `{"errors":true,"items":[{"create":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad"}}}]}`, true},
		{"duplicate create is fine", http.StatusOK, `{"errors":true,"items":[{"create":{"status":409,"error":{"type":"version_conflict_engine_exception","reason":"exists"}}}]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := audit.NewOpenSearchWriter(&fakeTransport{status: tt.status, body: tt.body}, "audit-test")
			err := w.StoreBatch(context.Background(), []audit.Record{testRecord(1)})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
