package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/requestid"
)

type captureSink struct {
	mu      sync.Mutex
	records []audit.Record
	err     error
}

func (s *captureSink) Enqueue(rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *captureSink) all() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Record(nil), s.records...)
}

var fixedNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func newTestLogger(sink audit.Enqueuer, opts ...audit.Option) *audit.Logger {
	opts = append([]audit.Option{
		audit.WithClock(func() time.Time { return fixedNow }),
		audit.WithIDGenerator(func() string { return "00000000-0000-0000-0000-000000000001" }),
	}, opts...)
	return audit.NewLogger(sink, opts...)
}

func TestLogger_LogAccessDenied(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := newTestLogger(sink)

	l.LogAccessDenied(context.Background(), audit.Actor{UserID: "user_42", Role: rbac.Viewer}, rbac.Manager, "payrolls", "approve")

	recs := sink.all()
	require.Len(t, recs, 1)
	assert.Equal(t, audit.Record{
		ID:           "00000000-0000-0000-0000-000000000001",
		Kind:         audit.KindAccessDenied,
		UserID:       "user_42",
		UserRole:     "viewer",
		RequiredRole: "manager",
		Resource:     "payrolls",
		Action:       "approve",
		Timestamp:    fixedNow,
	}, recs[0])
}

func TestLogger_LogPermissionDenied(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := newTestLogger(sink)

	l.LogPermissionDenied(context.Background(), audit.Actor{UserID: "user_7", Role: rbac.OrgAdmin},
		permission.MustParseKey("payrolls:approve"), "payrolls", "approve")

	recs := sink.all()
	require.Len(t, recs, 1)
	assert.Equal(t, audit.KindAccessDenied, recs[0].Kind)
	assert.Equal(t, "payrolls:approve", recs[0].RequiredPermission)
	assert.Equal(t, "org_admin", recs[0].UserRole)
	assert.Empty(t, recs[0].RequiredRole)
}

func TestLogger_AnonymousDefaults(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := newTestLogger(sink)

	l.LogAccessDenied(context.Background(), audit.Actor{}, rbac.Viewer, "", "")

	recs := sink.all()
	require.Len(t, recs, 1)
	assert.Equal(t, audit.AnonymousUser, recs[0].UserID)
	assert.Equal(t, audit.NoRole, recs[0].UserRole)
}

func TestLogger_LogAuthFailure(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := newTestLogger(sink)

	l.LogAuthFailure(context.Background(), audit.RequestContext{
		Method:    http.MethodPost,
		Path:      "/api/payrolls",
		IP:        "203.0.113.9",
		UserAgent: "curl/8.0",
		RequestID: "req-1",
	}, "missing session")

	recs := sink.all()
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, audit.KindAuthFailure, rec.Kind)
	assert.Equal(t, audit.AnonymousUser, rec.UserID)
	assert.Equal(t, audit.NoRole, rec.UserRole)
	assert.Equal(t, "missing session", rec.Reason)
	assert.Equal(t, "/api/payrolls", rec.Resource)
	assert.Equal(t, http.MethodPost, rec.Action)
	assert.Equal(t, "203.0.113.9", rec.IP)
	assert.Equal(t, "curl/8.0", rec.UserAgent)
	assert.Equal(t, "req-1", rec.RequestID)
}

func TestLogger_LogAccessRequiresOptIn(t *testing.T) {
	t.Parallel()

	actor := audit.Actor{UserID: "user_1", Role: rbac.Manager}

	sink := &captureSink{}
	l := newTestLogger(sink)
	assert.False(t, l.AccessLogging())
	l.LogAccess(context.Background(), actor, "reports", "read")
	assert.Empty(t, sink.all())

	sink = &captureSink{}
	l = newTestLogger(sink, audit.WithAccessLogging())
	assert.True(t, l.AccessLogging())
	l.LogAccess(context.Background(), actor, "reports", "read")
	recs := sink.all()
	require.Len(t, recs, 1)
	assert.Equal(t, audit.KindAccessGranted, recs[0].Kind)
	assert.Equal(t, "reports", recs[0].Resource)
}

func TestLogger_RequestMetadataFromMiddleware(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	l := newTestLogger(sink)

	handler := audit.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.LogAccessDenied(r.Context(), audit.Actor{UserID: "user_3", Role: rbac.Consultant}, rbac.Manager, "clients", "delete")
		w.WriteHeader(http.StatusForbidden)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/9", nil)
	req.RemoteAddr = "198.51.100.4:5123"
	req.Header.Set("User-Agent", "payroll-web/1.0")
	req = req.WithContext(requestid.WithContext(req.Context(), "req-77"))

	handler.ServeHTTP(httptest.NewRecorder(), req)

	recs := sink.all()
	require.Len(t, recs, 1)
	assert.Equal(t, "198.51.100.4", recs[0].IP)
	assert.Equal(t, "payroll-web/1.0", recs[0].UserAgent)
	assert.Equal(t, "req-77", recs[0].RequestID)
}

func TestLogger_FallsBackWhenQueueRejects(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	sink := &captureSink{err: audit.ErrBufferFull}
	l := newTestLogger(sink, audit.WithFallback(fallback))

	assert.NotPanics(t, func() {
		l.LogAccessDenied(context.Background(), audit.Actor{UserID: "user_9", Role: rbac.Viewer}, rbac.Manager, "payrolls", "write")
	})

	out := buf.String()
	assert.Contains(t, out, "audit record not queued")
	assert.Contains(t, out, audit.ErrBufferFull.Error())
	assert.Contains(t, out, `"user_id":"user_9"`)
	assert.Contains(t, out, `"required_role":"manager"`)
}

func TestLogger_NilSinkLogsLocally(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newTestLogger(nil, audit.WithFallback(slog.New(slog.NewJSONHandler(&buf, nil))))

	l.LogAuthFailure(context.Background(), audit.RequestContext{}, "malformed claims")
	assert.Contains(t, buf.String(), "malformed claims")
}

func TestLogger_NilIsNoop(t *testing.T) {
	t.Parallel()

	var l *audit.Logger
	assert.NotPanics(t, func() {
		l.LogAccessDenied(context.Background(), audit.Actor{}, rbac.Manager, "", "")
		l.LogPermissionDenied(context.Background(), audit.Actor{}, permission.MustParseKey("staff:read"), "", "")
		l.LogAuthFailure(context.Background(), audit.RequestContext{}, "")
		l.LogAccess(context.Background(), audit.Actor{}, "", "")
	})
	assert.False(t, l.AccessLogging())
}

func TestRecord_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(audit.Record{
		ID:           "id-1",
		Kind:         audit.KindAccessDenied,
		UserID:       "user_1",
		UserRole:     "viewer",
		RequiredRole: "manager",
		Timestamp:    fixedNow,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{
		"id":           "id-1",
		"kind":         "access_denied",
		"userId":       "user_1",
		"userRole":     "viewer",
		"requiredRole": "manager",
		"timestamp":    "2026-03-02T10:30:00Z",
	}, got)
}
