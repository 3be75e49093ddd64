package routeauth_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payrollguard/pkg/access"
	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/jwt"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/routeauth"
)

type sink struct {
	mu      sync.Mutex
	records []audit.Record
}

func (s *sink) Enqueue(rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *sink) all() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Record(nil), s.records...)
}

func withChecker(req *http.Request, c *access.Checker) *http.Request {
	return req.WithContext(access.WithChecker(req.Context(), c))
}

func session(role rbac.Role, excluded ...string) *access.Checker {
	ps := make([]permission.Pattern, len(excluded))
	for i, e := range excluded {
		ps[i] = permission.MustParsePattern(e)
	}
	return access.NewChecker(claims.SessionClaims{
		UserID:              "user_1",
		Email:               "ada@example.com",
		Role:                role,
		ExcludedPermissions: ps,
	})
}

func okHandler(called *bool) routeauth.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request, _ routeauth.Session) error {
		*called = true
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

func TestWrap_NoSession(t *testing.T) {
	t.Parallel()

	s := &sink{}
	called := false
	h := routeauth.Wrap(okHandler(&called),
		routeauth.RequireRole(rbac.Viewer),
		routeauth.WithAuditLogger(audit.NewLogger(s)),
	)

	for name, c := range map[string]*access.Checker{
		"no checker": nil,
		"anonymous":  access.Anonymous(),
		"no role":    access.NewChecker(claims.SessionClaims{UserID: "user_2"}),
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/payrolls", nil)
		if c != nil {
			req = withChecker(req, c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String(), name)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"), name)
	}
	assert.False(t, called)

	recs := s.all()
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, audit.KindAuthFailure, r.Kind)
		assert.Equal(t, audit.AnonymousUser, r.UserID)
		assert.Equal(t, "/api/payrolls", r.Resource)
	}
}

func TestWrap_InsufficientRole(t *testing.T) {
	t.Parallel()

	s := &sink{}
	called := false
	h := routeauth.Wrap(okHandler(&called),
		routeauth.RequireRole(rbac.Manager),
		routeauth.WithAuditLogger(audit.NewLogger(s)),
		routeauth.WithResource("payroll-runs"),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodPost, "/api/payroll-runs", nil), session(rbac.Viewer)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden","code":"FORBIDDEN"}`, rec.Body.String())
	assert.False(t, called)

	recs := s.all()
	require.Len(t, recs, 1)
	assert.Equal(t, audit.KindAccessDenied, recs[0].Kind)
	assert.Equal(t, "manager", recs[0].RequiredRole)
	assert.Equal(t, "viewer", recs[0].UserRole)
	assert.Equal(t, "user_1", recs[0].UserID)
	assert.Equal(t, "payroll-runs", recs[0].Resource)
	assert.Equal(t, http.MethodPost, recs[0].Action)
}

func TestWrap_Permissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []routeauth.Option
		checker  *access.Checker
		wantCode int
		wantPerm string
	}{
		{
			name:     "granted",
			opts:     []routeauth.Option{routeauth.RequirePermission("payrolls:write")},
			checker:  session(rbac.Manager),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "missing one of all",
			opts:     []routeauth.Option{routeauth.RequirePermission("payrolls:write", "security:manage")},
			checker:  session(rbac.Manager),
			wantCode: http.StatusForbidden,
			wantPerm: "security:manage",
		},
		{
			name:     "excluded",
			opts:     []routeauth.Option{routeauth.RequirePermission("staff:delete")},
			checker:  session(rbac.OrgAdmin, "staff:delete"),
			wantCode: http.StatusForbidden,
			wantPerm: "staff:delete",
		},
		{
			name:     "any granted",
			opts:     []routeauth.Option{routeauth.RequireAnyPermission("security:manage", "payrolls:read")},
			checker:  session(rbac.Viewer),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "any denied",
			opts:     []routeauth.Option{routeauth.RequireAnyPermission("security:manage", "audit:read")},
			checker:  session(rbac.Manager),
			wantCode: http.StatusForbidden,
			wantPerm: "security:manage",
		},
		{
			name:     "role and permission",
			opts:     []routeauth.Option{routeauth.RequireRole(rbac.OrgAdmin), routeauth.RequirePermission("audit:read")},
			checker:  session(rbac.Developer),
			wantCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &sink{}
			called := false
			opts := append([]routeauth.Option{routeauth.WithAuditLogger(audit.NewLogger(s))}, tt.opts...)
			h := routeauth.Wrap(okHandler(&called), opts...)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodGet, "/api/x", nil), tt.checker))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusNoContent, called)
			if tt.wantPerm != "" {
				recs := s.all()
				require.Len(t, recs, 1)
				assert.Equal(t, tt.wantPerm, recs[0].RequiredPermission)
			}
		})
	}
}

func TestWrap_EmptyPermissionListDenies(t *testing.T) {
	t.Parallel()

	for name, opt := range map[string]routeauth.Option{
		"all": routeauth.RequirePermission(),
		"any": routeauth.RequireAnyPermission(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := &sink{}
			called := false
			h := routeauth.Wrap(okHandler(&called), opt,
				routeauth.WithAuditLogger(audit.NewLogger(s)),
				routeauth.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
				routeauth.WithResource("payroll-runs"),
			)

			for _, role := range []rbac.Role{rbac.Viewer, rbac.Developer} {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodGet, "/api/x", nil), session(role)))
				assert.Equal(t, http.StatusForbidden, rec.Code, role)
				assert.JSONEq(t, `{"error":"Forbidden","code":"FORBIDDEN"}`, rec.Body.String())
			}
			assert.False(t, called)
			assert.Empty(t, s.all())
			assert.Contains(t, buf.String(), routeauth.ErrEmptyRequirement.Error())
			assert.Contains(t, buf.String(), "payroll-runs")
		})
	}
}

func TestWrap_PassesSession(t *testing.T) {
	t.Parallel()

	var got routeauth.Session
	h := routeauth.Wrap(func(w http.ResponseWriter, _ *http.Request, s routeauth.Session) error {
		got = s
		return nil
	}, routeauth.RequireRole(rbac.Consultant))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodGet, "/", nil), session(rbac.Manager)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_1", got.UserID)
	assert.Equal(t, rbac.Manager, got.Role)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, rbac.Manager, got.Claims.Role)
}

func TestWrap_HandlerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		handler  routeauth.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "plain error",
			handler: func(http.ResponseWriter, *http.Request, routeauth.Session) error {
				return errors.New("pq: relation \"payrolls\" does not exist")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error","message":"` + routeauth.DefaultInternalErrorMessage + `"}`,
		},
		{
			name: "panic",
			handler: func(http.ResponseWriter, *http.Request, routeauth.Session) error {
				panic("nil map write")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error","message":"` + routeauth.DefaultInternalErrorMessage + `"}`,
		},
		{
			name: "role denial",
			handler: func(_ http.ResponseWriter, _ *http.Request, s routeauth.Session) error {
				return &rbac.InsufficientRoleError{Required: rbac.OrgAdmin, Actual: s.Role}
			},
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Forbidden","code":"FORBIDDEN"}`,
		},
		{
			name: "permission denial",
			handler: func(_ http.ResponseWriter, _ *http.Request, s routeauth.Session) error {
				return &rbac.PermissionDeniedError{Permission: "billing:delete", Role: s.Role}
			},
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Forbidden","code":"FORBIDDEN"}`,
		},
		{
			name: "unauthorized",
			handler: func(http.ResponseWriter, *http.Request, routeauth.Session) error {
				return rbac.ErrUnauthorized
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Unauthorized","code":"UNAUTHORIZED"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			var mu sync.Mutex
			h := routeauth.Wrap(tt.handler, routeauth.WithLogger(slog.New(slog.NewJSONHandler(&syncWriter{mu: &mu, w: &logs}, nil))))

			rec := httptest.NewRecorder()
			require.NotPanics(t, func() {
				h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodGet, "/", nil), session(rbac.Manager)))
			})

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "pq:")
			assert.NotContains(t, rec.Body.String(), "goroutine")

			if tt.wantCode == http.StatusInternalServerError {
				mu.Lock()
				assert.Contains(t, logs.String(), "routeauth")
				mu.Unlock()
			}
		})
	}
}

func TestWrap_ErrorAfterWrite(t *testing.T) {
	t.Parallel()

	h := routeauth.Wrap(func(w http.ResponseWriter, _ *http.Request, _ routeauth.Session) error {
		w.WriteHeader(http.StatusAccepted)
		return errors.New("late failure")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withChecker(httptest.NewRequest(http.MethodGet, "/", nil), session(rbac.Viewer)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWrap_EndToEnd(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret-with-enough-entropy-123")
	svc, err := jwt.New(secret)
	require.NoError(t, err)
	provider, err := access.NewProvider()
	require.NoError(t, err)

	s := &sink{}
	called := false
	protected := routeauth.Wrap(okHandler(&called),
		routeauth.RequireRole(rbac.Manager),
		routeauth.WithAuditLogger(audit.NewLogger(s)),
	)
	h := jwt.Middleware(svc)(access.Middleware(provider)(audit.Middleware(protected)))

	token := func(role string) string {
		tok, err := svc.Generate(map[string]any{
			"sub":      "user_9",
			"exp":      time.Now().Add(time.Hour).Unix(),
			"metadata": map[string]any{"role": role},
		})
		require.NoError(t, err)
		return tok
	}

	// Scenario: no session.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// Scenario: viewer on a manager route.
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token("viewer"))
	req.Header.Set("User-Agent", "payroll-web/2.1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	// Manager passes.
	req = httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token("manager"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)

	recs := s.all()
	require.Len(t, recs, 2)
	assert.Equal(t, audit.KindAuthFailure, recs[0].Kind)
	assert.Equal(t, "manager", recs[1].RequiredRole)
	assert.Equal(t, "viewer", recs[1].UserRole)
	assert.Equal(t, "user_9", recs[1].UserID)
	assert.Equal(t, "payroll-web/2.1", recs[1].UserAgent)
}

type syncWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
