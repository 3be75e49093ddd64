package access_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessapi "github.com/dmitrymomot/payrollguard/modules/access"
	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/routeauth"
	"github.com/dmitrymomot/payrollguard/pkg/usersync"
)

type mockSynchronizer struct {
	mock.Mock
}

func (m *mockSynchronizer) Assign(
	ctx context.Context,
	actor claims.SessionClaims,
	userID string,
	role rbac.Role,
	excluded []permission.Pattern,
	allowed []rbac.Role,
) (claims.Metadata, error) {
	args := m.Called(ctx, actor, userID, role, excluded, allowed)
	return args.Get(0).(claims.Metadata), args.Error(1)
}

func (m *mockSynchronizer) Sync(ctx context.Context, userID string) (claims.Metadata, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(claims.Metadata), args.Error(1)
}

func TestSyncErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"invalid input", usersync.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing record", usersync.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"provider failure", &usersync.SyncError{UserID: "user_1", Attempts: 4, Err: errors.New("timeout")}, http.StatusBadGateway, "SYNC_FAILED"},
		{"round trip mismatch", usersync.ErrRoundTrip, http.StatusInternalServerError, ""},
		{"insufficient role", &rbac.InsufficientRoleError{Required: rbac.OrgAdmin, Actual: rbac.Manager}, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			syncer := &mockSynchronizer{}
			syncer.On("Sync", mock.Anything, "user_1").Return(claims.Metadata{}, tt.err).Once()

			svc := accessapi.NewService(syncer)
			f := &fixture{handler: svc.Handle()}
			rec := f.do(t, orgAdmin(), http.MethodPost, "/users/user_1/sync", "")

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			body := decode[routeauth.ErrorBody](t, rec)
			assert.Equal(t, tt.wantBody, body.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.Equal(t, routeauth.DefaultInternalErrorMessage, body.Message)
			}
			syncer.AssertExpectations(t)
		})
	}
}

func TestAssignPassesParsedRequest(t *testing.T) {
	t.Parallel()

	syncer := &mockSynchronizer{}
	want := claims.NewMetadata(rbac.Consultant, nil, []permission.Pattern{"billing:*"}, fixedTime)
	syncer.On("Assign",
		mock.Anything,
		mock.MatchedBy(func(c claims.SessionClaims) bool { return c.UserID == "user_admin" }),
		"user_9",
		rbac.Consultant,
		[]permission.Pattern{"billing:*"},
		[]rbac.Role{rbac.Viewer},
	).Return(want, nil).Once()

	f := &fixture{handler: accessapi.NewService(syncer).Handle()}
	body := `{"role":"Consultant","excludedPermissions":["billing.*"],"allowedRoles":["viewer"]}`
	rec := f.do(t, orgAdmin(), http.MethodPut, "/users/user_9/access", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[accessapi.AccessResponse](t, rec)
	assert.Equal(t, "user_9", resp.UserID)
	assert.True(t, resp.Metadata.Equal(want))
	syncer.AssertExpectations(t)
}
