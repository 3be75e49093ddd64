package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFindQuery(t *testing.T) {
	t.Parallel()

	const cols = "id, kind, user_id, user_role, required_permission, required_role, resource, action, reason, request_id, user_agent, ip, created_at"

	query, args := buildFindQuery(Filter{Limit: 10})
	assert.Equal(t, "SELECT "+cols+" FROM access_audit_log ORDER BY created_at DESC LIMIT $1", query)
	assert.Equal(t, []any{10}, args)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args = buildFindQuery(Filter{UserID: "alice", Kind: KindAccessDenied, Since: since, Limit: 5})
	assert.Equal(t, "SELECT "+cols+" FROM access_audit_log WHERE user_id = $1 AND kind = $2 AND created_at >= $3 ORDER BY created_at DESC LIMIT $4", query)
	assert.Equal(t, []any{"alice", "access_denied", since, 5}, args)
}
