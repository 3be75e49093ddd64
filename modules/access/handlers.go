package access

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/binder"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/response"
	"github.com/dmitrymomot/payrollguard/pkg/routeauth"
	"github.com/dmitrymomot/payrollguard/pkg/usersync"
)

var pathParams = binder.Path(chi.URLParam)

func (s *Service) myPermissions(w http.ResponseWriter, r *http.Request, sess routeauth.Session) error {
	c := sess.Checker
	keys := permission.Catalog()
	decisions := make([]rbac.Decision, 0, len(keys))
	for _, k := range keys {
		decisions = append(decisions, rbac.Decision{Permission: k, Granted: c.Has(k), Source: c.Source(k)})
	}

	return response.JSON(PermissionsResponse{
		UserID:              sess.UserID,
		Role:                sess.Role.String(),
		AllowedRoles:        rbac.RoleStrings(c.AllowedRoles()),
		ExcludedPermissions: permission.Strings(sess.Claims.ExcludedPermissions),
		Permissions:         permission.Strings(c.EffectivePermissions()),
		Decisions:           decisions,
	}).Render(w, r)
}

func (s *Service) assignAccess(w http.ResponseWriter, r *http.Request, sess routeauth.Session) error {
	var req AssignRequest
	if err := binder.Bind(r, &req, binder.JSON(), pathParams); err != nil {
		return bindError(w, r, err, "request body must be a JSON object with role, excludedPermissions and allowedRoles")
	}

	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		return response.BadRequest(err.Error()).Render(w, r)
	}
	allowed, err := rbac.ParseRoles(req.AllowedRoles)
	if err != nil {
		return response.BadRequest(err.Error()).Render(w, r)
	}
	excluded, err := permission.ParsePatterns(req.ExcludedPermissions)
	if err != nil {
		return response.BadRequest(err.Error()).Render(w, r)
	}

	meta, err := s.sync.Assign(r.Context(), sess.Claims, req.UserID, role, excluded, allowed)
	if err != nil {
		return s.syncError(w, r, req.UserID, err)
	}
	return response.JSON(AccessResponse{UserID: req.UserID, Metadata: meta}).Render(w, r)
}

func (s *Service) syncAccess(w http.ResponseWriter, r *http.Request, _ routeauth.Session) error {
	var req SyncRequest
	if err := binder.Bind(r, &req, pathParams); err != nil {
		return bindError(w, r, err, "")
	}

	meta, err := s.sync.Sync(r.Context(), req.UserID)
	if err != nil {
		return s.syncError(w, r, req.UserID, err)
	}
	return response.JSON(AccessResponse{UserID: req.UserID, Metadata: meta}).Render(w, r)
}

// syncError answers the client-facing failures and hands the rest to
// routeauth, which maps denials to 403 and everything else to 500.
func (s *Service) syncError(w http.ResponseWriter, r *http.Request, userID string, err error) error {
	switch {
	case errors.Is(err, usersync.ErrInvalidInput):
		return response.BadRequest(err.Error()).Render(w, r)
	case errors.Is(err, usersync.ErrRecordNotFound):
		return response.NotFound("no access record for user " + strconv.Quote(userID)).Render(w, r)
	case errors.Is(err, usersync.ErrSyncFailed):
		s.log.WarnContext(r.Context(), "identity provider sync failed",
			logger.UserID(userID),
			logger.Error(err),
		)
		return response.Error(http.StatusBadGateway, response.ErrorBody{
			Error:   "Bad gateway",
			Code:    "SYNC_FAILED",
			Message: "Access could not be published to the identity provider. Retry the sync later.",
		}).Render(w, r)
	default:
		return err
	}
}

func (s *Service) listDenials(w http.ResponseWriter, r *http.Request, _ routeauth.Session) error {
	var q DenialsQuery
	if err := binder.Bind(r, &q, binder.Query()); err != nil {
		return bindError(w, r, err, "")
	}
	f, err := q.filter()
	if err != nil {
		return response.BadRequest(err.Error()).Render(w, r)
	}

	recs, err := s.audits.Find(r.Context(), f)
	if errors.Is(err, audit.ErrInvalidFilter) {
		return response.BadRequest(err.Error()).Render(w, r)
	}
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []audit.Record{}
	}

	resp := DenialsResponse{Records: recs, Count: len(recs)}
	if !f.Since.IsZero() {
		resp.Since = &f.Since
	}
	if !f.Until.IsZero() {
		resp.Until = &f.Until
	}
	return response.JSON(resp).Render(w, r)
}

// filter turns the bound query into an audit filter. kind defaults to
// access_denied and may only name a denial.
func (q DenialsQuery) filter() (audit.Filter, error) {
	f := audit.Filter{
		UserID:   strings.TrimSpace(q.UserID),
		Resource: strings.TrimSpace(q.Resource),
		Kind:     audit.KindAccessDenied,
		Since:    q.Since,
		Until:    q.Until,
		Limit:    q.Limit,
	}
	switch q.Kind {
	case "":
	case audit.KindAccessDenied, audit.KindAuthFailure:
		f.Kind = q.Kind
	default:
		return f, errors.New("kind must be access_denied or auth_failure")
	}
	return f, nil
}

// bindError answers client binding failures with 400. msg replaces the
// binder's own message when set.
func bindError(w http.ResponseWriter, r *http.Request, err error, msg string) error {
	if !binder.IsBindError(err) {
		return err
	}
	if msg == "" {
		msg = err.Error()
	}
	return response.BadRequest(msg).Render(w, r)
}
