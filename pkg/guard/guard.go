package guard

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/payrollguard/pkg/access"
	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// auditAction is the action recorded for guard evaluations.
const auditAction = "view"

// Guard renders children only when req is satisfied by the checker stored in
// the render context.
func Guard(req Requirement, children templ.Component, opts ...Option) templ.Component {
	o := newOptions(opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		c := access.FromContext(ctx)
		switch req.Evaluate(c) {
		case StateLoading:
			if o.Loading == nil {
				return nil
			}
			return o.Loading.Render(ctx, w)
		case StateGranted:
			if o.AuditEvaluations {
				o.Audit.LogAccess(ctx, actorOf(c), o.Resource, auditAction)
			}
			if children == nil {
				return nil
			}
			return children.Render(ctx, w)
		default:
			o.auditDenial(ctx, c, req)
			return o.renderDenied(ctx, w, c, req)
		}
	})
}

// AdminOnly renders children for org_admin and above.
func AdminOnly(children templ.Component, opts ...Option) templ.Component {
	return Guard(MinRole(rbac.OrgAdmin), children, opts...)
}

// ManagerOrAbove renders children for manager and above.
func ManagerOrAbove(children templ.Component, opts ...Option) templ.Component {
	return Guard(MinRole(rbac.Manager), children, opts...)
}

// DeveloperOnly renders children for developers.
func DeveloperOnly(children templ.Component, opts ...Option) templ.Component {
	return Guard(MinRole(rbac.Developer), children, opts...)
}

// RequireRole renders children for role and above.
func RequireRole(role rbac.Role, children templ.Component, opts ...Option) templ.Component {
	return Guard(MinRole(role), children, opts...)
}

// RequirePermission renders children when the keys are granted under mode.
func RequirePermission(keys []string, mode Mode, children templ.Component, opts ...Option) templ.Component {
	return Guard(Permissions(mode, keys...), children, opts...)
}

// Authenticated renders children for any signed-in user.
func Authenticated(children templ.Component, opts ...Option) templ.Component {
	return Guard(SignedIn(), children, opts...)
}

func actorOf(c *access.Checker) audit.Actor {
	return audit.Actor{UserID: c.UserID(), Role: c.Role()}
}

func (o Options) auditDenial(ctx context.Context, c *access.Checker, req Requirement) {
	if o.Audit == nil {
		return
	}
	if !c.IsAuthenticated() {
		rc := audit.RequestFromContext(ctx)
		if o.Resource != "" {
			rc.Path = o.Resource
		}
		o.Audit.LogAuthFailure(ctx, rc, "sign-in required for "+req.String())
		return
	}
	switch req.kind {
	case kindRole:
		o.Audit.LogAccessDenied(ctx, actorOf(c), req.role, o.Resource, auditAction)
	case kindPermissions:
		if k, ok := req.missing(c); ok {
			o.Audit.LogPermissionDenied(ctx, actorOf(c), k, o.Resource, auditAction)
		}
	}
}

func (o Options) renderDenied(ctx context.Context, w io.Writer, c *access.Checker, req Requirement) error {
	switch {
	case o.RedirectTo != "":
		return redirect(o.RedirectTo).Render(ctx, w)
	case o.Fallback != nil:
		return o.Fallback.Render(ctx, w)
	default:
		return deniedView(c, req).Render(ctx, w)
	}
}

// deniedView names the required access and the user's current role.
func deniedView(c *access.Checker, req Requirement) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		msg := "Sign in to access this content."
		if c.IsAuthenticated() {
			msg = "This content requires " + req.String() + ". Your current role is " + c.Role().String() + "."
		}
		_, err := io.WriteString(w, `<div class="access-denied" role="alert"><p class="access-denied__title">Access denied</p><p class="access-denied__detail">`+
			templ.EscapeString(msg)+`</p></div>`)
		return err
	})
}

// redirect navigates the browser to target. Unsafe URLs are replaced by
// templ's sanitized placeholder.
func redirect(target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		safe := string(templ.URL(target))
		js, err := json.Marshal(safe)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `<meta http-equiv="refresh" content="0;url=`+templ.EscapeString(safe)+`">`+
			`<script>window.location.replace(`+string(js)+`);</script>`)
		return err
	})
}
