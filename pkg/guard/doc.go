// Package guard provides templ components that render their children only
// when the session in the render context meets a requirement.
//
// Each guard moves from Loading to Granted or Denied. Loading renders the
// configured loading component or nothing. Denied renders, in order of
// preference, a client-side redirect, the fallback component, or a default
// message naming the required access and the user's current role.
//
//	guard.ManagerOrAbove(approveButton(),
//		guard.WithResource("payrolls.approve"),
//		guard.WithAuditLogger(auditLog),
//	)
//
//	guard.RequirePermission([]string{"billing:read", "reports:read"}, guard.Any, summary())
//
// The checker is read with access.FromContext, so pages must be rendered with
// the request context produced by access.Middleware.
package guard
