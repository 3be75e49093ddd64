// Package routeauth protects HTTP handlers with role and permission
// requirements.
//
// Wrap runs after jwt.Middleware and access.Middleware. A request without a
// usable session gets 401, a session below the requirement gets 403 and an
// audit record, and everything else reaches the handler with a normalized
// Session. Handler errors that are not authorization errors, and panics,
// become a generic 500 response; details are logged server-side only.
//
//	r.Method(http.MethodPost, "/payrolls/{id}/approve", routeauth.Wrap(approve,
//		routeauth.RequirePermission("payrolls:approve"),
//		routeauth.WithAuditLogger(auditLog),
//		routeauth.WithLogger(log),
//	))
package routeauth
