// Package access answers permission and role questions for the current
// session.
//
// A Checker is an immutable view over decoded session claims. It has three
// states: pending (claims not resolved yet), anonymous (resolved, no usable
// identity) and authenticated. Every query on a pending or anonymous checker
// returns false, and IsLoading tells the pending case apart so callers can
// show a loading state instead of a denial.
//
// Checkers are built by a Provider, which memoizes the expensive part (the
// effective permission set) in an LRU keyed by the claims fingerprint. Two
// sessions with the same role, allowed roles and exclusions share one entry,
// and nothing is recomputed until one of those inputs changes.
//
// Middleware resolves the verified token claims stored by the jwt package into
// a Checker and puts it in the request context:
//
//	provider, _ := access.NewProvider()
//	r.Use(jwt.Middleware(verifier), access.Middleware(provider))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		if access.FromContext(r.Context()).HasPermission("payrolls:approve") {
//			// ...
//		}
//	}
package access
