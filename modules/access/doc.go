// Package access is the HTTP API for inspecting and administering user
// access. Every route runs behind routeauth, so a missing session is a 401
// and an insufficient role or permission is a 403 with an audit record.
//
// Routes, relative to the mount point:
//
//	GET  /me/permissions         any signed-in user; effective permissions with their source
//	PUT  /users/{userID}/access  target role in the caller's allowedRoles; persists, then syncs claims
//	POST /users/{userID}/sync    org_admin; republishes the stored record
//	GET  /audit/denials          audit:read; recent denial records
//
// A failed identity provider write after a successful save answers 502; the
// stored record stays authoritative and a later sync converges on it.
package access
