// Package rbac implements the payroll application's hierarchical role model.
//
// Roles form a strict total order:
//
//	viewer < consultant < manager < org_admin < developer
//
// Each role introduces a base grant of permission patterns. A role's
// cumulative grant is the union of its own base grant and every base grant
// below it, so permissions are inherited upward through the hierarchy.
//
// Individual users may carry exclusions: permission patterns subtracted from
// the cumulative grant. Exclusions only remove. They are checked before
// inheritance, so an exact exclusion such as "staff:delete" beats an
// inherited wildcard such as "staff:*".
//
// This "inherit broad, exclude narrow" representation keeps session claims
// small: a token carries a role and a short exclusion list, never the full
// permission set.
//
// Basic usage:
//
//	excluded, _ := permission.ParsePatterns([]string{"staff:delete"})
//	key := permission.MustParseKey("staff:update")
//
//	if rbac.HasPermission(rbac.OrgAdmin, key, excluded) {
//	    // granted
//	}
//
//	// Explain a decision
//	src := rbac.PermissionSource(rbac.OrgAdmin, permission.MustParseKey("staff:delete"), excluded)
//	// src == rbac.SourceExcluded
//
// Every resolver function treats an unknown or empty role as rank 0 with no
// grants, so indeterminate input fails closed. "Not granted" is a false
// return, never an error; errors are reserved for the Can / RequireRole
// helpers that feed HTTP and UI layers.
package rbac
