// Package permission defines the closed vocabulary of capabilities in the
// payroll application and the pattern language used to grant or exclude them.
//
// A permission Key names one capability as "resource:action", for example
// "payrolls:write". Keys are validated against a catalog compiled into the
// binary, so an unknown capability is rejected at the boundary instead of
// silently evaluating to "denied" deep inside the resolver.
//
// A Pattern selects a set of keys. Three forms are understood:
//
//   - an exact key ("staff:delete")
//   - a resource wildcard ("staff:*") matching every action on a resource
//   - the global wildcard ("*") matching every key
//
// The canonical separator is ":". The legacy "." form ("staff.delete",
// "staff.*") is accepted by ParseKey and ParsePattern and normalized, so the
// rest of the system never sees it.
//
// # Usage
//
//	key, err := permission.ParseKey("payrolls.write") // -> "payrolls:write"
//	if err != nil {
//	    return err
//	}
//
//	excluded, err := permission.ParsePatterns([]string{"staff:*"})
//	if err != nil {
//	    return err
//	}
//
//	if permission.MatchesAny(excluded, key) {
//	    // excluded
//	}
package permission
