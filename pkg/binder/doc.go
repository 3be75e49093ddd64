// Package binder fills request structs from the JSON body, router path
// parameters and the query string.
//
// Each source is a Func; Bind runs them in order so later sources override
// earlier ones:
//
//	var req AssignRequest
//	err := binder.Bind(r, &req, binder.JSON(), binder.Path(chi.URLParam))
//
// Struct tags select the parameter name (`path:"userID"`, `query:"since"`);
// `-` skips a field. Scalars, time.Time (RFC 3339), pointers and slices are
// supported. Every failure wraps one of the package errors so handlers can
// answer with 400.
package binder
