// Package usersync keeps the identity provider's session metadata in step with
// the durable user-access records.
//
// A Synchronizer computes the compact {role, allowedRoles,
// excludedPermissions, lastUpdated} object for a user and writes it through an
// identity.MetadataStore. Only the role and exclusions are written, never a
// materialized permission list, so session tokens stay small.
//
// Before writing, the metadata is decoded back through claims.Decode and every
// catalog permission is evaluated against both the intended and the decoded
// state. Any disagreement aborts the sync with ErrRoundTrip.
//
// Writes are retried with exponential backoff. A sync that still fails returns
// a *SyncError and leaves the previously written metadata untouched, since the
// store replaces the object in a single request.
//
//	sync := usersync.New(store, repo, usersync.WithLogger(log))
//	if _, err := sync.Sync(ctx, userID); err != nil {
//		// the user keeps the previous claims until a retry succeeds
//	}
package usersync
