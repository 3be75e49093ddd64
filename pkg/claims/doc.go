// Package claims decodes session token payloads into a normalized
// SessionClaims value and defines the metadata object the synchronizer writes
// to the identity provider.
//
// Two claim shapes exist in the wild. The current shape carries the access
// object directly:
//
//	{"sub": "user_1", "metadata": {"role": "manager", "allowedRoles": ["viewer"], "excludedPermissions": ["payrolls:approve"]}}
//
// The legacy shape nests it under a namespaced Hasura claims key:
//
//	{"sub": "user_1", "https://hasura.io/jwt/claims": {"x-hasura-default-role": "manager", "x-hasura-allowed-roles": ["viewer", "manager"]}}
//
// Decode tries the current shape first and falls back to the legacy one.
// No other package branches on claim shape.
package claims
