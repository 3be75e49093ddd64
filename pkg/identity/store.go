package identity

import (
	"context"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
)

// MetadataStore is the provider-side home of a user's access metadata.
//
// GetMetadata returns the zero Metadata for a known user that has never been
// synced. SetMetadata replaces the stored object; concurrent writers are
// last-write-wins.
type MetadataStore interface {
	GetMetadata(ctx context.Context, userID string) (claims.Metadata, error)
	SetMetadata(ctx context.Context, userID string, m claims.Metadata) error
}
