// Package identity reads and writes the per-user access metadata held by the
// identity provider.
//
// The provider embeds that metadata into every session token it issues, so a
// successful SetMetadata is what eventually changes a user's claims. Writes
// replace the whole access object in one request; there is no partially
// written state for readers to observe.
//
// Three MetadataStore implementations are provided:
//
//   - ClerkClient talks to the provider's backend API over HTTP.
//   - RedisStore keeps metadata in Redis for self-hosted and development setups.
//   - MemoryStore is an in-process store with write-failure injection for tests.
package identity
