// Package clientip resolves the originating client address of an HTTP
// request behind proxies and carries it through the request context.
//
// The resolved address is recorded on audit records and attached to log
// lines. Only headers set by infrastructure you control should be trusted;
// NewResolver narrows the list when the service is not behind Cloudflare.
package clientip
