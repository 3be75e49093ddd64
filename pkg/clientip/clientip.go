package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders is the proxy header order used by GetIP: Cloudflare first,
// then the platform load balancer, then generic reverse proxies.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

var defaultResolver = NewResolver()

// Resolver finds the client address of a request by consulting a fixed list
// of trusted proxy headers before falling back to RemoteAddr.
type Resolver struct {
	headers []string
}

// NewResolver returns a Resolver trusting headers in the given order. With no
// headers it uses DefaultHeaders.
func NewResolver(headers ...string) *Resolver {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	clean := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			clean = append(clean, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: clean}
}

// Resolve returns the normalised client IP, or "" when neither the trusted
// headers nor RemoteAddr hold a valid address. Comma separated header values
// yield their first valid entry.
func (res *Resolver) Resolve(r *http.Request) string {
	for _, h := range res.headers {
		for v := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip := normalize(v); ip != "" {
				return ip
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return normalize(host)
	}
	return normalize(r.RemoteAddr)
}

// GetIP resolves the client IP with DefaultHeaders.
func GetIP(r *http.Request) string {
	return defaultResolver.Resolve(r)
}

func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
