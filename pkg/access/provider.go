package access

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// DefaultCacheSize bounds the number of distinct grant sets kept in memory.
// Real deployments see a few dozen role/exclusion combinations at most.
const DefaultCacheSize = 1024

// Provider builds Checkers and memoizes their grant sets by claims
// fingerprint. It is safe for concurrent use.
type Provider struct {
	hierarchy *rbac.Hierarchy
	cache     *lru.Cache[string, *grantSet]
	hits      atomic.Uint64
	misses    atomic.Uint64
}

// ProviderOption configures a Provider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	hierarchy *rbac.Hierarchy
	size      int
}

// WithHierarchy overrides the role hierarchy.
func WithHierarchy(h *rbac.Hierarchy) ProviderOption {
	return func(c *providerConfig) {
		if h != nil {
			c.hierarchy = h
		}
	}
}

// WithCacheSize sets the LRU capacity.
func WithCacheSize(n int) ProviderOption {
	return func(c *providerConfig) {
		if n > 0 {
			c.size = n
		}
	}
}

// NewProvider creates a Provider.
func NewProvider(opts ...ProviderOption) (*Provider, error) {
	cfg := providerConfig{hierarchy: rbac.DefaultHierarchy(), size: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New[string, *grantSet](cfg.size)
	if err != nil {
		return nil, fmt.Errorf("access: create grant cache: %w", err)
	}
	return &Provider{hierarchy: cfg.hierarchy, cache: cache}, nil
}

// Checker returns a checker for c, reusing a cached grant set when one with
// the same fingerprint exists.
func (p *Provider) Checker(c claims.SessionClaims) *Checker {
	if !c.Authenticated() {
		return newChecker(c, nil, p.hierarchy)
	}
	fp := c.Fingerprint()
	if gs, ok := p.cache.Get(fp); ok {
		p.hits.Add(1)
		return newChecker(c, gs, p.hierarchy)
	}
	p.misses.Add(1)
	gs := newGrantSet(p.hierarchy, c)
	p.cache.Add(fp, gs)
	return newChecker(c, gs, p.hierarchy)
}

// Resolve decodes raw token claims into a checker. Nil claims mean no session
// and yield Anonymous. Claims that cannot be decoded yield an anonymous
// checker whose Err reports why.
func (p *Provider) Resolve(raw map[string]any, opts ...claims.DecodeOption) *Checker {
	if raw == nil {
		return Anonymous()
	}
	c, err := claims.Decode(raw, opts...)
	if err != nil {
		return unusable(err)
	}
	return p.Checker(c)
}

// Stats reports cache hits and misses since creation.
func (p *Provider) Stats() (hits, misses uint64) {
	return p.hits.Load(), p.misses.Load()
}
