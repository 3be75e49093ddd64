package guard

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
)

// Options controls how a guard renders and audits.
type Options struct {
	// Fallback renders instead of the default denied view.
	Fallback templ.Component
	// Loading renders while claims are pending. Nil renders nothing.
	Loading templ.Component
	// RedirectTo sends denied users elsewhere on the client side. It takes
	// precedence over Fallback.
	RedirectTo string
	// Resource names what is guarded in audit records.
	Resource string
	// Audit receives denials, and grants when AuditEvaluations is set.
	Audit *audit.Logger
	// AuditEvaluations records granted evaluations too. The logger must have
	// access logging enabled for grants to be stored.
	AuditEvaluations bool
}

type Option func(*Options)

func WithFallback(c templ.Component) Option {
	return func(o *Options) { o.Fallback = c }
}

func WithLoading(c templ.Component) Option {
	return func(o *Options) { o.Loading = c }
}

func WithRedirect(target string) Option {
	return func(o *Options) { o.RedirectTo = target }
}

func WithResource(name string) Option {
	return func(o *Options) { o.Resource = name }
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(o *Options) { o.Audit = l }
}

// WithAuditEvaluations records every evaluation, grants included.
func WithAuditEvaluations() Option {
	return func(o *Options) { o.AuditEvaluations = true }
}

func newOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
