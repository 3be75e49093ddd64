package access

import (
	"log/slog"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
)

// Option configures a Service.
type Option func(*Service)

// WithAuditReader enables GET /audit/denials.
func WithAuditReader(r audit.Reader) Option {
	return func(s *Service) { s.audits = r }
}

// WithAuditLogger records denied and failed requests.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) { s.audit = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
