package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Verifier checks a token's signature and registered claims and returns its
// payload.
type Verifier interface {
	Parse(token string) (map[string]any, error)
}

// Option configures the parser used by a Service.
type Option func(*options)

type options struct {
	issuer   string
	audience string
	leeway   time.Duration
}

// WithIssuer requires the "iss" claim to match.
func WithIssuer(iss string) Option {
	return func(o *options) { o.issuer = iss }
}

// WithAudience requires the "aud" claim to contain aud.
func WithAudience(aud string) Option {
	return func(o *options) { o.audience = aud }
}

// WithLeeway tolerates clock skew when validating exp, nbf and iat.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

// Service verifies session tokens issued by the identity provider.
// HMAC services can also sign, which is used for development tokens.
type Service struct {
	method  gojwt.SigningMethod
	signKey any
	keyFunc gojwt.Keyfunc
	parser  *gojwt.Parser
}

// New creates an HS256 service from a shared secret.
func New(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	key := append([]byte(nil), secret...)
	return newService(gojwt.SigningMethodHS256, key, func(*gojwt.Token) (any, error) {
		return key, nil
	}, opts), nil
}

// NewFromString is New for string-based configuration.
func NewFromString(secret string, opts ...Option) (*Service, error) {
	return New([]byte(secret), opts...)
}

// NewRSAVerifier creates an RS256 verify-only service from a PEM encoded
// public key, the form identity providers publish for session tokens.
func NewRSAVerifier(publicKeyPEM []byte, opts ...Option) (*Service, error) {
	if len(strings.TrimSpace(string(publicKeyPEM))) == 0 {
		return nil, ErrMissingSigningKey
	}
	pub, err := gojwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, errors.Join(ErrInvalidSigningKey, err)
	}
	return NewRSAVerifierFromKey(pub, opts...)
}

// NewRSAVerifierFromKey is NewRSAVerifier for an already parsed key.
func NewRSAVerifierFromKey(pub *rsa.PublicKey, opts ...Option) (*Service, error) {
	if pub == nil {
		return nil, ErrMissingSigningKey
	}
	return newService(gojwt.SigningMethodRS256, nil, func(*gojwt.Token) (any, error) {
		return pub, nil
	}, opts), nil
}

func newService(method gojwt.SigningMethod, signKey any, kf gojwt.Keyfunc, opts []Option) *Service {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	popts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{method.Alg()}),
		gojwt.WithIssuedAt(),
	}
	if o.issuer != "" {
		popts = append(popts, gojwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		popts = append(popts, gojwt.WithAudience(o.audience))
	}
	if o.leeway > 0 {
		popts = append(popts, gojwt.WithLeeway(o.leeway))
	}

	return &Service{
		method:  method,
		signKey: signKey,
		keyFunc: kf,
		parser:  gojwt.NewParser(popts...),
	}
}

// Generate signs claims. Only HMAC services can sign.
func (s *Service) Generate(claims map[string]any) (string, error) {
	if s.signKey == nil {
		return "", ErrSigningNotConfigured
	}
	if len(claims) == 0 {
		return "", ErrMissingClaims
	}
	token := gojwt.NewWithClaims(s.method, gojwt.MapClaims(claims))
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns its claims. The signing algorithm is
// pinned to the one the service was built with.
func (s *Service) Parse(token string) (map[string]any, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	parsed, err := s.parser.ParseWithClaims(token, gojwt.MapClaims{}, s.keyFunc)
	if err != nil {
		return nil, mapError(err)
	}
	mc, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return map[string]any(mc), nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
