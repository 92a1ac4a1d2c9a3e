// Package token issues and verifies the signed, time-bounded identity tokens
// carried by customers and sellers. A token encodes only the subject id and
// its expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL applies when no expiry is configured.
const DefaultTTL = 7 * 24 * time.Hour

// subjectClaim is the claim holding the principal id.
const subjectClaim = "id"

var (
	// ErrInvalidOrExpiredToken covers bad signatures, malformed tokens,
	// expired tokens and tokens without a usable subject.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrMissingSecret         = errors.New("token signing secret is not configured")
)

// Format selects the token implementation.
type Format string

const (
	FormatJWT    Format = "jwt"
	FormatPaseto Format = "paseto"
)

// Issuer mints a token for a subject.
type Issuer interface {
	Issue(subjectID uuid.UUID) (string, error)
}

// Verifier validates a token and returns its subject.
type Verifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Codec both issues and verifies tokens.
// Implementations include JWTCodec (HS256) and PasetoCodec (PASETO v4.local).
type Codec interface {
	Issuer
	Verifier
	TTL() time.Duration
}

// Option customises a codec.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the codec for format. An empty or unknown format is a
// configuration error.
func New(format Format, secret []byte, ttl time.Duration, opts ...Option) (Codec, error) {
	switch format {
	case FormatJWT:
		return NewJWTCodec(secret, ttl, opts...)
	case FormatPaseto:
		return NewPasetoCodec(secret, ttl, opts...)
	default:
		return nil, fmt.Errorf("unsupported token format %q", format)
	}
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, cause)
}
