package token

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoCodec issues PASETO v4.local tokens (XChaCha20-Poly1305, symmetric).
type PasetoCodec struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

func NewPasetoCodec(symmetricKey []byte, ttl time.Duration, opts ...Option) (*PasetoCodec, error) {
	if len(symmetricKey) == 0 {
		return nil, ErrMissingSecret
	}
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	o := buildOptions(opts)
	return &PasetoCodec{
		key: key,
		ttl: normalizeTTL(ttl),
		now: o.now,
	}, nil
}

func (c *PasetoCodec) TTL() time.Duration {
	return c.ttl
}

func (c *PasetoCodec) Issue(subjectID uuid.UUID) (string, error) {
	now := c.now()

	t := paseto.NewToken()
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(now.Add(c.ttl))
	t.SetString(subjectClaim, subjectID.String())

	return t.V4Encrypt(c.key, nil), nil
}

func (c *PasetoCodec) Verify(tokenStr string) (uuid.UUID, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ValidAt(c.now()))

	t, err := parser.ParseV4Local(c.key, tokenStr, nil)
	if err != nil {
		return uuid.Nil, invalid(err)
	}

	raw, err := t.GetString(subjectClaim)
	if err != nil {
		return uuid.Nil, invalid(err)
	}

	subjectID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid(err)
	}
	return subjectID, nil
}
