package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTCodec signs tokens with HMAC-SHA256.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTCodec(secret []byte, ttl time.Duration, opts ...Option) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	o := buildOptions(opts)
	return &JWTCodec{
		secret: secret,
		ttl:    normalizeTTL(ttl),
		now:    o.now,
	}, nil
}

func (c *JWTCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs {id, iat, exp} for subjectID.
func (c *JWTCodec) Issue(subjectID uuid.UUID) (string, error) {
	now := c.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		ID: subjectID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry, then returns the subject.
func (c *JWTCodec) Verify(tokenStr string) (uuid.UUID, error) {
	claims := &jwtClaims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return uuid.Nil, invalid(err)
	}

	if claims.ID == "" {
		return uuid.Nil, invalid(errors.New("missing subject claim"))
	}

	subjectID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, invalid(err)
	}
	return subjectID, nil
}
