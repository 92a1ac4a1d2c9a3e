package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pasetoKey = []byte("0123456789abcdef0123456789abcdef")

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func codecs(t *testing.T, clock *fakeClock, ttl time.Duration) map[string]Codec {
	t.Helper()

	j, err := NewJWTCodec([]byte("jwt-secret"), ttl, WithClock(clock.Now))
	require.NoError(t, err)
	p, err := NewPasetoCodec(pasetoKey, ttl, WithClock(clock.Now))
	require.NoError(t, err)

	return map[string]Codec{"jwt": j, "paseto": p}
}

func TestCodec_IssueThenVerify(t *testing.T) {
	for name, codec := range codecs(t, newClock(), time.Hour) {
		t.Run(name, func(t *testing.T) {
			id := uuid.New()

			tok, err := codec.Issue(id)
			require.NoError(t, err)

			got, err := codec.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestCodec_ExpiresAfterTTL(t *testing.T) {
	clock := newClock()
	for name, codec := range codecs(t, clock, time.Hour) {
		t.Run(name, func(t *testing.T) {
			start := clock.t
			defer func() { clock.t = start }()

			tok, err := codec.Issue(uuid.New())
			require.NoError(t, err)

			clock.Advance(59 * time.Minute)
			_, err = codec.Verify(tok)
			require.NoError(t, err)

			clock.Advance(2 * time.Minute)
			_, err = codec.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
		})
	}
}

func TestCodec_RejectsGarbage(t *testing.T) {
	for name, codec := range codecs(t, newClock(), time.Hour) {
		t.Run(name, func(t *testing.T) {
			for _, raw := range []string{"", "not.a.token", "v4.local.AAAA", strings.Repeat("x", 64)} {
				_, err := codec.Verify(raw)
				assert.ErrorIs(t, err, ErrInvalidOrExpiredToken, "input %q", raw)
			}
		})
	}
}

func TestCodec_DefaultTTL(t *testing.T) {
	for name, codec := range codecs(t, newClock(), 0) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, DefaultTTL, codec.TTL())
		})
	}
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	clock := newClock()
	issuer, err := NewJWTCodec([]byte("right-secret"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	verifier, err := NewJWTCodec([]byte("wrong-secret"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestJWTCodec_PayloadShape(t *testing.T) {
	clock := newClock()
	codec, err := NewJWTCodec([]byte("secret"), 7*24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	id := uuid.New()
	tok, err := codec.Issue(id)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, id.String(), claims["id"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour).Unix(), exp.Unix())
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	clock := newClock()
	codec, err := NewJWTCodec([]byte("secret"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtClaims{
		ID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	tok, err := forged.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestJWTCodec_RequiresExpiryAndSubject(t *testing.T) {
	clock := newClock()
	secret := []byte("secret")
	codec, err := NewJWTCodec(secret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{ID: uuid.NewString()}).SignedString(secret)
	require.NoError(t, err)
	_, err = codec.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		ID:               "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = codec.Verify(badSubject)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestNew(t *testing.T) {
	c, err := New(FormatJWT, []byte("secret"), time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &JWTCodec{}, c)

	c, err = New(FormatPaseto, pasetoKey, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &PasetoCodec{}, c)

	_, err = New("rot13", []byte("secret"), time.Hour)
	assert.Error(t, err)

	_, err = New(FormatJWT, nil, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = New(FormatPaseto, []byte("short"), time.Hour)
	assert.Error(t, err)
}
