// Package password hashes and verifies principal passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the fixed bcrypt work factor for every stored hash.
const Cost = 10

// MaxLength is the longest input bcrypt accepts, in bytes.
const MaxLength = 72

var (
	ErrEmpty   = errors.New("password is empty")
	ErrTooLong = fmt.Errorf("password must be at most %d bytes", MaxLength)
)

// Hash returns a salted bcrypt hash of plain.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// Compare reports whether plain matches hash. An empty hash and any bcrypt
// error both count as a mismatch.
func Compare(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
