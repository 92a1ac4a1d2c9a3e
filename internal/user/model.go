package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/password"
	"github.com/redmonkez12/storefront-api/internal/token"
)

// Role is the authorization role of a customer account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// MinPasswordLength is the shortest accepted plaintext password.
const MinPasswordLength = 4

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = password.ErrTooLong
	ErrAvatarRequired     = errors.New("avatar is required")
	ErrAddressTypeExists  = errors.New("address type already exists")
)

// Address is one entry of a customer's ordered address book
type Address struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	ZipCode     int    `json:"zip_code"`
	AddressType string `json:"address_type"`
}

// User is a customer account. Password holds the bcrypt hash once persisted
// and is never serialised.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name               string     `bun:"name,notnull" json:"name"`
	Email              string     `bun:"email,notnull,unique" json:"email"`
	Password           string     `bun:"password,notnull" json:"-"`
	PhoneNumber        *int64     `bun:"phone_number" json:"phone_number,omitempty"`
	Addresses          []Address  `bun:"addresses,type:jsonb" json:"addresses"`
	Role               Role       `bun:"role,notnull,default:'user'" json:"role"`
	Avatar             string     `bun:"avatar,notnull" json:"avatar"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	ResetPasswordToken *string    `bun:"reset_password_token" json:"-"`
	ResetPasswordTime  *time.Time `bun:"reset_password_time" json:"-"`

	// set by SetPassword, cleared once the hash has been written
	passwordChanged bool
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

// SetPassword stages a new plaintext password. It is hashed on the next
// insert or update of this record.
func (u *User) SetPassword(plain string) {
	u.Password = plain
	u.passwordChanged = true
}

// PasswordChanged reports whether a staged plaintext is waiting to be hashed.
func (u *User) PasswordChanged() bool {
	return u.passwordChanged
}

// BeforeAppendModel fills insert defaults and hashes a staged password.
// Records whose password was not staged keep their stored hash untouched.
func (u *User) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		if u.Role == "" {
			u.Role = RoleUser
		}
	case *bun.UpdateQuery:
	default:
		return nil
	}

	if !u.passwordChanged {
		return nil
	}

	hash, err := password.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	u.passwordChanged = false
	return nil
}

// ComparePassword checks plain against the stored hash. A record loaded
// without its password never matches.
func (u *User) ComparePassword(plain string) bool {
	return password.Compare(u.Password, plain)
}

// IssueToken mints an identity token for this user.
func (u *User) IssueToken(issuer token.Issuer) (string, error) {
	return issuer.Issue(u.ID)
}

// Validate checks the registration rules. It must run before the password
// is hashed.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmailFormat
	}
	if u.Password == "" {
		return ErrPasswordRequired
	}
	if u.passwordChanged {
		if err := CheckPasswordLength(u.Password); err != nil {
			return err
		}
	}
	if u.Avatar == "" {
		return ErrAvatarRequired
	}
	return nil
}

// CheckPasswordLength enforces the plaintext length bounds.
func CheckPasswordLength(plain string) error {
	switch {
	case len(plain) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(plain) > password.MaxLength:
		return ErrPasswordTooLong
	}
	return nil
}

// AddAddress appends addr unless an address of the same type already exists.
func (u *User) AddAddress(addr Address) error {
	for _, existing := range u.Addresses {
		if existing.AddressType == addr.AddressType {
			return fmt.Errorf("%w: %s", ErrAddressTypeExists, addr.AddressType)
		}
	}
	u.Addresses = append(u.Addresses, addr)
	return nil
}
